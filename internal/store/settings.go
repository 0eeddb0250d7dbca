package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsStore is a key/value table for application settings and the
// single operator's credentials.
type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value for key and whether it was set.
func (s *SettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	var row models.Setting
	err := s.db.WithContext(ctx).Where(&models.Setting{Key: key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// SetMany upserts all pairs in one transaction.
func (s *SettingsStore) SetMany(ctx context.Context, values map[string]string) error {
	rows := make([]models.Setting, 0, len(values))
	for k, v := range values {
		rows = append(rows, models.Setting{Key: k, Value: v})
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *SettingsStore) All(ctx context.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// Calculation reads the rate and default starting milk the calculator is
// composed with. Unset or unparseable values read as 0.
func (s *SettingsStore) Calculation(ctx context.Context) (entry.Settings, error) {
	all, err := s.All(ctx)
	if err != nil {
		return entry.Settings{}, err
	}
	return entry.Settings{
		MilkRate:            parseSetting(all[models.SettingMilkRate]),
		DefaultStartingMilk: parseSetting(all[models.SettingDefaultStartingMilk]),
	}, nil
}

func (s *SettingsStore) SetMilkRate(ctx context.Context, rate float64) error {
	return s.Set(ctx, models.SettingMilkRate, strconv.FormatFloat(rate, 'f', -1, 64))
}

func (s *SettingsStore) SetDefaultStartingMilk(ctx context.Context, liters float64) error {
	return s.Set(ctx, models.SettingDefaultStartingMilk, strconv.FormatFloat(liters, 'f', -1, 64))
}

func parseSetting(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
