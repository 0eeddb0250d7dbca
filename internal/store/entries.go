package store

import (
	"context"
	"fmt"
	"time"

	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntryStore struct {
	db *gorm.DB
}

func NewEntryStore(db *gorm.DB) *EntryStore {
	return &EntryStore{db: db}
}

// FetchEntries returns rows oldest first, morning before evening, unless
// the filter asks for newest first. "morning" sorts after "evening", hence
// the descending shift order.
func (s *EntryStore) FetchEntries(ctx context.Context, f Filter) ([]models.DailyEntry, error) {
	q := s.db.WithContext(ctx).Model(&models.DailyEntry{}).Preload("Atm")
	if !f.From.IsZero() {
		q = q.Where("date >= ?", entry.DateOnly(f.From))
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", entry.DateOnly(f.To))
	}
	if f.MachineID != nil {
		q = q.Where("atm_id = ?", *f.MachineID)
	}
	if f.Shift != "" {
		q = q.Where("shift = ?", string(f.Shift))
	}
	if f.NewestFirst {
		q = q.Order("date DESC").Order("shift ASC").Order("atm_id ASC")
	} else {
		q = q.Order("date ASC").Order("shift DESC").Order("atm_id ASC")
	}

	var rows []models.DailyEntry
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}
	return rows, nil
}

// Entries fetches and normalizes in one call.
func (s *EntryStore) Entries(ctx context.Context, f Filter) ([]entry.Entry, error) {
	rows, err := s.FetchEntries(ctx, f)
	if err != nil {
		return nil, err
	}
	return entry.FromModels(rows)
}

func (s *EntryStore) FetchByID(ctx context.Context, id uint) (*models.DailyEntry, error) {
	var row models.DailyEntry
	if err := s.db.WithContext(ctx).Preload("Atm").First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *EntryStore) FetchByIdentity(ctx context.Context, date time.Time, machineID uint, shift entry.Shift) (*models.DailyEntry, error) {
	var row models.DailyEntry
	err := s.db.WithContext(ctx).Preload("Atm").
		Where("date = ? AND atm_id = ? AND shift = ?", entry.DateOnly(date), machineID, string(shift)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// FetchEarliestShift resolves (date, machine) to its morning row when one
// exists, otherwise its evening row.
func (s *EntryStore) FetchEarliestShift(ctx context.Context, date time.Time, machineID uint) (*models.DailyEntry, error) {
	var row models.DailyEntry
	err := s.db.WithContext(ctx).Preload("Atm").
		Where("date = ? AND atm_id = ?", entry.DateOnly(date), machineID).
		Order("shift DESC").
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *EntryStore) Insert(ctx context.Context, row *models.DailyEntry) error {
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Replace overwrites every mutable column of row id. The identity columns
// are taken from the stored row, never from the caller.
func (s *EntryStore) Replace(ctx context.Context, id uint, row *models.DailyEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.DailyEntry
		if err := tx.First(&current, id).Error; err != nil {
			return translate(err)
		}
		row.ID = current.ID
		row.Date = current.Date
		row.AtmID = current.AtmID
		row.Shift = current.Shift
		row.CreatedAt = current.CreatedAt
		row.Atm = nil
		if err := tx.Omit(clause.Associations).Save(row).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (s *EntryStore) Remove(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.DailyEntry{}, id)
	if res.Error != nil {
		return fmt.Errorf("remove entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every row for backups, oldest first.
func (s *EntryStore) All(ctx context.Context) ([]entry.Entry, error) {
	return s.Entries(ctx, Filter{})
}
