package store

import (
	"context"
	"fmt"

	"milkatm-backend/internal/models"

	"gorm.io/gorm"
)

type AtmStore struct {
	db *gorm.DB
}

func NewAtmStore(db *gorm.DB) *AtmStore {
	return &AtmStore{db: db}
}

// ListActive returns active machines by name.
func (s *AtmStore) ListActive(ctx context.Context) ([]models.MilkAtm, error) {
	var atms []models.MilkAtm
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&atms).Error; err != nil {
		return nil, fmt.Errorf("list atms: %w", err)
	}
	return atms, nil
}

func (s *AtmStore) Get(ctx context.Context, id uint) (*models.MilkAtm, error) {
	var atm models.MilkAtm
	if err := s.db.WithContext(ctx).First(&atm, id).Error; err != nil {
		return nil, translate(err)
	}
	return &atm, nil
}

func (s *AtmStore) Create(ctx context.Context, atm *models.MilkAtm) error {
	atm.IsActive = true
	if err := s.db.WithContext(ctx).Create(atm).Error; err != nil {
		return fmt.Errorf("create atm: %w", err)
	}
	return nil
}

func (s *AtmStore) Update(ctx context.Context, atm *models.MilkAtm) error {
	res := s.db.WithContext(ctx).Model(&models.MilkAtm{}).Where("id = ?", atm.ID).
		Updates(map[string]any{"name": atm.Name, "location": atm.Location})
	if res.Error != nil {
		return fmt.Errorf("update atm: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate hides a machine from the active list; its entries stay.
func (s *AtmStore) Deactivate(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.MilkAtm{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate atm: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
