package reconcile

import (
	"context"
	"time"

	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/models"
)

// EntryStore is the persistence the policy decides against. Lookups return
// store.ErrNotFound when nothing matches; Insert returns store.ErrConflict
// when the identity key is taken.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=interface.go EntryStore
type EntryStore interface {
	FetchByIdentity(ctx context.Context, date time.Time, machineID uint, shift entry.Shift) (*models.DailyEntry, error)
	FetchEarliestShift(ctx context.Context, date time.Time, machineID uint) (*models.DailyEntry, error)
	Insert(ctx context.Context, row *models.DailyEntry) error
	Replace(ctx context.Context, id uint, row *models.DailyEntry) error
	Remove(ctx context.Context, id uint) error
}
