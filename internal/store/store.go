// Package store persists machines, entries and settings through gorm.
package store

import (
	"errors"
	"strings"
	"time"

	"milkatm-backend/internal/entry"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the write collided with an existing identity key.
	ErrConflict = errors.New("identity key already exists")
)

// Filter narrows an entry query. Zero From/To leave the range open; a nil
// MachineID means all machines (0 is the legacy machine, not "all").
type Filter struct {
	From        time.Time
	To          time.Time
	MachineID   *uint
	Shift       entry.Shift
	NewestFirst bool
}

func ForMachine(id uint) *uint { return &id }

// translate maps driver errors onto the package sentinels. Postgres reports
// duplicates through gorm's TranslateError; sqlite only by message.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		return ErrConflict
	}
	return err
}
