// Package reconcile decides whether a write creates or updates an entry
// and applies backups record by record.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/models"
	"milkatm-backend/internal/store"
)

// Identity is the (date, machine, shift) key. An empty shift asks for the
// earliest shift recorded for the date and machine.
type Identity struct {
	Date      time.Time
	MachineID uint
	Shift     entry.Shift
}

func IdentityOf(e entry.Entry) Identity {
	return Identity{Date: e.Date, MachineID: e.MachineID, Shift: e.Shift}
}

type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

type Decision struct {
	Mode     Mode
	Existing *entry.Entry
}

type Policy struct {
	store EntryStore
}

func NewPolicy(s EntryStore) *Policy {
	return &Policy{store: s}
}

// Resolve looks the identity up and reports the write path it implies.
func (p *Policy) Resolve(ctx context.Context, id Identity) (Decision, error) {
	date := entry.DateOnly(id.Date)
	row, err := p.lookup(ctx, date, id.MachineID, id.Shift)
	if errors.Is(err, store.ErrNotFound) {
		return Decision{Mode: ModeCreate}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("resolve entry identity: %w", err)
	}
	existing, err := entry.FromModel(*row)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Mode: ModeUpdate, Existing: &existing}, nil
}

func (p *Policy) lookup(ctx context.Context, date time.Time, machineID uint, shift entry.Shift) (*models.DailyEntry, error) {
	if shift == "" {
		return p.store.FetchEarliestShift(ctx, date, machineID)
	}
	return p.store.FetchByIdentity(ctx, date, machineID, shift)
}

// Save creates the entry or replaces the mutable fields of the one already
// holding its identity. A create that loses a race to the same identity is
// retried as an update.
func (p *Policy) Save(ctx context.Context, e entry.Entry) (entry.Entry, Mode, error) {
	decision, err := p.Resolve(ctx, IdentityOf(e))
	if err != nil {
		return entry.Entry{}, "", err
	}

	if decision.Mode == ModeUpdate {
		saved, err := p.replace(ctx, *decision.Existing, e)
		return saved, ModeUpdate, err
	}

	if e.Shift == "" {
		e.Shift = entry.ShiftMorning
	}
	row := entry.ToModel(e)
	err = p.store.Insert(ctx, &row)
	if errors.Is(err, store.ErrConflict) {
		decision, err = p.Resolve(ctx, IdentityOf(e))
		if err != nil {
			return entry.Entry{}, "", err
		}
		if decision.Mode != ModeUpdate {
			return entry.Entry{}, "", fmt.Errorf("save entry: conflict without a stored entry for %s", entry.FormatDate(e.Date))
		}
		saved, err := p.replace(ctx, *decision.Existing, e)
		return saved, ModeUpdate, err
	}
	if err != nil {
		return entry.Entry{}, "", fmt.Errorf("insert entry: %w", err)
	}
	saved, err := entry.FromModel(row)
	return saved, ModeCreate, err
}

func (p *Policy) replace(ctx context.Context, existing, e entry.Entry) (entry.Entry, error) {
	e.ID = existing.ID
	e.Date = existing.Date
	e.MachineID = existing.MachineID
	e.Shift = existing.Shift
	row := entry.ToModel(e)
	if err := p.store.Replace(ctx, existing.ID, &row); err != nil {
		return entry.Entry{}, fmt.Errorf("replace entry %d: %w", existing.ID, err)
	}
	saved, err := entry.FromModel(row)
	if err != nil {
		return entry.Entry{}, err
	}
	saved.MachineName = existing.MachineName
	saved.MachineLocation = existing.MachineLocation
	return saved, nil
}

// Prefill is what the entry form opens with for an identity.
type Prefill struct {
	Mode     Mode         `json:"mode"`
	Existing *entry.Entry `json:"existing,omitempty"`
	Draft    entry.Draft  `json:"-"`
}

// Prefill returns the stored entry for the identity, or a new draft seeded
// with the default starting milk. The default never touches a stored entry.
func (p *Policy) Prefill(ctx context.Context, id Identity, settings entry.Settings) (Prefill, error) {
	decision, err := p.Resolve(ctx, id)
	if err != nil {
		return Prefill{}, err
	}
	shift := id.Shift
	if shift == "" {
		shift = entry.ShiftMorning
	}
	return Prefill{
		Mode:     decision.Mode,
		Existing: decision.Existing,
		Draft:    entry.DraftFor(settings, decision.Existing, entry.DateOnly(id.Date), id.MachineID, shift),
	}, nil
}

func (p *Policy) Delete(ctx context.Context, id uint) error {
	if err := p.store.Remove(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return nil
}
