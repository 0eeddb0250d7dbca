package entry

import (
	"math"

	"milkatm-backend/internal/models"
)

// FromModel maps a stored row into the canonical entry. Stored derived
// values are kept as read; missing shift falls back to morning.
func FromModel(m models.DailyEntry) (Entry, error) {
	if m.Date.IsZero() {
		return Entry{}, &MappingError{Field: "date", Reason: "is missing"}
	}
	e := Entry{
		ID:              m.ID,
		Date:            DateOnly(m.Date),
		MachineID:       m.AtmID,
		Shift:           normalizeShift(string(m.Shift)),
		TotalMilkLoaded: nonNegative(m.TotalMilk),
		DistributedMilk: nonNegative(m.DistributedMilk),
		LeftoverMilk:    nonNegative(m.LeftoverMilk),
		TotalAmount:     nonNegative(m.TotalAmount),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Atm != nil {
		e.MachineName = m.Atm.Name
		e.MachineLocation = m.Atm.Location
	}
	e.Payments = Payments{
		Cash:            {Liters: nonNegative(m.CashLiters), Amount: nonNegative(m.Cash)},
		UPI:             {Liters: nonNegative(m.UpiLiters), Amount: nonNegative(m.Upi)},
		Card:            {Liters: nonNegative(m.CardLiters), Amount: nonNegative(m.Card)},
		UdhaarPermanent: {Liters: nonNegative(m.UdhaarPermanentLiters), Amount: nonNegative(m.UdhaarPermanent)},
		UdhaarTemporary: {Liters: nonNegative(m.UdhaarTemporaryLiters), Amount: nonNegative(m.UdhaarTemporary)},
		Others:          {Liters: nonNegative(m.OthersLiters), Amount: nonNegative(m.Others)},
	}
	return e, nil
}

// FromModels maps a batch, dropping nothing: a row without a date fails the batch.
func FromModels(rows []models.DailyEntry) ([]Entry, error) {
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e, err := FromModel(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ToModel maps the canonical entry onto the stored row. Distributed,
// leftover and total amount are always recomputed from the inputs.
func ToModel(e Entry) models.DailyEntry {
	e = e.Recalculated()
	shift := e.Shift
	if !shift.Valid() {
		shift = ShiftMorning
	}
	p := e.Payments
	return models.DailyEntry{
		ID:                    e.ID,
		Date:                  DateOnly(e.Date),
		AtmID:                 e.MachineID,
		Shift:                 models.Shift(shift),
		TotalMilk:             e.TotalMilkLoaded,
		DistributedMilk:       e.DistributedMilk,
		LeftoverMilk:          e.LeftoverMilk,
		CashLiters:            p[Cash].Liters,
		Cash:                  p[Cash].Amount,
		UpiLiters:             p[UPI].Liters,
		Upi:                   p[UPI].Amount,
		CardLiters:            p[Card].Liters,
		Card:                  p[Card].Amount,
		UdhaarPermanentLiters: p[UdhaarPermanent].Liters,
		UdhaarPermanent:       p[UdhaarPermanent].Amount,
		UdhaarTemporaryLiters: p[UdhaarTemporary].Liters,
		UdhaarTemporary:       p[UdhaarTemporary].Amount,
		OthersLiters:          p[Others].Liters,
		Others:                p[Others].Amount,
		TotalAmount:           e.TotalAmount,
	}
}

func normalizeShift(s string) Shift {
	if sh := Shift(s); sh.Valid() {
		return sh
	}
	return ShiftMorning
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
