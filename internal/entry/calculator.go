package entry

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the process-wide configuration the calculator is composed with.
type Settings struct {
	MilkRate            float64 // price per liter; 0 means amounts are typed in
	DefaultStartingMilk float64 // prefill for new entries only
}

// AutoAmounts reports whether amounts are derived from liters.
func (s Settings) AutoAmounts() bool { return s.MilkRate > 0 }

// Draft is the raw text of the entry form.
type Draft struct {
	Date      string
	MachineID uint
	Shift     string
	TotalMilk string
	Liters    [MethodCount]string
	Amounts   [MethodCount]string
}

func DeriveDistributed(liters [MethodCount]string) float64 {
	var values [MethodCount]float64
	for i, raw := range liters {
		values[i] = ParseNonNegativeDecimal(raw)
	}
	return sumDecimal(values[:]...)
}

func DeriveLeftover(totalLoaded, distributed float64) float64 {
	loaded, out := decimal.NewFromFloat(totalLoaded), decimal.NewFromFloat(distributed)
	if out.GreaterThanOrEqual(loaded) {
		return 0
	}
	return loaded.Sub(out).InexactFloat64()
}

func DeriveTotalAmount(amounts [MethodCount]string) float64 {
	var sum float64
	for _, raw := range amounts {
		sum += ParseNonNegativeDecimal(raw)
	}
	return Round2(sum)
}

func AutoCalcAmount(liters, rate float64) float64 {
	return Round2(liters * rate)
}

// Calculator validates drafts and derives entries from them. It holds no
// state besides its settings and clock.
type Calculator struct {
	settings Settings
	now      func() time.Time
}

func NewCalculator(settings Settings, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{settings: settings, now: now}
}

func (c *Calculator) Settings() Settings { return c.settings }

// Amount returns the amount recorded for method m: liters × rate when a
// rate is configured, otherwise the typed amount.
func (c *Calculator) Amount(d Draft, m Method) float64 {
	if c.settings.AutoAmounts() {
		return AutoCalcAmount(ParseNonNegativeDecimal(d.Liters[m]), c.settings.MilkRate)
	}
	return Round2(ParseNonNegativeDecimal(d.Amounts[m]))
}

// Validate returns a *ValidationError, or nil when the draft may be saved.
func (c *Calculator) Validate(d Draft) error {
	verr := &ValidationError{}

	if isBlank(d.Date) {
		verr.add("date", "Date is required")
	} else if date, ok := ParseDate(d.Date); !ok {
		verr.add("date", "Date must be in YYYY-MM-DD format")
	} else if date.After(DateOnly(c.now())) {
		verr.add("date", "Date cannot be in the future")
	}

	if d.MachineID == 0 {
		verr.add("atm_id", "Machine is required")
	}

	if s := strings.TrimSpace(d.Shift); s != "" && !Shift(strings.ToLower(s)).Valid() {
		verr.add("shift", "Shift must be morning or evening")
	}

	loadedOK := false
	switch {
	case isBlank(d.TotalMilk):
		verr.add("total_milk", "Total milk quantity is required")
	case isNegative(d.TotalMilk):
		verr.add("total_milk", "Total milk cannot be negative")
	case ParseNonNegativeDecimal(d.TotalMilk) <= 0:
		verr.add("total_milk", "Total milk must be greater than zero")
	default:
		loadedOK = true
	}

	for _, m := range Methods {
		if isNegative(d.Liters[m]) {
			verr.add(m.LitersColumn(), "Liters cannot be negative")
		}
		if !c.settings.AutoAmounts() && isNegative(d.Amounts[m]) {
			verr.add(m.Column(), "Amount cannot be negative")
		}
	}

	if loadedOK {
		loaded := ParseNonNegativeDecimal(d.TotalMilk)
		if distributed := DeriveDistributed(d.Liters); exceeds(distributed, loaded) {
			verr.add("distributed_milk", fmt.Sprintf(
				"Distributed milk (%.2f L) cannot exceed total milk loaded (%.2f L)", distributed, loaded))
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// Compose validates the draft and derives the entry it describes. An
// invalid draft never produces an entry. Shift stays empty when the draft
// has none; the reconciliation policy resolves it.
func (c *Calculator) Compose(d Draft) (Entry, error) {
	if err := c.Validate(d); err != nil {
		return Entry{}, err
	}
	date, _ := ParseDate(d.Date)
	e := Entry{
		Date:            date,
		MachineID:       d.MachineID,
		Shift:           Shift(strings.ToLower(strings.TrimSpace(d.Shift))),
		TotalMilkLoaded: ParseNonNegativeDecimal(d.TotalMilk),
	}
	for _, m := range Methods {
		e.Payments[m] = Pair{
			Liters: ParseNonNegativeDecimal(d.Liters[m]),
			Amount: c.Amount(d, m),
		}
	}
	return e.Recalculated(), nil
}

// DraftFor prefills the form. An existing entry is shown as stored; a new
// one starts from the configured default starting milk.
func DraftFor(settings Settings, existing *Entry, date time.Time, machineID uint, shift Shift) Draft {
	if existing != nil {
		d := Draft{
			Date:      FormatDate(existing.Date),
			MachineID: existing.MachineID,
			Shift:     string(existing.Shift),
			TotalMilk: formatRaw(existing.TotalMilkLoaded),
		}
		for _, m := range Methods {
			d.Liters[m] = formatRaw(existing.Payments[m].Liters)
			d.Amounts[m] = formatRaw(existing.Payments[m].Amount)
		}
		return d
	}
	d := Draft{
		Date:      FormatDate(date),
		MachineID: machineID,
		Shift:     string(shift),
	}
	if settings.DefaultStartingMilk > 0 {
		d.TotalMilk = formatRaw(settings.DefaultStartingMilk)
	}
	return d
}

func formatRaw(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

// CheckConsistency applies the invariants a stored or imported entry must
// satisfy, without the form-only rules (required total milk, future dates).
func CheckConsistency(e Entry) error {
	verr := &ValidationError{}
	if e.Date.IsZero() {
		verr.add("date", "Date is required")
	}
	if e.Shift != "" && !e.Shift.Valid() {
		verr.add("shift", "Shift must be morning or evening")
	}
	if distributed := e.Payments.Liters(); exceeds(distributed, e.TotalMilkLoaded) {
		verr.add("distributed_milk", fmt.Sprintf(
			"Distributed milk (%.2f L) cannot exceed total milk loaded (%.2f L)", distributed, e.TotalMilkLoaded))
	}
	if verr.empty() {
		return nil
	}
	return verr
}
