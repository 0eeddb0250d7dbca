package entry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a loosely-typed backup record resolved into one of two shapes:
// LegacySingleShift (one machine, one entry per day, no per-method liters)
// or MultiMachineShift. A legacy record's sold quantity is booked under
// Others liters.
type Record interface {
	record()
}

type LegacySingleShift struct {
	Date            time.Time
	StartingMilk    float64
	LeftoverMilk    float64
	DistributedMilk float64
	Amounts         [MethodCount]float64
	TotalAmount     float64
}

type MultiMachineShift struct {
	Date            time.Time
	MachineID       uint
	Shift           Shift
	TotalMilk       float64
	DistributedMilk float64
	LeftoverMilk    float64
	Liters          [MethodCount]float64
	Amounts         [MethodCount]float64
	TotalAmount     float64
}

func (LegacySingleShift) record() {}

// Distributed is the quantity sold by a legacy record: its stored
// distributedMilk, or startingMilk - leftoverMilk when none was stored.
// It never exceeds startingMilk.
func (r LegacySingleShift) Distributed() float64 {
	starting := decimal.NewFromFloat(r.StartingMilk)
	out := decimal.NewFromFloat(r.DistributedMilk)
	if !out.IsPositive() {
		out = starting.Sub(decimal.NewFromFloat(r.LeftoverMilk))
	}
	if out.IsNegative() {
		return 0
	}
	if out.GreaterThan(starting) {
		return r.StartingMilk
	}
	return out.InexactFloat64()
}
func (MultiMachineShift) record() {}

// Keys recognised per field, camelCase first then persisted snake_case.
var (
	keysDate        = []string{"date"}
	keysMachine     = []string{"machineId", "atmId", "atm_id", "machine_id"}
	keysShift       = []string{"shift"}
	keysTotalMilk   = []string{"totalMilkLoaded", "totalMilk", "total_milk", "total_milk_loaded"}
	keysStarting    = []string{"startingMilk", "starting_milk"}
	keysLeftover    = []string{"leftoverMilk", "leftover_milk"}
	keysDistributed = []string{"distributedMilk", "distributed_milk"}
	keysTotalAmount = []string{"totalAmount", "total_amount"}
)

func litersKeys(m Method) []string { return []string{m.Key() + "Liters", m.LitersColumn()} }
func amountKeys(m Method) []string { return []string{m.Key(), m.Column(), m.Key() + "Amount"} }

// Classify resolves a raw record into its shape. Any machine, shift,
// per-method liters or current total-milk field marks the current shape.
func Classify(raw map[string]any) (Record, error) {
	date, err := recordDate(raw)
	if err != nil {
		return nil, err
	}

	current := hasAny(raw, keysMachine) || hasAny(raw, keysShift) || hasAny(raw, keysTotalMilk)
	for _, m := range Methods {
		if hasAny(raw, litersKeys(m)) {
			current = true
		}
	}

	if !current {
		rec := LegacySingleShift{
			Date:            date,
			StartingMilk:    number(raw, keysStarting),
			LeftoverMilk:    number(raw, keysLeftover),
			DistributedMilk: number(raw, keysDistributed),
			TotalAmount:     number(raw, keysTotalAmount),
		}
		for _, m := range Methods {
			rec.Amounts[m] = number(raw, amountKeys(m))
		}
		return rec, nil
	}

	machineID, err := recordMachine(raw)
	if err != nil {
		return nil, err
	}
	shift, err := recordShift(raw)
	if err != nil {
		return nil, err
	}
	rec := MultiMachineShift{
		Date:            date,
		MachineID:       machineID,
		Shift:           shift,
		TotalMilk:       number(raw, keysTotalMilk),
		DistributedMilk: number(raw, keysDistributed),
		LeftoverMilk:    number(raw, keysLeftover),
		TotalAmount:     number(raw, keysTotalAmount),
	}
	if !hasAny(raw, keysTotalMilk) {
		rec.TotalMilk = number(raw, keysStarting)
	}
	for _, m := range Methods {
		rec.Liters[m] = number(raw, litersKeys(m))
		rec.Amounts[m] = number(raw, amountKeys(m))
	}
	return rec, nil
}

// Canonical turns a resolved record into an entry. Stored derived values
// are carried as read; ToModel recomputes them on the way out.
func Canonical(r Record) Entry {
	switch rec := r.(type) {
	case LegacySingleShift:
		e := Entry{
			Date:            rec.Date,
			Shift:           ShiftMorning,
			TotalMilkLoaded: rec.StartingMilk,
			DistributedMilk: rec.DistributedMilk,
			LeftoverMilk:    rec.LeftoverMilk,
			TotalAmount:     rec.TotalAmount,
		}
		for _, m := range Methods {
			e.Payments[m] = Pair{Amount: Round2(rec.Amounts[m])}
		}
		e.Payments[Others].Liters = rec.Distributed()
		return e
	case MultiMachineShift:
		e := Entry{
			Date:            rec.Date,
			MachineID:       rec.MachineID,
			Shift:           rec.Shift,
			TotalMilkLoaded: rec.TotalMilk,
			DistributedMilk: rec.DistributedMilk,
			LeftoverMilk:    rec.LeftoverMilk,
			TotalAmount:     rec.TotalAmount,
		}
		for _, m := range Methods {
			e.Payments[m] = Pair{Liters: rec.Liters[m], Amount: Round2(rec.Amounts[m])}
		}
		return e
	default:
		return Entry{}
	}
}

// FromRecord classifies and maps a raw record in one step.
func FromRecord(raw map[string]any) (Entry, error) {
	rec, err := Classify(raw)
	if err != nil {
		return Entry{}, err
	}
	return Canonical(rec), nil
}

func hasAny(raw map[string]any, keys []string) bool {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return true
		}
	}
	return false
}

func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func number(raw map[string]any, keys []string) float64 {
	v, ok := lookup(raw, keys)
	if !ok {
		return 0
	}
	return coerce(v)
}

// coerce turns any JSON scalar into a non-negative float; anything else is 0.
func coerce(v any) float64 {
	switch n := v.(type) {
	case float64:
		return nonNegative(n)
	case float32:
		return nonNegative(float64(n))
	case int:
		return nonNegative(float64(n))
	case int64:
		return nonNegative(float64(n))
	case uint:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return ParseNonNegativeDecimal(n.String())
		}
		return nonNegative(f)
	case string:
		return ParseNonNegativeDecimal(n)
	default:
		return 0
	}
}

func recordDate(raw map[string]any) (time.Time, error) {
	v, ok := lookup(raw, keysDate)
	if !ok {
		return time.Time{}, &MappingError{Field: "date", Reason: "is missing"}
	}
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, &MappingError{Field: "date", Reason: "is missing"}
		}
		return DateOnly(d), nil
	case string:
		if parsed, ok := ParseDate(d); ok {
			return parsed, nil
		}
		if isBlank(d) {
			return time.Time{}, &MappingError{Field: "date", Reason: "is missing"}
		}
		return time.Time{}, &MappingError{Field: "date", Reason: fmt.Sprintf("%q is not a date", d)}
	default:
		return time.Time{}, &MappingError{Field: "date", Reason: fmt.Sprintf("has unsupported type %T", v)}
	}
}

func recordMachine(raw map[string]any) (uint, error) {
	v, ok := lookup(raw, keysMachine)
	if !ok {
		return 0, nil
	}
	switch id := v.(type) {
	case float64:
		if id < 0 || id != float64(uint(id)) {
			return 0, &MappingError{Field: "atm_id", Reason: fmt.Sprintf("%v is not a machine id", id)}
		}
		return uint(id), nil
	case int:
		if id < 0 {
			return 0, &MappingError{Field: "atm_id", Reason: fmt.Sprintf("%d is not a machine id", id)}
		}
		return uint(id), nil
	case uint:
		return id, nil
	case json.Number:
		n, err := strconv.ParseUint(id.String(), 10, 64)
		if err != nil {
			return 0, &MappingError{Field: "atm_id", Reason: fmt.Sprintf("%s is not a machine id", id)}
		}
		return uint(n), nil
	case string:
		s := strings.TrimSpace(id)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, &MappingError{Field: "atm_id", Reason: fmt.Sprintf("%q is not a machine id", id)}
		}
		return uint(n), nil
	default:
		return 0, &MappingError{Field: "atm_id", Reason: fmt.Sprintf("has unsupported type %T", v)}
	}
}

func recordShift(raw map[string]any) (Shift, error) {
	v, ok := lookup(raw, keysShift)
	if !ok {
		return ShiftMorning, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", &MappingError{Field: "shift", Reason: fmt.Sprintf("has unsupported type %T", v)}
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ShiftMorning, nil
	}
	if !Shift(s).Valid() {
		return "", &MappingError{Field: "shift", Reason: fmt.Sprintf("%q is not morning or evening", s)}
	}
	return Shift(s), nil
}
