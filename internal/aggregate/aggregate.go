// Package aggregate holds the reducers reports are built from. Every
// function is total: empty input and zero denominators yield zeros.
package aggregate

import (
	"sort"
	"time"

	"milkatm-backend/internal/entry"

	"github.com/shopspring/decimal"
)

// Field selects a numeric column of an entry.
type Field int

const (
	TotalMilk Field = iota
	Distributed
	Leftover
	TotalAmount
)

func (f Field) Of(e entry.Entry) float64 {
	switch f {
	case TotalMilk:
		return e.TotalMilkLoaded
	case Distributed:
		return e.DistributedMilk
	case Leftover:
		return e.LeftoverMilk
	case TotalAmount:
		return e.TotalAmount
	default:
		return 0
	}
}

func SumField(entries []entry.Entry, f Field) float64 {
	var sum float64
	for _, e := range entries {
		sum += f.Of(e)
	}
	return sum
}

func AveragePerEntry(entries []entry.Entry, f Field) float64 {
	if len(entries) == 0 {
		return 0
	}
	return SumField(entries, f) / float64(len(entries))
}

// PercentageOf returns part/whole as a percentage with one decimal, or 0
// when whole is 0.
func PercentageOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		InexactFloat64()
}

// TrailingWindowAverage averages the first window entries of a newest-first
// slice. Fewer entries than window are averaged as they are.
func TrailingWindowAverage(newestFirst []entry.Entry, window int, f Field) float64 {
	if window <= 0 || len(newestFirst) == 0 {
		return 0
	}
	if len(newestFirst) > window {
		newestFirst = newestFirst[:window]
	}
	return AveragePerEntry(newestFirst, f)
}

type MethodTotal struct {
	Method     entry.Method `json:"method"`
	Label      string       `json:"label"`
	Liters     float64      `json:"liters"`
	Amount     float64      `json:"amount"`
	Percentage float64      `json:"percentage"` // share of GrandTotalAmount
}

type MethodTotals struct {
	Methods          [entry.MethodCount]MethodTotal `json:"methods"`
	GrandTotalLiters float64                        `json:"grandTotalLiters"`
	GrandTotalAmount float64                        `json:"grandTotalAmount"`
}

func TotalsByMethod(entries []entry.Entry) MethodTotals {
	var pay entry.Payments
	for _, e := range entries {
		for _, m := range entry.Methods {
			pay[m].Liters += e.Payments[m].Liters
			pay[m].Amount += e.Payments[m].Amount
		}
	}
	return methodTotals(pay)
}

func methodTotals(pay entry.Payments) MethodTotals {
	var out MethodTotals
	for _, m := range entry.Methods {
		pay[m].Amount = entry.Round2(pay[m].Amount)
	}
	out.GrandTotalLiters = pay.Liters()
	out.GrandTotalAmount = pay.Amounts()
	for _, m := range entry.Methods {
		out.Methods[m] = MethodTotal{
			Method:     m,
			Label:      m.Label(),
			Liters:     pay[m].Liters,
			Amount:     pay[m].Amount,
			Percentage: PercentageOf(pay[m].Amount, out.GrandTotalAmount),
		}
	}
	return out
}

// Bucket is the rollup every grouping produces.
type Bucket struct {
	TotalMilk   float64 `json:"totalMilk"`
	Distributed float64 `json:"distributed"`
	Revenue     float64 `json:"revenue"`
	Leftover    float64 `json:"leftover"`
	Count       int     `json:"count"`
}

func (b *Bucket) add(e entry.Entry) {
	b.TotalMilk += e.TotalMilkLoaded
	b.Distributed += e.DistributedMilk
	b.Revenue = entry.Round2(b.Revenue + e.TotalAmount)
	b.Leftover += e.LeftoverMilk
	b.Count++
}

// AverageLeftover is the leftover per entry in the bucket.
func (b Bucket) AverageLeftover() float64 {
	if b.Count == 0 {
		return 0
	}
	return b.Leftover / float64(b.Count)
}

// WeekKey identifies a Monday-start ISO week. Year is the ISO year, which
// differs from the calendar year around New Year.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

func WeekOf(t time.Time) WeekKey {
	y, w := t.ISOWeek()
	return WeekKey{Year: y, Week: w}
}

func (k WeekKey) Less(o WeekKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Week < o.Week
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := entry.DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

type WeekBucket struct {
	WeekKey
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Bucket
}

// GroupByISOWeek partitions entries into ISO weeks, oldest week first.
func GroupByISOWeek(entries []entry.Entry) []WeekBucket {
	index := make(map[WeekKey]int)
	var out []WeekBucket
	for _, e := range entries {
		key := WeekOf(e.Date)
		i, ok := index[key]
		if !ok {
			start := WeekStart(e.Date)
			out = append(out, WeekBucket{WeekKey: key, Start: start, End: start.AddDate(0, 0, 6)})
			i = len(out) - 1
			index[key] = i
		}
		out[i].add(e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].WeekKey.Less(out[b].WeekKey) })
	return out
}

type MachineBucket struct {
	MachineID uint   `json:"machineId"`
	Name      string `json:"name"`
	Bucket
}

// GroupByMachine rolls entries up per machine, ordered by machine id.
func GroupByMachine(entries []entry.Entry) []MachineBucket {
	index := make(map[uint]int)
	var out []MachineBucket
	for _, e := range entries {
		i, ok := index[e.MachineID]
		if !ok {
			out = append(out, MachineBucket{MachineID: e.MachineID, Name: e.MachineName})
			i = len(out) - 1
			index[e.MachineID] = i
		}
		if out[i].Name == "" {
			out[i].Name = e.MachineName
		}
		out[i].add(e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].MachineID < out[b].MachineID })
	return out
}

type DayBucket struct {
	Date     time.Time      `json:"date"`
	Payments entry.Payments `json:"-"`
	Bucket
}

// Methods returns the day's per-method totals.
func (d DayBucket) Methods() MethodTotals { return methodTotals(d.Payments) }

// GroupByDay folds all shifts and machines of a calendar day together,
// oldest day first.
func GroupByDay(entries []entry.Entry) []DayBucket {
	index := make(map[time.Time]int)
	var out []DayBucket
	for _, e := range entries {
		day := entry.DateOnly(e.Date)
		i, ok := index[day]
		if !ok {
			out = append(out, DayBucket{Date: day})
			i = len(out) - 1
			index[day] = i
		}
		out[i].add(e)
		for _, m := range entry.Methods {
			out[i].Payments[m].Liters += e.Payments[m].Liters
			out[i].Payments[m].Amount += e.Payments[m].Amount
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out
}

// Machine is the identity a snapshot reports pending machines by.
type Machine struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

type Snapshot struct {
	Date         time.Time `json:"date"`
	TotalMilk    float64   `json:"totalMilk"`
	Distributed  float64   `json:"distributed"`
	Leftover     float64   `json:"leftover"`
	TotalAmount  float64   `json:"totalAmount"`
	EntryCount   int       `json:"entryCount"`
	MachineCount int       `json:"machineCount"` // active machines with at least one entry
	Pending      []Machine `json:"pending"`
}

// CombinedDaySnapshot totals one day's entries across machines. Active
// machines with no entry that day are listed as pending rather than
// counted as zeros. Totals include every entry, legacy and deactivated
// machines too, but MachineCount + len(Pending) is always len(active).
func CombinedDaySnapshot(date time.Time, entries []entry.Entry, active []Machine) Snapshot {
	snap := Snapshot{Date: entry.DateOnly(date), Pending: []Machine{}}
	seen := make(map[uint]bool)
	for _, e := range entries {
		snap.TotalMilk += e.TotalMilkLoaded
		snap.Distributed += e.DistributedMilk
		snap.Leftover += e.LeftoverMilk
		snap.TotalAmount = entry.Round2(snap.TotalAmount + e.TotalAmount)
		snap.EntryCount++
		seen[e.MachineID] = true
	}
	for _, m := range active {
		if seen[m.ID] {
			snap.MachineCount++
		} else {
			snap.Pending = append(snap.Pending, m)
		}
	}
	return snap
}
