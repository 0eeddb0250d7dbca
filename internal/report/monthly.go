package report

import (
	"strconv"
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/format"
)

type WeekRow struct {
	aggregate.WeekKey
	Start           string  `json:"start"`
	End             string  `json:"end"`
	EntryCount      int     `json:"entryCount"`
	Distributed     float64 `json:"distributed"`
	Revenue         float64 `json:"revenue"`
	Leftover        float64 `json:"leftover"`
	AverageLeftover float64 `json:"averageLeftover"`
}

type MachineRow struct {
	MachineID       uint    `json:"machineId"`
	Name            string  `json:"name"`
	EntryCount      int     `json:"entryCount"`
	Distributed     float64 `json:"distributed"`
	Revenue         float64 `json:"revenue"`
	Leftover        float64 `json:"leftover"`
	AverageLeftover float64 `json:"averageLeftover"`
	RevenueShare    float64 `json:"revenueShare"`
}

type MonthlyReport struct {
	Year      int                    `json:"year"`
	Month     int                    `json:"month"`
	MonthName string                 `json:"monthName"`
	Start     string                 `json:"start"`
	End       string                 `json:"end"`
	Cards     Cards                  `json:"cards"`
	Methods   aggregate.MethodTotals `json:"methods"`
	Weeks     []WeekRow              `json:"weeks"`
	Machines  []MachineRow           `json:"machines"`
	// ImpliedRate is revenue per distributed liter; it values the average
	// leftover in rupees.
	ImpliedRate          float64 `json:"impliedRate"`
	AverageLeftoverValue float64 `json:"averageLeftoverValue"`
}

// MonthRange returns the first and last day of the month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// BuildMonthly reports one month. The machine breakdown is only filled for
// the all-machines view when more than one machine has entries.
func BuildMonthly(entries []entry.Entry, year int, month time.Month, allMachines bool) MonthlyReport {
	start, end := MonthRange(year, month)
	days := aggregate.GroupByDay(entries)
	cards := cardsOf(entries, days)

	r := MonthlyReport{
		Year:      year,
		Month:     int(month),
		MonthName: format.MonthName(month),
		Start:     entry.FormatDate(start),
		End:       entry.FormatDate(end),
		Cards:     cards,
		Methods:   aggregate.TotalsByMethod(entries),
		Weeks:     []WeekRow{},
		Machines:  []MachineRow{},
	}

	for _, w := range aggregate.GroupByISOWeek(entries) {
		r.Weeks = append(r.Weeks, WeekRow{
			WeekKey:         w.WeekKey,
			Start:           entry.FormatDate(w.Start),
			End:             entry.FormatDate(w.End),
			EntryCount:      w.Count,
			Distributed:     w.Distributed,
			Revenue:         w.Revenue,
			Leftover:        w.Leftover,
			AverageLeftover: w.AverageLeftover(),
		})
	}

	if machines := aggregate.GroupByMachine(entries); allMachines && len(machines) > 1 {
		for _, m := range machines {
			r.Machines = append(r.Machines, MachineRow{
				MachineID:       m.MachineID,
				Name:            machineLabel(m.MachineID, m.Name),
				EntryCount:      m.Count,
				Distributed:     m.Distributed,
				Revenue:         m.Revenue,
				Leftover:        m.Leftover,
				AverageLeftover: m.AverageLeftover(),
				RevenueShare:    aggregate.PercentageOf(m.Revenue, cards.TotalRevenue),
			})
		}
	}

	if cards.TotalDistributed > 0 {
		r.ImpliedRate = entry.Round2(cards.TotalRevenue / cards.TotalDistributed)
		r.AverageLeftoverValue = entry.Round2(cards.AverageLeftover * r.ImpliedRate)
	}
	return r
}

func machineLabel(id uint, name string) string {
	if name != "" {
		return name
	}
	if id == 0 {
		return "Unassigned"
	}
	return "Machine " + strconv.FormatUint(uint64(id), 10)
}
