package report

import (
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/format"
)

type Dashboard struct {
	Date           string                 `json:"date"`
	Today          aggregate.Snapshot     `json:"today"`
	TodayMethods   aggregate.MethodTotals `json:"todayMethods"`
	TodayEntries   []entry.Entry          `json:"todayEntries"`
	Month          string                 `json:"month"`
	MonthCards     Cards                  `json:"monthCards"`
	MonthMethods   aggregate.MethodTotals `json:"monthMethods"`
	ActiveMachines int                    `json:"activeMachines"`
}

// BuildDashboard combines today across the active machines with the
// month to date.
func BuildDashboard(today time.Time, todayEntries, monthEntries []entry.Entry, active []aggregate.Machine) Dashboard {
	if todayEntries == nil {
		todayEntries = []entry.Entry{}
	}
	return Dashboard{
		Date:           entry.FormatDate(today),
		Today:          aggregate.CombinedDaySnapshot(today, todayEntries, active),
		TodayMethods:   aggregate.TotalsByMethod(todayEntries),
		TodayEntries:   todayEntries,
		Month:          format.MonthYear(today),
		MonthCards:     cardsOf(monthEntries, aggregate.GroupByDay(monthEntries)),
		MonthMethods:   aggregate.TotalsByMethod(monthEntries),
		ActiveMachines: len(active),
	}
}
