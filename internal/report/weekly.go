package report

import (
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
)

type WeekRef struct {
	Year  int    `json:"year"`
	Week  int    `json:"week"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func weekRef(start time.Time) WeekRef {
	key := aggregate.WeekOf(start)
	return WeekRef{
		Year:  key.Year,
		Week:  key.Week,
		Start: entry.FormatDate(start),
		End:   entry.FormatDate(start.AddDate(0, 0, 6)),
	}
}

// WeekRange returns the Monday and Sunday of the ISO week containing day.
func WeekRange(day time.Time) (time.Time, time.Time) {
	start := aggregate.WeekStart(day)
	return start, start.AddDate(0, 0, 6)
}

type WeeklyReport struct {
	WeekRef
	Cards    Cards                  `json:"cards"`
	Methods  aggregate.MethodTotals `json:"methods"`
	Days     []DayRow               `json:"days"`
	Previous *WeekRef               `json:"previous"`
	Next     *WeekRef               `json:"next"` // nil when the next week starts after today
}

// BuildWeekly reports the ISO week containing day. Entries must belong to
// that week.
func BuildWeekly(entries []entry.Entry, day, today time.Time) WeeklyReport {
	start, _ := WeekRange(day)
	days := aggregate.GroupByDay(entries)

	prev := weekRef(start.AddDate(0, 0, -7))
	r := WeeklyReport{
		WeekRef:  weekRef(start),
		Cards:    cardsOf(entries, days),
		Methods:  aggregate.TotalsByMethod(entries),
		Days:     dayRows(days),
		Previous: &prev,
	}
	if nextStart := start.AddDate(0, 0, 7); !nextStart.After(entry.DateOnly(today)) {
		next := weekRef(nextStart)
		r.Next = &next
	}
	return r
}
