package report

import (
	"time"

	"milkatm-backend/internal/entry"
)

type DailyRangeReport struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Rows   []entry.Entry `json:"rows"`
	Totals Totals        `json:"totals"`
}

// BuildDailyRange lists one row per entry and a totals row.
func BuildDailyRange(entries []entry.Entry, from, to time.Time) DailyRangeReport {
	rows := make([]entry.Entry, len(entries))
	copy(rows, entries)
	return DailyRangeReport{
		From:   entry.FormatDate(from),
		To:     entry.FormatDate(to),
		Rows:   rows,
		Totals: totalsOf(entries),
	}
}
