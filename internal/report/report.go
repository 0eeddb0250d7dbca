// Package report shapes aggregated entries into the views the reports
// screens render. Builders never filter: callers pass exactly the entries
// of the period.
package report

import (
	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
)

// Totals sums every numeric column of a set of entries.
type Totals struct {
	EntryCount      int                    `json:"entryCount"`
	TotalMilkLoaded float64                `json:"totalMilkLoaded"`
	DistributedMilk float64                `json:"distributedMilk"`
	LeftoverMilk    float64                `json:"leftoverMilk"`
	TotalAmount     float64                `json:"totalAmount"`
	Methods         aggregate.MethodTotals `json:"methods"`
}

func totalsOf(entries []entry.Entry) Totals {
	return Totals{
		EntryCount:      len(entries),
		TotalMilkLoaded: aggregate.SumField(entries, aggregate.TotalMilk),
		DistributedMilk: aggregate.SumField(entries, aggregate.Distributed),
		LeftoverMilk:    aggregate.SumField(entries, aggregate.Leftover),
		TotalAmount:     entry.Round2(aggregate.SumField(entries, aggregate.TotalAmount)),
		Methods:         aggregate.TotalsByMethod(entries),
	}
}

// Cards are the headline figures of the weekly and monthly reports.
// Averages are per recorded entry.
type Cards struct {
	TotalDistributed   float64 `json:"totalDistributed"`
	AverageDistributed float64 `json:"averageDistributed"`
	TotalLeftover      float64 `json:"totalLeftover"`
	AverageLeftover    float64 `json:"averageLeftover"`
	TotalRevenue       float64 `json:"totalRevenue"`
	EntryCount         int     `json:"entryCount"`
	DaysRecorded       int     `json:"daysRecorded"`
}

func cardsOf(entries []entry.Entry, days []aggregate.DayBucket) Cards {
	return Cards{
		TotalDistributed:   aggregate.SumField(entries, aggregate.Distributed),
		AverageDistributed: aggregate.AveragePerEntry(entries, aggregate.Distributed),
		TotalLeftover:      aggregate.SumField(entries, aggregate.Leftover),
		AverageLeftover:    aggregate.AveragePerEntry(entries, aggregate.Leftover),
		TotalRevenue:       entry.Round2(aggregate.SumField(entries, aggregate.TotalAmount)),
		EntryCount:         len(entries),
		DaysRecorded:       len(days),
	}
}

type DayRow struct {
	Date        string  `json:"date"`
	Weekday     string  `json:"weekday"`
	EntryCount  int     `json:"entryCount"`
	TotalMilk   float64 `json:"totalMilk"`
	Distributed float64 `json:"distributed"`
	Leftover    float64 `json:"leftover"`
	Revenue     float64 `json:"revenue"`
}

func dayRows(days []aggregate.DayBucket) []DayRow {
	rows := make([]DayRow, 0, len(days))
	for _, d := range days {
		rows = append(rows, DayRow{
			Date:        entry.FormatDate(d.Date),
			Weekday:     d.Date.Weekday().String(),
			EntryCount:  d.Count,
			TotalMilk:   d.TotalMilk,
			Distributed: d.Distributed,
			Leftover:    d.Leftover,
			Revenue:     d.Revenue,
		})
	}
	return rows
}
