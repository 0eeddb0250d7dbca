package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/format"
)

const (
	// LeftoverThreshold is the average leftover, in liters, above which a
	// smaller load is recommended.
	LeftoverThreshold = 30.0

	highLeftoverPct   = 15.0
	mediumLeftoverPct = 10.0
)

type Severity string

const (
	SeverityNormal Severity = "normal"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityOf bands a leftover percentage of the loaded quantity.
func SeverityOf(pct float64) Severity {
	switch {
	case pct > highLeftoverPct:
		return SeverityHigh
	case pct > mediumLeftoverPct:
		return SeverityMedium
	default:
		return SeverityNormal
	}
}

type LeftoverRow struct {
	ID          uint        `json:"id,omitempty"`
	Date        string      `json:"date"`
	MachineID   uint        `json:"machineId"`
	MachineName string      `json:"machineName,omitempty"`
	Shift       entry.Shift `json:"shift"`
	Loaded      float64     `json:"loaded"`
	Distributed float64     `json:"distributed"`
	Leftover    float64     `json:"leftover"`
	Percentage  float64     `json:"percentage"`
	Severity    Severity    `json:"severity"`
}

func leftoverRow(e entry.Entry) LeftoverRow {
	pct := aggregate.PercentageOf(e.LeftoverMilk, e.TotalMilkLoaded)
	return LeftoverRow{
		ID:          e.ID,
		Date:        entry.FormatDate(e.Date),
		MachineID:   e.MachineID,
		MachineName: e.MachineName,
		Shift:       e.Shift,
		Loaded:      e.TotalMilkLoaded,
		Distributed: e.DistributedMilk,
		Leftover:    e.LeftoverMilk,
		Percentage:  pct,
		Severity:    SeverityOf(pct),
	}
}

type InsightLevel string

const (
	InsightNone       InsightLevel = "none"
	InsightAcceptable InsightLevel = "acceptable"
	InsightHigh       InsightLevel = "high"
)

type Insight struct {
	Level InsightLevel `json:"level"`
	// RecommendedLoad is only set for InsightHigh.
	RecommendedLoad float64 `json:"recommendedLoad,omitempty"`
	Message         string  `json:"message"`
}

type LeftoverReport struct {
	From            string        `json:"from"`
	To              string        `json:"to"`
	EntryCount      int           `json:"entryCount"`
	TotalLeftover   float64       `json:"totalLeftover"`
	AverageLeftover float64       `json:"averageLeftover"`
	AverageLoaded   float64       `json:"averageLoaded"`
	Trailing7       float64       `json:"trailing7"`
	Trailing15      float64       `json:"trailing15"`
	Highest         *LeftoverRow  `json:"highest"`
	Lowest          *LeftoverRow  `json:"lowest"`
	Insight         Insight       `json:"insight"`
	Rows            []LeftoverRow `json:"rows"`
}

// BuildLeftover analyses leftover milk over a range. Highest and lowest
// keep the first entry in input order on ties; trailing averages use the
// most recent 7 and 15 entries.
func BuildLeftover(entries []entry.Entry, from, to time.Time) LeftoverReport {
	r := LeftoverReport{
		From:            entry.FormatDate(from),
		To:              entry.FormatDate(to),
		EntryCount:      len(entries),
		TotalLeftover:   aggregate.SumField(entries, aggregate.Leftover),
		AverageLeftover: aggregate.AveragePerEntry(entries, aggregate.Leftover),
		AverageLoaded:   aggregate.AveragePerEntry(entries, aggregate.TotalMilk),
		Rows:            make([]LeftoverRow, 0, len(entries)),
	}

	var highest, lowest int = -1, -1
	for i, e := range entries {
		r.Rows = append(r.Rows, leftoverRow(e))
		if highest < 0 || e.LeftoverMilk > entries[highest].LeftoverMilk {
			highest = i
		}
		if lowest < 0 || e.LeftoverMilk < entries[lowest].LeftoverMilk {
			lowest = i
		}
	}
	if highest >= 0 {
		h, l := r.Rows[highest], r.Rows[lowest]
		r.Highest, r.Lowest = &h, &l
	}

	newest := newestFirst(entries)
	r.Trailing7 = aggregate.TrailingWindowAverage(newest, 7, aggregate.Leftover)
	r.Trailing15 = aggregate.TrailingWindowAverage(newest, 15, aggregate.Leftover)
	r.Insight = insightFor(len(entries), r.AverageLeftover, r.AverageLoaded)
	return r
}

func newestFirst(entries []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].Date.Equal(out[b].Date) {
			return out[a].Date.After(out[b].Date)
		}
		return out[a].Shift.Order() > out[b].Shift.Order()
	})
	return out
}

func insightFor(count int, avgLeftover, avgLoaded float64) Insight {
	if count == 0 {
		return Insight{Level: InsightNone, Message: "No entries in this period."}
	}
	if avgLeftover <= LeftoverThreshold {
		return Insight{
			Level: InsightAcceptable,
			Message: fmt.Sprintf("Average leftover of %s per entry is within the acceptable level.",
				format.Liters(avgLeftover)),
		}
	}
	recommended := math.Round(avgLoaded - avgLeftover)
	return Insight{
		Level:           InsightHigh,
		RecommendedLoad: recommended,
		Message: fmt.Sprintf("Based on the last %d entries, you average %s leftover. Consider loading %s instead to reduce waste.",
			count, format.Liters(avgLeftover), format.Liters(recommended)),
	}
}
