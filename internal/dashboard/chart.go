package dashboard

import (
	"fmt"
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/format"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"

	maxChartCount = 366
)

func ParsePeriod(raw string) (Period, error) {
	switch p := Period(raw); p {
	case "":
		return PeriodDaily, nil
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown chart period %q", raw)
	}
}

// DefaultCount is the number of buckets shown when none is requested.
func (p Period) DefaultCount() int {
	switch p {
	case PeriodWeekly:
		return 8
	case PeriodMonthly:
		return 12
	default:
		return 7
	}
}

// bucketStart maps a day onto the first day of its bucket.
func (p Period) bucketStart(t time.Time) time.Time {
	d := entry.DateOnly(t)
	switch p {
	case PeriodWeekly:
		return aggregate.WeekStart(d)
	case PeriodMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

func (p Period) step(t time.Time, n int) time.Time {
	switch p {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7*n)
	case PeriodMonthly:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

func (p Period) label(start time.Time) string {
	switch p {
	case PeriodWeekly:
		k := aggregate.WeekOf(start)
		return fmt.Sprintf("W%02d %d", k.Week, k.Year)
	case PeriodMonthly:
		return format.MonthYear(start)
	default:
		return format.Date(start)
	}
}

// Window returns the first day of the oldest bucket and today. The newest
// bucket is the one holding today.
func Window(p Period, count int, today time.Time) (time.Time, time.Time) {
	today = entry.DateOnly(today)
	return p.step(p.bucketStart(today), -(count - 1)), today
}

type ChartPoint struct {
	Label           string  `json:"label"`
	Start           string  `json:"start"`
	Cash            float64 `json:"cash"`
	UPI             float64 `json:"upi"`
	Card            float64 `json:"card"`
	UdhaarPermanent float64 `json:"udhaarPermanent"`
	UdhaarTemporary float64 `json:"udhaarTemporary"`
	Others          float64 `json:"others"`
	Total           float64 `json:"total"`
	Distributed     float64 `json:"distributed"`
}

func (pt *ChartPoint) add(e entry.Entry) {
	pay := e.Payments
	pt.Cash = entry.Round2(pt.Cash + pay[entry.Cash].Amount)
	pt.UPI = entry.Round2(pt.UPI + pay[entry.UPI].Amount)
	pt.Card = entry.Round2(pt.Card + pay[entry.Card].Amount)
	pt.UdhaarPermanent = entry.Round2(pt.UdhaarPermanent + pay[entry.UdhaarPermanent].Amount)
	pt.UdhaarTemporary = entry.Round2(pt.UdhaarTemporary + pay[entry.UdhaarTemporary].Amount)
	pt.Others = entry.Round2(pt.Others + pay[entry.Others].Amount)
	pt.Total = entry.Round2(pt.Total + e.TotalAmount)
	pt.Distributed += e.DistributedMilk
}

type Chart struct {
	Period      Period       `json:"period"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Points      []ChartPoint `json:"points"`
	GrandTotals ChartPoint   `json:"grandTotals"`
}

// BuildChart buckets revenue per payment method. Every bucket in the window
// is present, empty ones as zeros; entries outside it are ignored.
func BuildChart(entries []entry.Entry, p Period, count int, today time.Time) Chart {
	from, to := Window(p, count, today)
	chart := Chart{
		Period:      p,
		From:        entry.FormatDate(from),
		To:          entry.FormatDate(to),
		Points:      make([]ChartPoint, 0, count),
		GrandTotals: ChartPoint{Label: "Total"},
	}

	index := make(map[time.Time]int, count)
	for start := from; !start.After(to); start = p.step(start, 1) {
		index[start] = len(chart.Points)
		chart.Points = append(chart.Points, ChartPoint{Label: p.label(start), Start: entry.FormatDate(start)})
	}

	for _, e := range entries {
		i, ok := index[p.bucketStart(e.Date)]
		if !ok || e.Date.After(to) {
			continue
		}
		chart.Points[i].add(e)
		chart.GrandTotals.add(e)
	}
	return chart
}
