package report

import (
	"testing"
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func mk(date time.Time, machine uint, shift entry.Shift, loaded float64, liters, amounts [entry.MethodCount]float64) entry.Entry {
	e := entry.Entry{Date: date, MachineID: machine, Shift: shift, TotalMilkLoaded: loaded}
	for _, m := range entry.Methods {
		e.Payments[m] = entry.Pair{Liters: liters[m], Amount: amounts[m]}
	}
	return e.Recalculated()
}

func TestBuildDailyRange_TotalsRow(t *testing.T) {
	entries := []entry.Entry{
		mk(day(2025, 1, 1), 1, entry.ShiftMorning, 100, [6]float64{50, 20}, [6]float64{2500, 1000}),
		mk(day(2025, 1, 1), 1, entry.ShiftEvening, 60, [6]float64{30}, [6]float64{1500}),
		mk(day(2025, 1, 2), 2, entry.ShiftMorning, 80, [6]float64{0, 0, 10, 0, 5}, [6]float64{0, 0, 500, 0, 250}),
	}

	r := BuildDailyRange(entries, day(2025, 1, 1), day(2025, 1, 2))
	assert.Len(t, r.Rows, 3)
	assert.Equal(t, "2025-01-01", r.From)
	assert.Equal(t, 240.0, r.Totals.TotalMilkLoaded)
	assert.Equal(t, 115.0, r.Totals.DistributedMilk)
	assert.Equal(t, 125.0, r.Totals.LeftoverMilk)
	assert.Equal(t, 5750.0, r.Totals.TotalAmount)
	assert.Equal(t, 80.0, r.Totals.Methods.Methods[entry.Cash].Liters)
	assert.Equal(t, 250.0, r.Totals.Methods.Methods[entry.UdhaarTemporary].Amount)
}

func TestBuildWeekly(t *testing.T) {
	// Wednesday 2025-01-15; week runs 13th to 19th.
	wed := day(2025, 1, 15)
	entries := []entry.Entry{
		mk(day(2025, 1, 13), 1, entry.ShiftMorning, 100, [6]float64{80}, [6]float64{4000}),
		mk(day(2025, 1, 14), 1, entry.ShiftMorning, 100, [6]float64{60, 30}, [6]float64{3000, 1500}),
	}

	r := BuildWeekly(entries, wed, day(2025, 1, 16))
	assert.Equal(t, "2025-01-13", r.Start)
	assert.Equal(t, "2025-01-19", r.End)
	assert.Equal(t, 3, r.Week)
	assert.Equal(t, 170.0, r.Cards.TotalDistributed)
	assert.Equal(t, 85.0, r.Cards.AverageDistributed)
	assert.Equal(t, 15.0, r.Cards.AverageLeftover)
	assert.Equal(t, 8500.0, r.Cards.TotalRevenue)
	assert.Equal(t, 2, r.Cards.DaysRecorded)
	assert.Equal(t, 82.4, r.Methods.Methods[entry.Cash].Percentage)
	require.Len(t, r.Days, 2)
	assert.Equal(t, "Monday", r.Days[0].Weekday)

	require.NotNil(t, r.Previous)
	assert.Equal(t, "2025-01-06", r.Previous.Start)
	assert.Nil(t, r.Next, "next week starts after today")

	past := BuildWeekly(nil, wed, day(2025, 1, 20))
	require.NotNil(t, past.Next)
	assert.Equal(t, "2025-01-20", past.Next.Start)
	assert.Equal(t, 0.0, past.Cards.AverageDistributed)
}

func TestBuildMonthly_Empty(t *testing.T) {
	r := BuildMonthly(nil, 2025, time.February, true)

	assert.Equal(t, 0.0, r.Cards.TotalDistributed)
	assert.Equal(t, 0.0, r.Cards.AverageDistributed)
	assert.Equal(t, 0.0, r.ImpliedRate)
	assert.Equal(t, 0.0, r.AverageLeftoverValue)
	assert.NotNil(t, r.Weeks)
	assert.Empty(t, r.Weeks)
	assert.Empty(t, r.Machines)
	assert.Equal(t, "2025-02-28", r.End)
	assert.Equal(t, "February", r.MonthName)
}

func TestBuildMonthly(t *testing.T) {
	a := mk(day(2025, 3, 3), 1, entry.ShiftMorning, 100, [6]float64{80}, [6]float64{4000})
	a.MachineName = "Main"
	b := mk(day(2025, 3, 12), 2, entry.ShiftMorning, 100, [6]float64{60}, [6]float64{3000})
	c := mk(day(2025, 3, 13), 2, entry.ShiftEvening, 50, [6]float64{40}, [6]float64{2000})
	entries := []entry.Entry{a, b, c}

	r := BuildMonthly(entries, 2025, time.March, true)
	assert.Equal(t, 180.0, r.Cards.TotalDistributed)
	assert.Equal(t, 9000.0, r.Cards.TotalRevenue)
	assert.Equal(t, 50.0, r.ImpliedRate)
	assert.InDelta(t, 70.0/3, r.Cards.AverageLeftover, 1e-9)
	assert.Equal(t, 1166.67, r.AverageLeftoverValue)

	require.Len(t, r.Weeks, 2)
	assert.Equal(t, 10, r.Weeks[0].Week)
	assert.Equal(t, 11, r.Weeks[1].Week)
	assert.Equal(t, 2, r.Weeks[1].EntryCount)

	require.Len(t, r.Machines, 2)
	assert.Equal(t, "Main", r.Machines[0].Name)
	assert.Equal(t, "Machine 2", r.Machines[1].Name)
	assert.Equal(t, 55.6, r.Machines[1].RevenueShare)

	single := BuildMonthly(entries, 2025, time.March, false)
	assert.Empty(t, single.Machines)
	oneMachine := BuildMonthly([]entry.Entry{b, c}, 2025, time.March, true)
	assert.Empty(t, oneMachine.Machines)
}

func TestBuildPaymentMethods(t *testing.T) {
	entries := []entry.Entry{
		mk(day(2025, 4, 1), 1, entry.ShiftMorning, 100, [6]float64{10, 10, 10, 10, 10, 10}, [6]float64{100, 200, 300, 150, 150, 100}),
		mk(day(2025, 4, 2), 1, entry.ShiftMorning, 100, [6]float64{20}, [6]float64{1000}),
	}

	r := BuildPaymentMethods(entries, day(2025, 4, 1), day(2025, 4, 2))
	assert.Equal(t, 2000.0, r.Methods.GrandTotalAmount)
	var pct float64
	for _, m := range r.Methods.Methods {
		pct += m.Percentage
	}
	assert.InDelta(t, 100.0, pct, 0.3)
	assert.Equal(t, 55.0, r.Methods.Methods[entry.Cash].Percentage)

	require.Len(t, r.Days, 2)
	assert.Equal(t, 100.0, r.Days[1].Methods.Methods[entry.Cash].Percentage)

	empty := BuildPaymentMethods(nil, day(2025, 4, 1), day(2025, 4, 2))
	assert.Equal(t, 0.0, empty.Methods.Methods[entry.UPI].Percentage)
	assert.Empty(t, empty.Days)
}

func TestBuildLeftover_HighInsight(t *testing.T) {
	var entries []entry.Entry
	leftovers := []float64{40, 20, 50, 50, 10, 60, 30, 35, 45}
	for i, left := range leftovers {
		entries = append(entries, mk(day(2025, 5, i+1), 1, entry.ShiftMorning, 200, [6]float64{200 - left}, [6]float64{}))
	}

	r := BuildLeftover(entries, day(2025, 5, 1), day(2025, 5, 9))
	assert.Equal(t, 340.0, r.TotalLeftover)
	assert.InDelta(t, 340.0/9, r.AverageLeftover, 1e-9)
	require.NotNil(t, r.Highest)
	assert.Equal(t, "2025-05-06", r.Highest.Date)
	assert.Equal(t, "2025-05-05", r.Lowest.Date)

	// Newest seven: days 9..3.
	assert.InDelta(t, (45+35+30+60+10+50+50)/7.0, r.Trailing7, 1e-9)
	assert.InDelta(t, 340.0/9, r.Trailing15, 1e-9)

	assert.Equal(t, InsightHigh, r.Insight.Level)
	assert.Equal(t, 162.0, r.Insight.RecommendedLoad)
	assert.Contains(t, r.Insight.Message, "162.0 L")

	assert.Equal(t, 30.0, r.Rows[5].Percentage)
	assert.Equal(t, SeverityHigh, r.Rows[5].Severity)
}

func TestBuildLeftover_TiesAndAcceptable(t *testing.T) {
	entries := []entry.Entry{
		mk(day(2025, 6, 1), 1, entry.ShiftMorning, 100, [6]float64{90}, [6]float64{}),
		mk(day(2025, 6, 2), 2, entry.ShiftMorning, 100, [6]float64{90}, [6]float64{}),
		mk(day(2025, 6, 3), 1, entry.ShiftMorning, 100, [6]float64{88}, [6]float64{}),
	}
	entries[1].MachineName = "second"

	r := BuildLeftover(entries, day(2025, 6, 1), day(2025, 6, 3))
	assert.Equal(t, "2025-06-03", r.Highest.Date)
	assert.Equal(t, "2025-06-01", r.Lowest.Date)
	assert.Equal(t, InsightAcceptable, r.Insight.Level)
	assert.Zero(t, r.Insight.RecommendedLoad)
	assert.Equal(t, SeverityMedium, r.Rows[2].Severity)
	assert.Equal(t, SeverityNormal, r.Rows[0].Severity)

	empty := BuildLeftover(nil, day(2025, 6, 1), day(2025, 6, 3))
	assert.Nil(t, empty.Highest)
	assert.Equal(t, InsightNone, empty.Insight.Level)
	assert.Equal(t, 0.0, empty.AverageLeftover)
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, SeverityNormal, SeverityOf(10))
	assert.Equal(t, SeverityMedium, SeverityOf(10.1))
	assert.Equal(t, SeverityMedium, SeverityOf(15))
	assert.Equal(t, SeverityHigh, SeverityOf(15.1))
}

func TestBuildDashboard(t *testing.T) {
	today := day(2025, 7, 9)
	todays := []entry.Entry{mk(today, 1, entry.ShiftMorning, 100, [6]float64{70}, [6]float64{3500})}
	month := append([]entry.Entry{mk(day(2025, 7, 1), 2, entry.ShiftMorning, 100, [6]float64{90}, [6]float64{4500})}, todays...)
	active := []aggregate.Machine{{ID: 1, Name: "Main"}, {ID: 2, Name: "Market"}}

	d := BuildDashboard(today, todays, month, active)
	assert.Equal(t, "2025-07-09", d.Date)
	assert.Equal(t, "July 2025", d.Month)
	assert.Equal(t, 1, d.Today.MachineCount)
	require.Len(t, d.Today.Pending, 1)
	assert.Equal(t, uint(2), d.Today.Pending[0].ID)
	assert.Equal(t, 8000.0, d.MonthCards.TotalRevenue)
	assert.Equal(t, 2, d.ActiveMachines)
}
