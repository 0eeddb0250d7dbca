package aggregate

import (
	"testing"
	"time"

	"milkatm-backend/internal/entry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func mk(date time.Time, machine uint, loaded float64, liters, amounts [entry.MethodCount]float64) entry.Entry {
	e := entry.Entry{Date: date, MachineID: machine, Shift: entry.ShiftMorning, TotalMilkLoaded: loaded}
	for _, m := range entry.Methods {
		e.Payments[m] = entry.Pair{Liters: liters[m], Amount: amounts[m]}
	}
	return e.Recalculated()
}

func TestPercentageOf(t *testing.T) {
	assert.Equal(t, 0.0, PercentageOf(50, 0))
	assert.Equal(t, 0.0, PercentageOf(0, 0))
	assert.Equal(t, 33.3, PercentageOf(1, 3))
	assert.Equal(t, 66.7, PercentageOf(2, 3))
	assert.Equal(t, 100.0, PercentageOf(40, 40))
}

func TestReducers_EmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, SumField(nil, Distributed))
	assert.Equal(t, 0.0, AveragePerEntry(nil, Leftover))
	assert.Equal(t, 0.0, TrailingWindowAverage(nil, 7, Leftover))
	assert.Empty(t, GroupByISOWeek(nil))
	assert.Empty(t, GroupByMachine(nil))
	assert.Empty(t, GroupByDay(nil))

	totals := TotalsByMethod(nil)
	assert.Equal(t, 0.0, totals.GrandTotalAmount)
	for _, mt := range totals.Methods {
		assert.Equal(t, 0.0, mt.Percentage)
	}
}

func TestTotalsByMethod(t *testing.T) {
	entries := []entry.Entry{
		mk(day(2024, 5, 1), 1, 100, [6]float64{20, 10}, [6]float64{1000, 500}),
		mk(day(2024, 5, 2), 1, 100, [6]float64{10, 0, 0, 0, 0, 5}, [6]float64{500, 0, 0, 0, 0, 250}),
	}

	totals := TotalsByMethod(entries)
	assert.Equal(t, 30.0, totals.Methods[entry.Cash].Liters)
	assert.Equal(t, 1500.0, totals.Methods[entry.Cash].Amount)
	assert.Equal(t, 2250.0, totals.GrandTotalAmount)
	assert.Equal(t, 45.0, totals.GrandTotalLiters)
	assert.Equal(t, 66.7, totals.Methods[entry.Cash].Percentage)
	assert.Equal(t, "Udhaar Permanent", totals.Methods[entry.UdhaarPermanent].Label)

	var pct float64
	for _, mt := range totals.Methods {
		pct += mt.Percentage
	}
	assert.InDelta(t, 100.0, pct, 0.3)
}

func TestGroupByISOWeek_Partition(t *testing.T) {
	var entries []entry.Entry
	start := day(2024, 12, 20)
	for i := 0; i < 30; i++ {
		entries = append(entries, mk(start.AddDate(0, 0, i), uint(i%3+1), 50, [6]float64{float64(i % 7), 1.5}, [6]float64{100}))
	}

	weeks := GroupByISOWeek(entries)

	count := 0
	var distributed float64
	for i, w := range weeks {
		count += w.Count
		distributed += w.Distributed
		assert.Equal(t, time.Monday, w.Start.Weekday())
		if i > 0 {
			assert.True(t, weeks[i-1].WeekKey.Less(w.WeekKey))
		}
	}
	assert.Equal(t, len(entries), count)
	assert.InDelta(t, SumField(entries, Distributed), distributed, 1e-9)

	for _, e := range entries {
		matches := 0
		for _, w := range weeks {
			if !e.Date.Before(w.Start) && !e.Date.After(w.End) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, e.Date.String())
	}
}

func TestGroupByISOWeek_YearBoundary(t *testing.T) {
	// 2024-12-30 is Monday of ISO week 1 of 2025.
	entries := []entry.Entry{
		mk(day(2024, 12, 29), 1, 10, [6]float64{1}, [6]float64{}),
		mk(day(2024, 12, 30), 1, 10, [6]float64{2}, [6]float64{}),
		mk(day(2025, 1, 5), 1, 10, [6]float64{3}, [6]float64{}),
	}

	weeks := GroupByISOWeek(entries)
	require.Len(t, weeks, 2)
	assert.Equal(t, WeekKey{Year: 2024, Week: 52}, weeks[0].WeekKey)
	assert.Equal(t, WeekKey{Year: 2025, Week: 1}, weeks[1].WeekKey)
	assert.Equal(t, 2, weeks[1].Count)
	assert.Equal(t, 5.0, weeks[1].Distributed)
	assert.Equal(t, day(2024, 12, 30), weeks[1].Start)
}

func TestGroupByMachine(t *testing.T) {
	a := mk(day(2024, 5, 1), 2, 40, [6]float64{10}, [6]float64{250})
	a.MachineName = "Station Road"
	b := mk(day(2024, 5, 1), 1, 40, [6]float64{20}, [6]float64{500})
	c := mk(day(2024, 5, 2), 2, 40, [6]float64{30}, [6]float64{750})

	groups := GroupByMachine([]entry.Entry{a, b, c})
	require.Len(t, groups, 2)
	assert.Equal(t, uint(1), groups[0].MachineID)
	assert.Equal(t, "Station Road", groups[1].Name)
	assert.Equal(t, 2, groups[1].Count)
	assert.Equal(t, 1000.0, groups[1].Revenue)
	assert.Equal(t, 40.0, groups[1].Leftover)
	assert.Equal(t, 20.0, groups[1].AverageLeftover())
}

func TestGroupByDay(t *testing.T) {
	morning := mk(day(2024, 5, 2), 1, 40, [6]float64{10, 5}, [6]float64{250, 125})
	evening := mk(day(2024, 5, 2), 1, 30, [6]float64{10}, [6]float64{250})
	evening.Shift = entry.ShiftEvening
	earlier := mk(day(2024, 5, 1), 1, 40, [6]float64{40}, [6]float64{1000})

	days := GroupByDay([]entry.Entry{morning, evening, earlier})
	require.Len(t, days, 2)
	assert.Equal(t, day(2024, 5, 1), days[0].Date)
	assert.Equal(t, 2, days[1].Count)
	assert.Equal(t, 70.0, days[1].TotalMilk)
	assert.Equal(t, 625.0, days[1].Revenue)
	assert.Equal(t, 500.0, days[1].Methods().Methods[entry.Cash].Amount)
	assert.Equal(t, 80.0, days[1].Methods().Methods[entry.Cash].Percentage)
}

func TestTrailingWindowAverage(t *testing.T) {
	var newestFirst []entry.Entry
	for i, left := range []float64{10, 20, 30, 40} {
		newestFirst = append(newestFirst, mk(day(2024, 5, 10-i), 1, 50+left, [6]float64{50}, [6]float64{}))
	}

	assert.Equal(t, 15.0, TrailingWindowAverage(newestFirst, 2, Leftover))
	assert.Equal(t, 25.0, TrailingWindowAverage(newestFirst, 7, Leftover))
	assert.Equal(t, 0.0, TrailingWindowAverage(newestFirst, 0, Leftover))
}

func TestCombinedDaySnapshot(t *testing.T) {
	today := day(2024, 5, 3)
	entries := []entry.Entry{
		mk(today, 1, 100, [6]float64{60}, [6]float64{3000}),
		mk(today, 1, 50, [6]float64{50}, [6]float64{2500}),
		mk(today, 3, 80, [6]float64{70}, [6]float64{3500}),
	}
	active := []Machine{{ID: 1, Name: "Main"}, {ID: 2, Name: "Bus Stand"}, {ID: 3, Name: "Market"}}

	snap := CombinedDaySnapshot(today, entries, active)
	assert.Equal(t, 230.0, snap.TotalMilk)
	assert.Equal(t, 180.0, snap.Distributed)
	assert.Equal(t, 50.0, snap.Leftover)
	assert.Equal(t, 9000.0, snap.TotalAmount)
	assert.Equal(t, 2, snap.MachineCount)
	assert.Equal(t, 3, snap.EntryCount)
	require.Len(t, snap.Pending, 1)
	assert.Equal(t, "Bus Stand", snap.Pending[0].Name)

	withOthers := append(entries,
		mk(today, 0, 40, [6]float64{40}, [6]float64{2000}),
		mk(today, 9, 30, [6]float64{30}, [6]float64{1500}),
	)
	mixed := CombinedDaySnapshot(today, withOthers, active)
	assert.Equal(t, 300.0, mixed.TotalMilk)
	assert.Equal(t, 12500.0, mixed.TotalAmount)
	assert.Equal(t, 5, mixed.EntryCount)
	assert.Equal(t, 2, mixed.MachineCount)
	assert.Equal(t, len(active), mixed.MachineCount+len(mixed.Pending))

		empty := CombinedDaySnapshot(today, nil, active)
	assert.Equal(t, 0, empty.MachineCount)
	assert.Len(t, empty.Pending, 3)
}
