package dashboard

import (
	"strconv"
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/report"
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler: today across every active machine plus the month to date.
func DashboardHandler(entries *store.EntryStore, atms *store.AtmStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		today := entry.DateOnly(time.Now())

		todayEntries, err := entries.Entries(ctx, store.Filter{From: today, To: today})
		if err != nil {
			return err
		}
		monthStart, _ := report.MonthRange(today.Year(), today.Month())
		monthEntries, err := entries.Entries(ctx, store.Filter{From: monthStart, To: today})
		if err != nil {
			return err
		}
		rows, err := atms.ListActive(ctx)
		if err != nil {
			return err
		}
		active := make([]aggregate.Machine, 0, len(rows))
		for _, a := range rows {
			active = append(active, aggregate.Machine{ID: a.ID, Name: a.Name, Location: a.Location})
		}

		return c.JSON(report.BuildDashboard(today, todayEntries, monthEntries, active))
	}
}

// GET /api/dashboard/chart?period=daily&count=7&atm_id=1
func ChartHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		period, err := ParsePeriod(c.Query("period"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "period must be daily, weekly or monthly")
		}

		count := period.DefaultCount()
		if raw := c.Query("count"); raw != "" {
			count, err = strconv.Atoi(raw)
			if err != nil || count <= 0 || count > maxChartCount {
				return fiber.NewError(fiber.StatusBadRequest, "count must be between 1 and 366")
			}
		}

		machine, err := utils.QueryMachine(c)
		if err != nil {
			return err
		}

		today := entry.DateOnly(time.Now())
		from, to := Window(period, count, today)
		list, err := entries.Entries(c.UserContext(), store.Filter{From: from, To: to, MachineID: machine})
		if err != nil {
			return err
		}
		return c.JSON(BuildChart(list, period, count, today))
	}
}
