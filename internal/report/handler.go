package report

import (
	"strconv"
	"time"

	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// rangeQuery reads ?from, ?to and ?atm_id and fetches the matching entries.
func rangeQuery(c *fiber.Ctx, entries *store.EntryStore) ([]entry.Entry, time.Time, time.Time, error) {
	from, to, err := utils.QueryRange(c, time.Now())
	if err != nil {
		return nil, from, to, err
	}
	machine, err := utils.QueryMachine(c)
	if err != nil {
		return nil, from, to, err
	}
	list, err := entries.Entries(c.UserContext(), store.Filter{From: from, To: to, MachineID: machine})
	return list, from, to, err
}

// GET /api/reports/daily?from=2025-01-01&to=2025-01-31&atm_id=1
func DailyReportHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, from, to, err := rangeQuery(c, entries)
		if err != nil {
			return err
		}
		return c.JSON(BuildDailyRange(list, from, to))
	}
}

// GET /api/reports/weekly?date=2025-01-15&atm_id=1
func WeeklyReportHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		today := entry.DateOnly(time.Now())
		day, err := utils.QueryDate(c, "date", today)
		if err != nil {
			return err
		}
		machine, err := utils.QueryMachine(c)
		if err != nil {
			return err
		}

		start, end := WeekRange(day)
		list, err := entries.Entries(c.UserContext(), store.Filter{From: start, To: end, MachineID: machine})
		if err != nil {
			return err
		}
		return c.JSON(BuildWeekly(list, day, today))
	}
}

// GET /api/reports/monthly?year=2025&month=1&atm_id=1
func MonthlyReportHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		year, month := now.Year(), now.Month()

		if raw := c.Query("year"); raw != "" {
			y, err := strconv.Atoi(raw)
			if err != nil || y < 2000 || y > 2100 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid year")
			}
			year = y
		}
		if raw := c.Query("month"); raw != "" {
			m, err := strconv.Atoi(raw)
			if err != nil || m < 1 || m > 12 {
				return fiber.NewError(fiber.StatusBadRequest, "month must be between 1 and 12")
			}
			month = time.Month(m)
		}
		machine, err := utils.QueryMachine(c)
		if err != nil {
			return err
		}

		start, end := MonthRange(year, month)
		list, err := entries.Entries(c.UserContext(), store.Filter{From: start, To: end, MachineID: machine})
		if err != nil {
			return err
		}
		return c.JSON(BuildMonthly(list, year, month, machine == nil))
	}
}

func PaymentsReportHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, from, to, err := rangeQuery(c, entries)
		if err != nil {
			return err
		}
		return c.JSON(BuildPaymentMethods(list, from, to))
	}
}

func LeftoverReportHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, from, to, err := rangeQuery(c, entries)
		if err != nil {
			return err
		}
		return c.JSON(BuildLeftover(list, from, to))
	}
}
