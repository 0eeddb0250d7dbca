package utils

import (
	"strconv"
	"strings"
	"time"

	"milkatm-backend/internal/entry"

	"github.com/gofiber/fiber/v2"
)

// QueryMachine reads ?atm_id. Absent or "all" means every machine; "0"
// selects the legacy machine.
func QueryMachine(c *fiber.Ctx) (*uint, error) {
	raw := strings.TrimSpace(c.Query("atm_id"))
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "atm_id must be a machine id")
	}
	v := uint(id)
	return &v, nil
}

// QueryShift reads ?shift; empty means any shift.
func QueryShift(c *fiber.Ctx) (entry.Shift, error) {
	raw := strings.ToLower(strings.TrimSpace(c.Query("shift")))
	if raw == "" {
		return "", nil
	}
	s := entry.Shift(raw)
	if !s.Valid() {
		return "", fiber.NewError(fiber.StatusBadRequest, "shift must be morning or evening")
	}
	return s, nil
}

// QueryDate reads a YYYY-MM-DD parameter, falling back to def when absent.
func QueryDate(c *fiber.Ctx, name string, def time.Time) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	d, ok := entry.ParseDate(raw)
	if !ok {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, name+" must be in YYYY-MM-DD format")
	}
	return d, nil
}

// QueryRange reads ?from and ?to. Missing bounds default to the first of
// today's month and today.
func QueryRange(c *fiber.Ctx, today time.Time) (time.Time, time.Time, error) {
	today = entry.DateOnly(today)
	from, err := QueryDate(c, "from", time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := QueryDate(c, "to", today)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "from must not be after to")
	}
	return from, to, nil
}
