package settings

import (
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type SettingsResponse struct {
	MilkRate            float64 `json:"milk_rate"`
	DefaultStartingMilk float64 `json:"default_starting_milk"`
}

type MilkRateRequest struct {
	Rate *float64 `json:"rate" validate:"required,gte=0"`
}

type DefaultMilkRequest struct {
	Liters *float64 `json:"liters" validate:"required,gte=0"`
}

// GetSettingsHandler exposes only the calculation settings; credentials
// share the table but never leave it.
func GetSettingsHandler(settings *store.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return respond(c, settings)
	}
}

func SetMilkRateHandler(settings *store.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MilkRateRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}
		if err := settings.SetMilkRate(c.UserContext(), *body.Rate); err != nil {
			return err
		}
		return respond(c, settings)
	}
}

func SetDefaultMilkHandler(settings *store.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DefaultMilkRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}
		if err := settings.SetDefaultStartingMilk(c.UserContext(), *body.Liters); err != nil {
			return err
		}
		return respond(c, settings)
	}
}

func respond(c *fiber.Ctx, settings *store.SettingsStore) error {
	calc, err := settings.Calculation(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(SettingsResponse{
		MilkRate:            calc.MilkRate,
		DefaultStartingMilk: calc.DefaultStartingMilk,
	})
}
