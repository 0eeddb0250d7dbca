package atm

import (
	"strings"

	"milkatm-backend/internal/models"
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AtmResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type CreateAtmRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location" validate:"max=255"`
}

type UpdateAtmRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

func toResponse(a models.MilkAtm) AtmResponse {
	return AtmResponse{
		ID:        a.ID,
		Name:      a.Name,
		Location:  a.Location,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ListAtmsHandler(atms *store.AtmStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := atms.ListActive(c.UserContext())
		if err != nil {
			return err
		}
		res := make([]AtmResponse, 0, len(rows))
		for _, a := range rows {
			res = append(res, toResponse(a))
		}
		return c.JSON(res)
	}
}

func GetAtmHandler(atms *store.AtmStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		a, err := atms.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(*a))
	}
}

func CreateAtmHandler(atms *store.AtmStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAtmRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return &utils.FieldsError{Message: "validation failed", Fields: map[string]string{"name": "is required"}}
		}

		a := models.MilkAtm{Name: name, Location: strings.TrimSpace(body.Location)}
		if err := atms.Create(c.UserContext(), &a); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(a))
	}
}

func UpdateAtmHandler(atms *store.AtmStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		a, err := atms.Get(ctx, id)
		if err != nil {
			return err
		}

		var body UpdateAtmRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return &utils.FieldsError{Message: "validation failed", Fields: map[string]string{"name": "must not be empty"}}
			}
			a.Name = name
		}
		if body.Location != nil {
			a.Location = strings.TrimSpace(*body.Location)
		}

		if err := atms.Update(ctx, a); err != nil {
			return err
		}
		return c.JSON(toResponse(*a))
	}
}

// DeactivateAtmHandler hides the machine; recorded entries are kept.
func DeactivateAtmHandler(atms *store.AtmStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := atms.Deactivate(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
