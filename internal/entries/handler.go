package entries

import (
	"bytes"
	"errors"
	"io"
	"time"

	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/export"
	"milkatm-backend/internal/reconcile"
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// EntryRequest is the entry form as submitted. Numbers may arrive as JSON
// strings or numbers; blanks count as zero except total_milk.
type EntryRequest struct {
	Date                  string         `json:"date"`
	AtmID                 uint           `json:"atm_id"`
	Shift                 string         `json:"shift"`
	TotalMilk             entry.RawValue `json:"total_milk"`
	CashLiters            entry.RawValue `json:"cash_liters"`
	Cash                  entry.RawValue `json:"cash"`
	UpiLiters             entry.RawValue `json:"upi_liters"`
	Upi                   entry.RawValue `json:"upi"`
	CardLiters            entry.RawValue `json:"card_liters"`
	Card                  entry.RawValue `json:"card"`
	UdhaarPermanentLiters entry.RawValue `json:"udhaar_permanent_liters"`
	UdhaarPermanent       entry.RawValue `json:"udhaar_permanent"`
	UdhaarTemporaryLiters entry.RawValue `json:"udhaar_temporary_liters"`
	UdhaarTemporary       entry.RawValue `json:"udhaar_temporary"`
	OthersLiters          entry.RawValue `json:"others_liters"`
	Others                entry.RawValue `json:"others"`
}

func (r EntryRequest) Draft() entry.Draft {
	d := entry.Draft{
		Date:      r.Date,
		MachineID: r.AtmID,
		Shift:     r.Shift,
		TotalMilk: r.TotalMilk.String(),
	}
	liters := [entry.MethodCount]entry.RawValue{r.CashLiters, r.UpiLiters, r.CardLiters, r.UdhaarPermanentLiters, r.UdhaarTemporaryLiters, r.OthersLiters}
	amounts := [entry.MethodCount]entry.RawValue{r.Cash, r.Upi, r.Card, r.UdhaarPermanent, r.UdhaarTemporary, r.Others}
	for _, m := range entry.Methods {
		d.Liters[m] = liters[m].String()
		d.Amounts[m] = amounts[m].String()
	}
	return d
}

// DraftResponse mirrors EntryRequest so the form can be filled from it.
type DraftResponse map[string]string

func draftResponse(d entry.Draft) DraftResponse {
	out := DraftResponse{
		"date":       d.Date,
		"shift":      d.Shift,
		"total_milk": d.TotalMilk,
	}
	for _, m := range entry.Methods {
		out[m.LitersColumn()] = d.Liters[m]
		out[m.Column()] = d.Amounts[m]
	}
	return out
}

type LookupResponse struct {
	Mode        reconcile.Mode `json:"mode"`
	Existing    *entry.Entry   `json:"existing,omitempty"`
	AtmID       uint           `json:"atm_id"`
	Draft       DraftResponse  `json:"draft"`
	MilkRate    float64        `json:"milk_rate"`
	AutoAmounts bool           `json:"auto_amounts"`
}

type SaveResponse struct {
	Mode  reconcile.Mode `json:"mode"`
	Entry entry.Entry    `json:"entry"`
}

// ListEntriesHandler returns entries newest first. Without from/to the
// range is open.
func ListEntriesHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := filterFromQuery(c)
		if err != nil {
			return err
		}
		shift, err := utils.QueryShift(c)
		if err != nil {
			return err
		}
		f.Shift = shift
		f.NewestFirst = true

		list, err := entries.Entries(c.UserContext(), f)
		if err != nil {
			return err
		}
		if list == nil {
			list = []entry.Entry{}
		}
		return c.JSON(list)
	}
}

// LookupEntryHandler tells the form whether (date, atm_id, shift) is new or
// already recorded, and what to prefill it with.
func LookupEntryHandler(policy *reconcile.Policy, settings *store.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		date, err := utils.QueryDate(c, "date", entry.DateOnly(time.Now()))
		if err != nil {
			return err
		}
		machine, err := utils.QueryMachine(c)
		if err != nil {
			return err
		}
		if machine == nil {
			return fiber.NewError(fiber.StatusBadRequest, "atm_id is required")
		}
		shift, err := utils.QueryShift(c)
		if err != nil {
			return err
		}

		calc, err := settings.Calculation(ctx)
		if err != nil {
			return err
		}
		prefill, err := policy.Prefill(ctx, reconcile.Identity{Date: date, MachineID: *machine, Shift: shift}, calc)
		if err != nil {
			return err
		}

		return c.JSON(LookupResponse{
			Mode:        prefill.Mode,
			Existing:    prefill.Existing,
			AtmID:       prefill.Draft.MachineID,
			Draft:       draftResponse(prefill.Draft),
			MilkRate:    calc.MilkRate,
			AutoAmounts: calc.AutoAmounts(),
		})
	}
}

// SaveEntryHandler validates the form and creates or updates the entry
// holding its identity.
func SaveEntryHandler(policy *reconcile.Policy, settings *store.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		var body EntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		calc, err := settings.Calculation(ctx)
		if err != nil {
			return err
		}
		e, err := entry.NewCalculator(calc, time.Now).Compose(body.Draft())
		if err != nil {
			return err
		}

		saved, mode, err := policy.Save(ctx, e)
		if err != nil {
			return err
		}

		status := fiber.StatusOK
		if mode == reconcile.ModeCreate {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(SaveResponse{Mode: mode, Entry: saved})
	}
}

func DeleteEntryHandler(policy *reconcile.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := policy.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ExportExcelHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := filterFromQuery(c)
		if err != nil {
			return err
		}
		list, err := entries.Entries(c.UserContext(), f)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := export.WriteWorkbook(&buf, list); err != nil {
			return err
		}
		c.Attachment(export.FileName("milk-tracker-data", time.Now(), "xlsx"))
		c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
		return c.Send(buf.Bytes())
	}
}

// ExportJSONHandler downloads every entry as a backup ImportHandler accepts.
func ExportJSONHandler(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := entries.All(c.UserContext())
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := export.WriteJSON(&buf, list); err != nil {
			return err
		}
		c.Attachment(export.FileName("milk-tracker-backup", time.Now(), "json"))
		c.Set(fiber.HeaderContentType, export.ContentTypeJSON)
		return c.Send(buf.Bytes())
	}
}

// ImportHandler applies a backup from a multipart "file" field or the raw
// body. Existing identities are skipped, never overwritten.
func ImportHandler(policy *reconcile.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var src io.Reader = bytes.NewReader(c.Body())
		if fh, err := c.FormFile("file"); err == nil {
			file, err := fh.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "uploaded file could not be read")
			}
			defer file.Close()
			src = file
		}

		records, err := export.ReadJSON(src)
		if errors.Is(err, export.ErrInvalidBackup) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return err
		}

		return c.JSON(policy.Import(c.UserContext(), records))
	}
}

func filterFromQuery(c *fiber.Ctx) (store.Filter, error) {
	from, err := utils.QueryDate(c, "from", time.Time{})
	if err != nil {
		return store.Filter{}, err
	}
	to, err := utils.QueryDate(c, "to", time.Time{})
	if err != nil {
		return store.Filter{}, err
	}
	machine, err := utils.QueryMachine(c)
	if err != nil {
		return store.Filter{}, err
	}
	return store.Filter{From: from, To: to, MachineID: machine}, nil
}
