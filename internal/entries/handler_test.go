package entries_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"milkatm-backend/internal/entries"
	"milkatm-backend/internal/export"
	"milkatm-backend/internal/reconcile"
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	app      *fiber.App
	settings *store.SettingsStore
}

func newFixture(t *testing.T) fixture {
	db := testutil.DB(t)
	entryStore := store.NewEntryStore(db)
	settings := store.NewSettingsStore(db)
	policy := reconcile.NewPolicy(entryStore)

	app := testutil.App()
	app.Get("/entries", entries.ListEntriesHandler(entryStore))
	app.Get("/entries/lookup", entries.LookupEntryHandler(policy, settings))
	app.Post("/entries", entries.SaveEntryHandler(policy, settings))
	app.Delete("/entries/:id", entries.DeleteEntryHandler(policy))
	app.Get("/entries/export/excel", entries.ExportExcelHandler(entryStore))
	app.Get("/entries/export/json", entries.ExportJSONHandler(entryStore))
	app.Post("/entries/import", entries.ImportHandler(policy))
	return fixture{app: app, settings: settings}
}

func form(date string, atm uint, shift string, total any, cashLiters any, cash any) fiber.Map {
	return fiber.Map{
		"date":        date,
		"atm_id":      atm,
		"shift":       shift,
		"total_milk":  total,
		"cash_liters": cashLiters,
		"cash":        cash,
	}
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	fx := newFixture(t)

	resp := testutil.Do(t, fx.app, http.MethodPost, "/entries", form("2025-01-10", 1, "morning", "100", 60, "3000"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := testutil.Decode(t, resp)
	assert.Equal(t, "create", created["mode"])
	first := created["entry"].(map[string]any)
	assert.Equal(t, 40.0, first["leftoverMilk"])
	assert.Equal(t, 3000.0, first["totalAmount"])

	resp = testutil.Do(t, fx.app, http.MethodPost, "/entries", form("2025-01-10", 1, "morning", "100", 80, "4000"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := testutil.Decode(t, resp)
	assert.Equal(t, "update", updated["mode"])
	second := updated["entry"].(map[string]any)
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, 20.0, second["leftoverMilk"])

	var list []map[string]any
	testutil.DecodeInto(t, testutil.Do(t, fx.app, http.MethodGet, "/entries", nil), &list)
	assert.Len(t, list, 1)
}

func TestSaveUsesMilkRate(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.settings.SetMilkRate(t.Context(), 50))

	resp := testutil.Do(t, fx.app, http.MethodPost, "/entries", form("2025-01-10", 1, "", "100", "10.5", "1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	saved := testutil.Decode(t, resp)["entry"].(map[string]any)
	assert.Equal(t, 525.0, saved["cash"])
	assert.Equal(t, "morning", saved["shift"])
}

func TestSaveRejectsInvalidForm(t *testing.T) {
	fx := newFixture(t)

	resp := testutil.Do(t, fx.app, http.MethodPost, "/entries", form("2025-01-10", 1, "morning", "50", 60, 0))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields := testutil.Decode(t, resp)["fields"].(map[string]any)
	assert.Contains(t, fields, "distributed_milk")

	resp = testutil.Do(t, fx.app, http.MethodPost, "/entries", form("", 0, "night", "", "-1", 0))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields = testutil.Decode(t, resp)["fields"].(map[string]any)
	for _, key := range []string{"date", "atm_id", "shift", "total_milk", "cash_liters"} {
		assert.Contains(t, fields, key)
	}

	var list []map[string]any
	testutil.DecodeInto(t, testutil.Do(t, fx.app, http.MethodGet, "/entries", nil), &list)
	assert.Empty(t, list)
}

func TestLookup(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.settings.SetDefaultStartingMilk(t.Context(), 120))

	resp := testutil.Do(t, fx.app, http.MethodGet, "/entries/lookup?date=2025-01-10&atm_id=1&shift=evening", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fresh := testutil.Decode(t, resp)
	assert.Equal(t, "create", fresh["mode"])
	assert.Nil(t, fresh["existing"])
	draft := fresh["draft"].(map[string]any)
	assert.Equal(t, "120", draft["total_milk"])
	assert.Equal(t, "evening", draft["shift"])

	resp = testutil.Do(t, fx.app, http.MethodPost, "/entries", form("2025-01-10", 1, "evening", "90", 30, 1500))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = testutil.Do(t, fx.app, http.MethodGet, "/entries/lookup?date=2025-01-10&atm_id=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := testutil.Decode(t, resp)
	assert.Equal(t, "update", stored["mode"])
	assert.Equal(t, "90", stored["draft"].(map[string]any)["total_milk"])
	assert.Equal(t, "evening", stored["existing"].(map[string]any)["shift"])

	assert.Equal(t, http.StatusBadRequest,
		testutil.Do(t, fx.app, http.MethodGet, "/entries/lookup?date=2025-01-10", nil).StatusCode)
}

func TestListFiltersAndDelete(t *testing.T) {
	fx := newFixture(t)
	for _, f := range []fiber.Map{
		form("2025-01-10", 1, "morning", 100, 50, 2500),
		form("2025-01-10", 2, "morning", 100, 40, 2000),
		form("2025-01-11", 1, "evening", 100, 30, 1500),
	} {
		require.Equal(t, http.StatusCreated, testutil.Do(t, fx.app, http.MethodPost, "/entries", f).StatusCode)
	}

	var list []map[string]any
	testutil.DecodeInto(t, testutil.Do(t, fx.app, http.MethodGet, "/entries?atm_id=1", nil), &list)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-01-11", list[0]["date"])

	testutil.DecodeInto(t, testutil.Do(t, fx.app, http.MethodGet, "/entries?from=2025-01-10&to=2025-01-10", nil), &list)
	assert.Len(t, list, 2)

	testutil.DecodeInto(t, testutil.Do(t, fx.app, http.MethodGet, "/entries?shift=evening", nil), &list)
	require.Len(t, list, 1)

	target := fmt.Sprintf("/entries/%d", int(list[0]["id"].(float64)))
	assert.Equal(t, http.StatusNoContent, testutil.Do(t, fx.app, http.MethodDelete, target, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, testutil.Do(t, fx.app, http.MethodDelete, target, nil).StatusCode)

	testutil.DecodeInto(t, testutil.Do(t, fx.app, http.MethodGet, "/entries", nil), &list)
	assert.Len(t, list, 2)
}

func TestExportExcel(t *testing.T) {
	fx := newFixture(t)
	require.Equal(t, http.StatusCreated,
		testutil.Do(t, fx.app, http.MethodPost, "/entries", form("2025-01-10", 1, "morning", 100, 50, 2500)).StatusCode)

	resp := testutil.Do(t, fx.app, http.MethodGet, "/entries/export/excel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentTypeXLSX, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "milk-tracker-data-")

	defer resp.Body.Close()
	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{export.SheetEntries, export.SheetSummary, export.SheetPayments}, f.GetSheetList())
}

func TestBackupRoundTrip(t *testing.T) {
	fx := newFixture(t)
	require.Equal(t, http.StatusCreated,
		testutil.Do(t, fx.app, http.MethodPost, "/entries", form("2025-01-10", 1, "morning", 100, 50, 2500)).StatusCode)
	require.Equal(t, http.StatusCreated,
		testutil.Do(t, fx.app, http.MethodPost, "/entries", form("2025-01-10", 1, "evening", 80, 20, 1000)).StatusCode)

	resp := testutil.Do(t, fx.app, http.MethodGet, "/entries/export/json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "milk-tracker-backup-")
	defer resp.Body.Close()
	backup, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	fresh := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/entries/import", bytes.NewReader(backup))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	imported, err := fresh.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, imported.StatusCode)
	report := testutil.Decode(t, imported)
	assert.Equal(t, 2.0, report["imported"])

	// the original database already holds both identities
	req = httptest.NewRequest(http.MethodPost, "/entries/import", bytes.NewReader(backup))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	again, err := fx.app.Test(req, -1)
	require.NoError(t, err)
	report = testutil.Decode(t, again)
	assert.Equal(t, 0.0, report["imported"])
	assert.Equal(t, 2.0, report["skipped"])
}

func TestImportMultipartAndInvalid(t *testing.T) {
	fx := newFixture(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "backup.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`[{"date":"2024-03-01","startingMilk":100,"cash":500,"upi":200},{"date":"","cash":1}]`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/entries/import", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp, err := fx.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := testutil.Decode(t, resp)
	assert.Equal(t, 2.0, report["total"])
	assert.Equal(t, 1.0, report["imported"])
	assert.Equal(t, 1.0, report["failed"])

	var list []map[string]any
	testutil.DecodeInto(t, testutil.Do(t, fx.app, http.MethodGet, "/entries?atm_id=0", nil), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "morning", list[0]["shift"])
	assert.Equal(t, 700.0, list[0]["totalAmount"])
	assert.Equal(t, 100.0, list[0]["distributedMilk"])
	assert.Equal(t, 0.0, list[0]["leftoverMilk"])

	req = httptest.NewRequest(http.MethodPost, "/entries/import", bytes.NewReader([]byte("not json")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	bad, err := fx.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
