package atm_test

import (
	"net/http"
	"testing"

	"milkatm-backend/internal/atm"
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAtmApp(t *testing.T) *fiber.App {
	atms := store.NewAtmStore(testutil.DB(t))
	app := testutil.App()
	app.Get("/atms", atm.ListAtmsHandler(atms))
	app.Post("/atms", atm.CreateAtmHandler(atms))
	app.Get("/atms/:id", atm.GetAtmHandler(atms))
	app.Put("/atms/:id", atm.UpdateAtmHandler(atms))
	app.Delete("/atms/:id", atm.DeactivateAtmHandler(atms))
	return app
}

func TestAtmLifecycle(t *testing.T) {
	app := newAtmApp(t)

	resp := testutil.Do(t, app, http.MethodPost, "/atms", fiber.Map{"name": " Main Gate ", "location": "Sector 4"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := testutil.Decode(t, resp)
	assert.Equal(t, "Main Gate", created["name"])
	assert.Equal(t, true, created["is_active"])

	resp = testutil.Do(t, app, http.MethodPost, "/atms", fiber.Map{"name": "Bus Stand"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = testutil.Do(t, app, http.MethodPut, "/atms/1", fiber.Map{"location": "Sector 5"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := testutil.Decode(t, resp)
	assert.Equal(t, "Main Gate", updated["name"])
	assert.Equal(t, "Sector 5", updated["location"])

	resp = testutil.Do(t, app, http.MethodDelete, "/atms/2", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = testutil.Do(t, app, http.MethodGet, "/atms", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	testutil.DecodeInto(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Main Gate", list[0]["name"])

	resp = testutil.Do(t, app, http.MethodGet, "/atms/2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, testutil.Decode(t, resp)["is_active"])
}

func TestAtmErrors(t *testing.T) {
	app := newAtmApp(t)

	assert.Equal(t, http.StatusNotFound, testutil.Do(t, app, http.MethodGet, "/atms/9", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, testutil.Do(t, app, http.MethodGet, "/atms/abc", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, testutil.Do(t, app, http.MethodDelete, "/atms/9", nil).StatusCode)

	resp := testutil.Do(t, app, http.MethodPost, "/atms", fiber.Map{"name": "   "})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, testutil.Decode(t, resp)["fields"], "name")
}
