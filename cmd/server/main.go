package main

import (
	"strings"

	"milkatm-backend/internal/atm"
	"milkatm-backend/internal/auth"
	"milkatm-backend/internal/config"
	"milkatm-backend/internal/dashboard"
	"milkatm-backend/internal/database"
	"milkatm-backend/internal/entries"
	"milkatm-backend/internal/reconcile"
	"milkatm-backend/internal/report"
	"milkatm-backend/internal/settings"
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log := config.NewLogger("info")
	cfg := config.Load(log)
	log = config.NewLogger(cfg.LogLevel)
	db := database.Init(cfg, log)

	entryStore := store.NewEntryStore(db)
	atmStore := store.NewAtmStore(db)
	settingsStore := store.NewSettingsStore(db)
	policy := reconcile.NewPolicy(entryStore)

	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(log),
		BodyLimit:    16 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public auth
	api.Get("/auth/status", auth.StatusHandler(settingsStore))
	api.Post("/auth/setup", auth.SetupHandler(settingsStore, cfg))
	api.Post("/auth/login", auth.LoginHandler(settingsStore, cfg))
	api.Get("/auth/security-question", auth.SecurityQuestionHandler(settingsStore))
	api.Post("/auth/recover", auth.RecoverHandler(settingsStore, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Machines
	protected.Get("/atms", atm.ListAtmsHandler(atmStore))
	protected.Post("/atms", atm.CreateAtmHandler(atmStore))
	protected.Get("/atms/:id", atm.GetAtmHandler(atmStore))
	protected.Put("/atms/:id", atm.UpdateAtmHandler(atmStore))
	protected.Delete("/atms/:id", atm.DeactivateAtmHandler(atmStore))

	// Settings
	protected.Get("/settings", settings.GetSettingsHandler(settingsStore))
	protected.Put("/settings/milk-rate", settings.SetMilkRateHandler(settingsStore))
	protected.Put("/settings/default-milk", settings.SetDefaultMilkHandler(settingsStore))

	// Entries
	protected.Get("/entries", entries.ListEntriesHandler(entryStore))
	protected.Get("/entries/lookup", entries.LookupEntryHandler(policy, settingsStore))
	protected.Post("/entries", entries.SaveEntryHandler(policy, settingsStore))
	protected.Delete("/entries/:id", entries.DeleteEntryHandler(policy))
	protected.Get("/entries/export/excel", entries.ExportExcelHandler(entryStore))
	protected.Get("/entries/export/json", entries.ExportJSONHandler(entryStore))
	protected.Post("/entries/import", entries.ImportHandler(policy))

	// Dashboard
	protected.Get("/dashboard", dashboard.DashboardHandler(entryStore, atmStore))
	protected.Get("/dashboard/chart", dashboard.ChartHandler(entryStore))

	// Reports
	protected.Get("/reports/daily", report.DailyReportHandler(entryStore))
	protected.Get("/reports/weekly", report.WeeklyReportHandler(entryStore))
	protected.Get("/reports/monthly", report.MonthlyReportHandler(entryStore))
	protected.Get("/reports/payments", report.PaymentsReportHandler(entryStore))
	protected.Get("/reports/leftover", report.LeftoverReportHandler(entryStore))

	log.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
