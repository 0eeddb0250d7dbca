package database

import (
	"fmt"

	"milkatm-backend/internal/config"
	"milkatm-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the configured driver. Foreign keys are not created
// by migrations: atm_id 0 marks legacy rows and has no machine behind it.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return db, nil
}

// Init opens and migrates the database or stops the process.
func Init(cfg *config.Config, log *logrus.Logger) *gorm.DB {
	db, err := Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("could not connect to the database")
	}
	if err := Migrate(db, log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.WithField("driver", cfg.DatabaseDriver).Info("database connected, migrations applied")
	return db
}

// Migrate upgrades single-machine tables and then auto-migrates the models.
func Migrate(db *gorm.DB, log *logrus.Logger) error {
	if err := upgradeLegacyEntries(db, log); err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&models.MilkAtm{},
		&models.DailyEntry{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// legacyColumns are added before AutoMigrate so existing rows get their
// defaults instead of failing the NOT NULL constraints.
var legacyColumns = []string{
	"AtmID",
	"Shift",
	"CashLiters",
	"UpiLiters",
	"CardLiters",
	"UdhaarPermanentLiters",
	"UdhaarTemporaryLiters",
	"OthersLiters",
}

// upgradeLegacyEntries brings a single-machine daily_entries table (one row
// per date, starting_milk column) onto the (date, atm_id, shift) identity.
func upgradeLegacyEntries(db *gorm.DB, log *logrus.Logger) error {
	m := db.Migrator()
	if !m.HasTable(&models.DailyEntry{}) {
		return nil
	}

	if m.HasColumn(&models.DailyEntry{}, "starting_milk") && !m.HasColumn(&models.DailyEntry{}, "total_milk") {
		log.Info("daily_entries.starting_milk is renamed to total_milk")
		if err := m.RenameColumn(&models.DailyEntry{}, "starting_milk", "total_milk"); err != nil {
			return fmt.Errorf("rename starting_milk: %w", err)
		}
	}

	for _, field := range legacyColumns {
		if m.HasColumn(&models.DailyEntry{}, field) {
			continue
		}
		log.WithField("column", field).Info("adding column to daily_entries")
		if err := m.AddColumn(&models.DailyEntry{}, field); err != nil {
			return fmt.Errorf("add column %s: %w", field, err)
		}
	}

	// Single-machine schemas kept one row per date.
	for _, idx := range []string{"idx_daily_entries_date", "daily_entries_date_key"} {
		if m.HasIndex(&models.DailyEntry{}, idx) {
			log.WithField("index", idx).Info("dropping date-only unique index")
			if err := m.DropIndex(&models.DailyEntry{}, idx); err != nil {
				log.WithError(err).WithField("index", idx).Warn("could not drop index, continuing")
			}
		}
	}
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("ALTER TABLE daily_entries DROP CONSTRAINT IF EXISTS daily_entries_date_key").Error; err != nil {
			log.WithError(err).Warn("could not drop daily_entries_date_key constraint, continuing")
		}
	}

	if err := db.Exec("UPDATE daily_entries SET shift = 'morning' WHERE shift IS NULL OR shift = ''").Error; err != nil {
		return fmt.Errorf("backfill shift: %w", err)
	}

	// Single-machine rows recorded no per-method liters; their sales are
	// booked under others so distributed survives a recompute.
	if err := db.Exec(`UPDATE daily_entries SET others_liters = distributed_milk
		WHERE distributed_milk > 0
		AND COALESCE(cash_liters, 0) = 0 AND COALESCE(upi_liters, 0) = 0
		AND COALESCE(card_liters, 0) = 0 AND COALESCE(udhaar_permanent_liters, 0) = 0
		AND COALESCE(udhaar_temporary_liters, 0) = 0 AND COALESCE(others_liters, 0) = 0`).Error; err != nil {
		return fmt.Errorf("backfill others_liters: %w", err)
	}
	return nil
}
