package db

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dorm-rental-backend/config"
	"dorm-rental-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogQueries {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.EnableConstraints {
		log.Println("Applying table constraints...")
		if err := applyConstraints(db); err != nil {
			log.Printf("Warning: failed to apply some constraints: %v. Continuing without them.", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// applyConstraints adds Postgres CHECK constraints that mirror the meter and
// status rules enforced in code.
func applyConstraints(db *gorm.DB) error {
	ddls := []struct {
		table, name, check string
	}{
		{"rooms", "rooms_electricity_meter_order", "electricity_meter_new >= electricity_meter_old AND electricity_meter_old >= 0"},
		{"rooms", "rooms_water_meter_order", "water_meter_new >= water_meter_old AND water_meter_old >= 0"},
		{"rooms", "rooms_room_type_valid", "room_type IN ('air_conditioner', 'fan')"},
		{"dorms", "dorms_status_valid", "status IN ('pending', 'approved', 'rejected')"},
		{"dorms", "dorms_rates_non_negative", "water_cost >= 0 AND electricity_cost >= 0"},
		{"bill_records", "bill_records_total_non_negative", "total >= 0"},
	}

	for _, d := range ddls {
		if db.Migrator().HasConstraint(d.table, d.name) {
			continue
		}
		ddl := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", d.table, d.name, d.check)
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
