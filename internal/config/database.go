package config

import (
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	logrus "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"entregas_tracker/internal/logger"
	"entregas_tracker/internal/models"
)

// DSN builds the key/value connection string shared by pgx and lib/pq.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

// InitDB opens the pooled gorm connection and migrates the schema.
func InitDB(cfg DatabaseConfig) (*gorm.DB, error) {
	pgCfg := postgres.Config{DSN: cfg.DSN()}
	if cfg.Driver == "postgres" {
		// lib/pq instead of the bundled pgx stdlib driver
		pgCfg.DriverName = "postgres"
	}

	db, err := gorm.Open(postgres.New(pgCfg), &gorm.Config{
		Logger: gormlogger.New(logger.GormLogger(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.LocationPing{},
		&models.FaceSample{},
		&models.VerificationAttempt{},
		&models.Route{},
		&models.RouteStop{},
	); err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"driver":    cfg.Driver,
		"host":      cfg.Host,
		"database":  cfg.Name,
		"max_conns": cfg.MaxOpenConns,
	}).Info("Database connected and migrated")
	return db, nil
}
