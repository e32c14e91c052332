package db

import (
	"fmt"
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/persistence"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitGorm opens the Postgres connection and migrates the schema.
// TranslateError maps driver-level unique violations onto
// gorm.ErrDuplicatedKey so repositories can classify them.
func InitGorm(dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the five tables. Shared with tests, which run
// it against sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&persistence.UserModel{},
		&persistence.ProjectModel{},
		&persistence.FileModel{},
		&persistence.ThreadModel{},
		&persistence.MessageModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
