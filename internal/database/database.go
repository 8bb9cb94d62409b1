package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"student-manager/internal/store"
)

// InitDB opens the sqlite database backing GormStore and migrates the
// students table. The default DSN is in-memory, so nothing outlives the
// process.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to the database: %w", err)
	}

	// An in-memory sqlite database lives as long as its connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	// Auto-migrate the Student table
	if err := db.AutoMigrate(&store.StudentRow{}); err != nil {
		return nil, fmt.Errorf("auto-migrate the database: %w", err)
	}

	return db, nil
}
