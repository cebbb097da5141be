package persistence

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jackyeh168/credit_ledger/src/internal/config"
	"github.com/jackyeh168/credit_ledger/src/internal/infrastructure/logging"
	cardstore "github.com/jackyeh168/credit_ledger/src/internal/infrastructure/persistence/card"
	creditstore "github.com/jackyeh168/credit_ledger/src/internal/infrastructure/persistence/credit"
)

// Open 依設定開啟 GORM 連線（sqlite 或 postgres）
func Open(cfg config.DBConfig, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGORMLogger(logger, cfg.LogSQL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.PoolSize > 0 {
		sqlDB.SetMaxOpenConns(cfg.PoolSize)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite 只允許單一寫入者
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// AutoMigrate 建立所有資料表
func AutoMigrate(db *gorm.DB) error {
	if err := cardstore.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate cards: %w", err)
	}
	if err := creditstore.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate credits: %w", err)
	}
	return nil
}

// Close 關閉底層連線
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
