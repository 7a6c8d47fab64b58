// Package db implements the historical bar store: one physical table per
// (market, code, frequency) kline series plus the fixed cl_cache and
// cl_stock_info tables, all behind a single gorm handle.
package db

import (
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"klinestore.magictradebot.com/models"
)

// Store owns one database connection. Callers construct it with Open and
// are responsible for Close; there is no package-level instance.
type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

// Open connects to the configured provider, verifies connectivity and
// ensures the fixed cache and stock info tables exist. Connectivity
// failures are returned to the caller and abort whatever invoked Open.
func Open(provider, conn string, log *logrus.Logger) (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch provider {
	case "sqlite":
		if _, statErr := os.Stat(conn); os.IsNotExist(statErr) {
			log.Warnf("⚠️  SQLite DB file '%s' does not exist. Will be created on first write.", conn)
		}
		db, err = gorm.Open(sqlite.Open(conn), gormCfg)
	case "postgresql":
		db, err = gorm.Open(postgres.Open(conn), gormCfg)
	default:
		return nil, fmt.Errorf("unknown DB provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", provider, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("extract sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s store: %w", provider, err)
	}

	// Fixed tables. AutoMigrate is create-if-absent and never drops data.
	if err := db.AutoMigrate(&models.CacheEntry{}, &models.StockInfo{}); err != nil {
		return nil, fmt.Errorf("migrate fixed tables: %w", err)
	}

	log.WithField("provider", provider).Info("✅ Store connected")
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
