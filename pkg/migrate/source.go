// Package migrate moves legacy relational kline, stock info and cache data
// into the store, one independently tracked unit at a time.
package migrate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"klinestore.magictradebot.com/models"
)

// Source is a read-only cursor over the legacy database holding the tables
// to migrate.
type Source struct {
	db       *gorm.DB
	provider string
}

// OpenSource connects to the legacy database. Supported providers are
// sqlite and mysql.
func OpenSource(provider, conn string) (*Source, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch provider {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(conn), gormCfg)
	case "mysql":
		db, err = gorm.Open(mysql.Open(conn), gormCfg)
	default:
		return nil, fmt.Errorf("unknown source provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", provider, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("extract sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s source: %w", provider, err)
	}

	return &Source{db: db, provider: provider}, nil
}

func (s *Source) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListKlineTables enumerates legacy tables of one market's namespace,
// sorted by name. The LIKE pattern over-matches (underscore is a wildcard)
// so results are re-checked against the literal prefix, and tables claimed
// by a longer market token are excluded: currency must not pick up
// currency_spot tables.
func (s *Source) ListKlineTables(market models.Market) ([]string, error) {
	prefix := string(market) + "_"
	pattern := prefix + "%"

	var names []string
	var err error
	switch s.provider {
	case "sqlite":
		err = s.db.
			Raw("SELECT name FROM sqlite_master WHERE type='table' AND name LIKE ?", pattern).
			Scan(&names).Error
	case "mysql":
		err = s.db.
			Raw("SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name LIKE ?", pattern).
			Scan(&names).Error
	default:
		return nil, fmt.Errorf("unknown source provider: %s", s.provider)
	}
	if err != nil {
		return nil, fmt.Errorf("list tables for %s: %w", market, err)
	}

	out := names[:0]
	for _, n := range names {
		if strings.HasPrefix(n, prefix) && ownsTable(market, n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ownsTable reports whether a table prefixed by market's token really
// belongs to it. A longer market token forming a prefix of the name wins,
// so currency_spot_* tables stay out of currency's namespace.
func ownsTable(market models.Market, name string) bool {
	for _, m := range models.Markets() {
		if m == market || len(m) <= len(market) {
			continue
		}
		if strings.HasPrefix(name, string(m)+"_") {
			return false
		}
	}
	return true
}

func (s *Source) HasTable(name string) bool {
	return s.db.Migrator().HasTable(name)
}

// CountRows returns the row count of one legacy table.
func (s *Source) CountRows(name string) (int64, error) {
	var n int64
	if err := s.db.Table(name).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

// ReadRows loads a legacy table as generic rows, optionally ordered by a
// column. Values keep whatever Go type the driver produced; the converters
// in this package coerce them into the typed records.
func (s *Source) ReadRows(name, orderBy string) ([]map[string]interface{}, error) {
	tx := s.db.Table(name)
	if orderBy != "" {
		tx = tx.Order(orderBy)
	}
	var rows []map[string]interface{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return rows, nil
}
