package db

import (
	"fmt"
	"strings"

	"klinestore.magictradebot.com/models"
)

// codeSeparator is the only separator allowed inside a symbol code. It is
// substituted with an underscore when forming a table name and restored by
// the migration parser, so the mapping stays reversible.
const codeSeparator = "."

// SchemaError reports a code or table name that cannot be mapped onto the
// kline table namespace.
type SchemaError struct {
	Name   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error for %q: %s", e.Name, e.Reason)
}

// KlineTableName derives the canonical table name for one series:
// <market>_<normalized code>_<frequency>, with every dot in the code
// replaced by an underscore.
//
// Codes must consist of letters, digits and dots only. Underscores in
// particular are rejected: two distinct codes must never normalize to the
// same table name, and an underscore in the raw code would collide with a
// normalized dot.
func KlineTableName(market models.Market, code, frequency string) (string, error) {
	if code == "" {
		return "", &SchemaError{Name: code, Reason: "empty code"}
	}
	if frequency == "" {
		return "", &SchemaError{Name: code, Reason: "empty frequency"}
	}
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case string(r) == codeSeparator:
		default:
			return "", &SchemaError{
				Name:   code,
				Reason: fmt.Sprintf("unsupported character %q in code", r),
			}
		}
	}
	normalized := strings.ReplaceAll(code, codeSeparator, "_")
	return fmt.Sprintf("%s_%s_%s", market, normalized, frequency), nil
}

// EnsureKlineTable creates the backing table for a series with the
// market-appropriate schema when it does not exist yet. Calling it again
// is a no-op for existing compatible tables; it never drops or recreates.
// Two callers racing to create the same table both succeed: the loser's
// create error is ignored once the table is visible.
func (s *Store) EnsureKlineTable(market models.Market, code, frequency string) (string, error) {
	name, err := KlineTableName(market, code, frequency)
	if err != nil {
		return "", err
	}
	if err := s.db.Table(name).AutoMigrate(models.BarModel(market)); err != nil {
		if s.db.Migrator().HasTable(name) {
			return name, nil
		}
		return "", fmt.Errorf("ensure table %s: %w", name, err)
	}
	return name, nil
}

func (s *Store) hasTable(name string) bool {
	return s.db.Migrator().HasTable(name)
}
