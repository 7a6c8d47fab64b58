package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"klinestore.magictradebot.com/models"
)

// KlineQuery narrows a series read. Zero times mean unbounded; bounds are
// applied at calendar-day granularity (a bound selects whole days, the end
// day included). Limit zero means no cap.
type KlineQuery struct {
	Start time.Time
	End   time.Time
	Limit int
	Desc  bool
}

// KlinesInsert appends bars to the series table as one bulk statement,
// creating the table first when needed. Empty input is a no-op.
//
// The store does not deduplicate by timestamp: re-inserting an overlapping
// range produces duplicate rows. Incremental writers are expected to query
// KlinesLastTime and only append newer bars.
func (s *Store) KlinesInsert(market models.Market, code, frequency string, klines []models.KLine) error {
	if len(klines) == 0 {
		return nil
	}
	name, err := s.EnsureKlineTable(market, code, frequency)
	if err != nil {
		return err
	}

	if market.HasOpenInterest() {
		rows := make([]models.FuturesKLine, 0, len(klines))
		for _, k := range klines {
			rows = append(rows, k.Futures())
		}
		if err := s.db.Table(name).Create(&rows).Error; err != nil {
			return fmt.Errorf("insert %d bars into %s: %w", len(rows), name, err)
		}
		return nil
	}

	if err := s.db.Table(name).Create(&klines).Error; err != nil {
		return fmt.Errorf("insert %d bars into %s: %w", len(klines), name, err)
	}
	return nil
}

// KlinesQuery reads bars from one series, ordered by timestamp. A missing
// table yields an empty result, not an error.
func (s *Store) KlinesQuery(market models.Market, code, frequency string, q KlineQuery) ([]models.KLine, error) {
	name, err := KlineTableName(market, code, frequency)
	if err != nil {
		return nil, err
	}
	if !s.hasTable(name) {
		return []models.KLine{}, nil
	}

	tx := s.db.Table(name)
	if !q.Start.IsZero() {
		tx = tx.Where("dt >= ?", dayFloor(q.Start))
	}
	if !q.End.IsZero() {
		tx = tx.Where("dt < ?", dayFloor(q.End).AddDate(0, 0, 1))
	}
	if q.Desc {
		tx = tx.Order("dt desc")
	} else {
		tx = tx.Order("dt asc")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	if market.HasOpenInterest() {
		var rows []models.FuturesKLine
		if err := tx.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("query %s: %w", name, err)
		}
		out := make([]models.KLine, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Bar())
		}
		return out, nil
	}

	var out []models.KLine
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	return out, nil
}

// KlinesLastTime returns the newest bar timestamp of a series. The second
// return is false when the table is absent or empty. Incremental sync
// fetches only bars newer than this.
func (s *Store) KlinesLastTime(market models.Market, code, frequency string) (time.Time, bool, error) {
	name, err := KlineTableName(market, code, frequency)
	if err != nil {
		return time.Time{}, false, err
	}
	if !s.hasTable(name) {
		return time.Time{}, false, nil
	}

	var ts []time.Time
	if err := s.db.Table(name).Order("dt desc").Limit(1).Pluck("dt", &ts).Error; err != nil {
		return time.Time{}, false, fmt.Errorf("last timestamp of %s: %w", name, err)
	}
	if len(ts) == 0 {
		return time.Time{}, false, nil
	}
	return ts[0], true, nil
}

// KlinesDrop removes a whole series table. Absent tables are a no-op.
func (s *Store) KlinesDrop(market models.Market, code, frequency string) error {
	name, err := KlineTableName(market, code, frequency)
	if err != nil {
		return err
	}
	if !s.hasTable(name) {
		return nil
	}
	s.log.WithFields(logrus.Fields{"table": name}).Warn("🗑️ Dropping kline table")
	return s.db.Migrator().DropTable(name)
}

// dayFloor truncates a timestamp to midnight of its calendar day.
func dayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
