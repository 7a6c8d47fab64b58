package migrate

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"klinestore.magictradebot.com/models"
	"klinestore.magictradebot.com/pkg/db"
)

// DefaultBatchSize is the bulk-write size used when Options leaves
// BatchSize unset.
const DefaultBatchSize = 1000

// Options selects what one invocation migrates.
type Options struct {
	Market    models.Market
	Codes     []string // optional allow-list of raw codes; empty = all
	BatchSize int
	DryRun    bool
}

// Migrator runs the pipeline: discover legacy tables, convert their rows
// and feed them through the store, tracking each unit's outcome on its own.
type Migrator struct {
	source  *Source
	target  *db.Store
	log     *logrus.Logger
	publish func(UnitResult)
}

func New(source *Source, target *db.Store, log *logrus.Logger) *Migrator {
	return &Migrator{source: source, target: target, log: log}
}

// SetPublisher registers a hook invoked with every finished unit, used to
// stream progress events out of the process.
func (m *Migrator) SetPublisher(fn func(UnitResult)) {
	m.publish = fn
}

// Run migrates one market. Stock info moves first, then every discovered
// kline table, then the cache replay. The cache unit runs exactly once per
// invocation, whatever the market. A failing unit is recorded and the run
// continues; only source enumeration failures abort the invocation.
func (m *Migrator) Run(opts Options) (*Report, error) {
	if !models.IsMarket(string(opts.Market)) {
		return nil, fmt.Errorf("unknown market: %q", opts.Market)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	m.log.WithFields(logrus.Fields{
		"market":    opts.Market,
		"batchSize": opts.BatchSize,
		"dryRun":    opts.DryRun,
		"codes":     len(opts.Codes),
	}).Info("🚚 Migration started")

	report := &Report{Market: opts.Market, DryRun: opts.DryRun}

	m.finish(report, m.migrateStockInfo(opts))

	tables, err := m.source.ListKlineTables(opts.Market)
	if err != nil {
		return nil, err
	}
	m.log.Infof("🔍 Found %d kline tables for market %s", len(tables), opts.Market)

	allowed := make(map[string]bool, len(opts.Codes))
	for _, c := range opts.Codes {
		allowed[c] = true
	}

	for _, table := range tables {
		code, frequency, err := parseKlineTableName(opts.Market, table)
		if err != nil {
			// Under a code filter an unparseable table cannot be matched
			// against the allow-list, so it is dropped like any other
			// non-matching table instead of being reported.
			if len(allowed) > 0 {
				m.log.WithField("table", table).Warnf("⚠️ Skipping unparseable table under code filter: %v", err)
				continue
			}
			m.finish(report, UnitResult{
				Table:  table,
				Market: opts.Market,
				Status: StatusFailed,
				Error:  err.Error(),
			})
			continue
		}
		if len(allowed) > 0 && !allowed[code] {
			continue
		}
		if !models.IsFrequency(frequency) {
			m.log.WithFields(logrus.Fields{
				"table":     table,
				"frequency": frequency,
			}).Warn("⚠️ Unknown frequency token, migrating anyway")
		}
		m.finish(report, m.migrateKlines(opts, table, code, frequency))
	}

	m.finish(report, m.migrateCache(opts))

	m.log.WithFields(logrus.Fields{
		"success": report.SuccessCount(),
		"units":   len(report.Units),
		"records": report.TotalRecords(),
		"failed":  len(report.Failed()),
	}).Info("🏁 Migration finished")
	for _, u := range report.Failed() {
		m.log.WithField("table", u.Table).Errorf("❌ Unit failed: %s", u.Error)
	}

	return report, nil
}

// finish records a unit outcome and hands it to the progress publisher.
func (m *Migrator) finish(report *Report, u UnitResult) {
	report.add(u)
	if m.publish != nil {
		m.publish(u)
	}
}

// parseKlineTableName inverts KlineTableName for discovered legacy tables:
// strip the market prefix, take the last segment as frequency and rejoin
// the middle as the code, restoring underscores to dots. Multi-word market
// tokens (currency_spot, ny_futures) are handled by stripping the known
// prefix instead of splitting blindly.
func parseKlineTableName(market models.Market, table string) (code, frequency string, err error) {
	prefix := string(market) + "_"
	rest, ok := strings.CutPrefix(table, prefix)
	if !ok {
		return "", "", &db.SchemaError{Name: table, Reason: "missing market prefix"}
	}
	parts := strings.Split(rest, "_")
	if len(parts) < 2 {
		return "", "", &db.SchemaError{Name: table, Reason: "expected <market>_<code>_<frequency>"}
	}
	frequency = parts[len(parts)-1]
	code = strings.Join(parts[:len(parts)-1], "_")
	code = strings.ReplaceAll(code, "_", ".")
	return code, frequency, nil
}

func (m *Migrator) migrateKlines(opts Options, table, code, frequency string) UnitResult {
	unit := UnitResult{
		Table:     table,
		Market:    opts.Market,
		Code:      code,
		Frequency: frequency,
		Status:    StatusPending,
	}

	if opts.DryRun {
		count, err := m.source.CountRows(table)
		if err != nil {
			return failed(unit, err)
		}
		unit.Count = count
		unit.Status = StatusSuccess
		m.log.WithFields(logrus.Fields{"table": table, "count": count}).Info("📋 Dry run: counted")
		return unit
	}

	rows, err := m.source.ReadRows(table, "dt")
	if err != nil {
		return failed(unit, err)
	}
	if len(rows) == 0 {
		unit.Status = StatusSkippedEmpty
		m.log.WithField("table", table).Info("📭 Table empty, skipped")
		return unit
	}

	klines := make([]models.KLine, 0, len(rows))
	for _, row := range rows {
		k, err := toKLine(opts.Market, row)
		if err != nil {
			return failed(unit, fmt.Errorf("convert row of %s: %w", table, err))
		}
		klines = append(klines, k)
	}

	total := int64(len(klines))
	var inserted int64
	for start := 0; start < len(klines); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(klines) {
			end = len(klines)
		}
		if err := m.target.KlinesInsert(opts.Market, code, frequency, klines[start:end]); err != nil {
			unit.Inserted = inserted
			return failed(unit, err)
		}
		inserted += int64(end - start)
		m.log.WithFields(logrus.Fields{
			"table":    table,
			"inserted": inserted,
			"total":    total,
		}).Infof("  progress: %.1f%%", float64(inserted)/float64(total)*100)
	}

	unit.Count = total
	unit.Inserted = inserted
	unit.Status = StatusSuccess
	return unit
}

func (m *Migrator) migrateStockInfo(opts Options) UnitResult {
	table := "cl_stock_info_" + string(opts.Market)
	unit := UnitResult{Table: table, Market: opts.Market, Status: StatusPending}

	if !m.source.HasTable(table) {
		unit.Status = StatusSkippedEmpty
		m.log.WithField("table", table).Info("📭 Stock info table absent, skipped")
		return unit
	}

	if opts.DryRun {
		count, err := m.source.CountRows(table)
		if err != nil {
			return failed(unit, err)
		}
		unit.Count = count
		unit.Status = StatusSuccess
		return unit
	}

	rows, err := m.source.ReadRows(table, "")
	if err != nil {
		return failed(unit, err)
	}
	if len(rows) == 0 {
		unit.Status = StatusSkippedEmpty
		return unit
	}

	infos := make([]models.StockInfo, 0, len(rows))
	for _, row := range rows {
		info, err := toStockInfo(row)
		if err != nil {
			return failed(unit, fmt.Errorf("convert row of %s: %w", table, err))
		}
		infos = append(infos, info)
	}

	if err := m.target.StockInfoReplace(opts.Market, infos); err != nil {
		return failed(unit, err)
	}
	unit.Count = int64(len(infos))
	unit.Inserted = int64(len(infos))
	unit.Status = StatusSuccess
	m.log.WithFields(logrus.Fields{"table": table, "count": unit.Count}).Info("✅ Stock info migrated")
	return unit
}

// migrateCache replays every legacy cache row through CacheSet so the
// original key, value and expiry survive verbatim.
func (m *Migrator) migrateCache(opts Options) UnitResult {
	const table = "cl_cache"
	unit := UnitResult{Table: table, Status: StatusPending}

	if !m.source.HasTable(table) {
		unit.Status = StatusSkippedEmpty
		m.log.WithField("table", table).Info("📭 Cache table absent, skipped")
		return unit
	}

	if opts.DryRun {
		count, err := m.source.CountRows(table)
		if err != nil {
			return failed(unit, err)
		}
		unit.Count = count
		unit.Status = StatusSuccess
		return unit
	}

	rows, err := m.source.ReadRows(table, "")
	if err != nil {
		return failed(unit, err)
	}
	if len(rows) == 0 {
		unit.Status = StatusSkippedEmpty
		return unit
	}

	var inserted int64
	for _, row := range rows {
		entry, err := toCacheEntry(row)
		if err != nil {
			return failed(unit, fmt.Errorf("convert row of %s: %w", table, err))
		}
		if err := m.target.CacheSet(entry.Key, entry.Value, entry.Expire); err != nil {
			unit.Inserted = inserted
			return failed(unit, err)
		}
		inserted++
	}

	unit.Count = int64(len(rows))
	unit.Inserted = inserted
	unit.Status = StatusSuccess
	m.log.WithFields(logrus.Fields{"table": table, "count": unit.Count}).Info("✅ Cache migrated")
	return unit
}

func failed(unit UnitResult, err error) UnitResult {
	unit.Status = StatusFailed
	unit.Error = err.Error()
	return unit
}
