package migrate

import (
	"fmt"
	"strconv"
	"time"

	"klinestore.magictradebot.com/models"
)

// ValidationError marks a legacy row that cannot be converted into its
// typed record. It fails the unit containing the row, never the run.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

var legacyTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// toKLine converts one legacy row into a typed bar. code/dt/f/o/c/h/l/v are
// required; amount and open interest default to zero when the source never
// recorded them.
func toKLine(market models.Market, row map[string]interface{}) (models.KLine, error) {
	var k models.KLine
	var err error

	if k.Code, err = stringField(row, "code"); err != nil {
		return k, err
	}
	if k.Time, err = timeField(row, "dt"); err != nil {
		return k, err
	}
	if k.Frequency, err = stringField(row, "f"); err != nil {
		return k, err
	}
	if k.Open, err = floatField(row, "o"); err != nil {
		return k, err
	}
	if k.Close, err = floatField(row, "c"); err != nil {
		return k, err
	}
	if k.High, err = floatField(row, "h"); err != nil {
		return k, err
	}
	if k.Low, err = floatField(row, "l"); err != nil {
		return k, err
	}
	if k.Volume, err = intField(row, "v"); err != nil {
		return k, err
	}
	if k.Amount, err = optionalFloat(row, "a"); err != nil {
		return k, err
	}
	if market.HasOpenInterest() {
		if k.Position, err = optionalFloat(row, "p"); err != nil {
			return k, err
		}
	}
	return k, nil
}

// toStockInfo converts one legacy stock info row. code and name are
// required; every fundamental defaults to zero.
func toStockInfo(row map[string]interface{}) (models.StockInfo, error) {
	var info models.StockInfo
	var err error

	if info.Code, err = stringField(row, "code"); err != nil {
		return info, err
	}
	if info.Name, err = stringField(row, "name"); err != nil {
		return info, err
	}
	info.Industry = optionalString(row, "industry")
	info.Concept = optionalString(row, "concept")

	fundamentals := []struct {
		field string
		dst   *float64
	}{
		{"total_share", &info.TotalShare},
		{"flow_share", &info.FlowShare},
		{"total_assets", &info.TotalAssets},
		{"liquid_assets", &info.LiquidAssets},
		{"fixed_assets", &info.FixedAssets},
		{"reserved", &info.Reserved},
		{"reserved_pershare", &info.ReservedPerShare},
		{"esp", &info.ESP},
		{"bvps", &info.BVPS},
		{"pb", &info.PB},
		{"pe", &info.PE},
		{"undp", &info.UNDP},
		{"perundp", &info.PerUNDP},
		{"rev", &info.Revenue},
		{"profit", &info.Profit},
		{"gpr", &info.GPR},
		{"npr", &info.NPR},
		{"holders", &info.Holders},
	}
	for _, f := range fundamentals {
		if *f.dst, err = optionalFloat(row, f.field); err != nil {
			return info, err
		}
	}
	return info, nil
}

// toCacheEntry converts one legacy cache row, preserving key, value and
// the original expiry deadline.
func toCacheEntry(row map[string]interface{}) (models.CacheEntry, error) {
	var entry models.CacheEntry
	var err error

	if entry.Key, err = stringField(row, "k"); err != nil {
		return entry, err
	}
	entry.Value = optionalString(row, "v")
	if v, ok := row["expire"]; ok && v != nil {
		if entry.Expire, err = intField(row, "expire"); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

func stringField(row map[string]interface{}, field string) (string, error) {
	v, ok := row[field]
	if !ok || v == nil {
		return "", &ValidationError{Field: field, Reason: "missing required field"}
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// optionalString defaults to empty only when the field is absent or NULL.
func optionalString(row map[string]interface{}, field string) string {
	if v, ok := row[field]; !ok || v == nil {
		return ""
	}
	s, _ := stringField(row, field)
	return s
}

func floatField(row map[string]interface{}, field string) (float64, error) {
	v, ok := row[field]
	if !ok || v == nil {
		return 0, &ValidationError{Field: field, Reason: "missing required field"}
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case []byte:
		return parseFloat(field, string(n))
	case string:
		return parseFloat(field, n)
	default:
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("cannot convert %T to float", v)}
	}
}

// optionalFloat defaults to zero only when the field is absent or NULL. A
// present value that does not parse is still a conversion failure and
// fails the unit carrying the row.
func optionalFloat(row map[string]interface{}, field string) (float64, error) {
	if v, ok := row[field]; !ok || v == nil {
		return 0, nil
	}
	return floatField(row, field)
}

func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("unparseable number %q", s)}
	}
	return f, nil
}

func intField(row map[string]interface{}, field string) (int64, error) {
	v, ok := row[field]
	if !ok || v == nil {
		return 0, &ValidationError{Field: field, Reason: "missing required field"}
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return parseInt(field, string(n))
	case string:
		return parseInt(field, n)
	default:
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("cannot convert %T to int", v)}
	}
}

func parseInt(field, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some legacy exports stored volumes as "1.23e+07".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("unparseable number %q", s)}
		}
		return int64(f), nil
	}
	return n, nil
}

func timeField(row map[string]interface{}, field string) (time.Time, error) {
	v, ok := row[field]
	if !ok || v == nil {
		return time.Time{}, &ValidationError{Field: field, Reason: "missing required field"}
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case []byte:
		return parseTime(field, string(t))
	case string:
		return parseTime(field, t)
	case int64:
		return time.Unix(t, 0), nil
	default:
		return time.Time{}, &ValidationError{Field: field, Reason: fmt.Sprintf("cannot convert %T to time", v)}
	}
}

func parseTime(field, s string) (time.Time, error) {
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: field, Reason: fmt.Sprintf("unparseable timestamp %q", s)}
}
