package migrate

import (
	"klinestore.magictradebot.com/models"
)

// Status is the lifecycle state of one migration unit.
type Status string

const (
	StatusPending      Status = "pending"
	StatusSuccess      Status = "success"
	StatusFailed       Status = "failed"
	StatusSkippedEmpty Status = "skipped_empty"
)

// UnitResult is the outcome of one migration unit: a single legacy kline
// table, the stock info set, or the cache replay. Count is the source row
// count; Inserted stays zero in dry runs.
type UnitResult struct {
	Table     string        `json:"table"`
	Market    models.Market `json:"market,omitempty"`
	Code      string        `json:"code,omitempty"`
	Frequency string        `json:"frequency,omitempty"`
	Status    Status        `json:"status"`
	Count     int64         `json:"count"`
	Inserted  int64         `json:"inserted"`
	Error     string        `json:"error,omitempty"`
}

// Report aggregates every unit of one invocation. The shape is identical
// for dry runs and executions; only Inserted differs.
type Report struct {
	Market models.Market `json:"market"`
	DryRun bool          `json:"dry_run"`
	Units  []UnitResult  `json:"units"`
}

func (r *Report) add(u UnitResult) {
	r.Units = append(r.Units, u)
}

// SuccessCount counts units that finished without error, including units
// skipped because their source table was empty or absent.
func (r *Report) SuccessCount() int {
	n := 0
	for _, u := range r.Units {
		if u.Status != StatusFailed {
			n++
		}
	}
	return n
}

// TotalRecords sums the source row counts of all non-failed units.
func (r *Report) TotalRecords() int64 {
	var n int64
	for _, u := range r.Units {
		if u.Status != StatusFailed {
			n += u.Count
		}
	}
	return n
}

// Failed returns the units that ended in failure, with their error text.
func (r *Report) Failed() []UnitResult {
	var out []UnitResult
	for _, u := range r.Units {
		if u.Status == StatusFailed {
			out = append(out, u)
		}
	}
	return out
}
