package models

import "time"

// KLine is one OHLCV bar of a symbol at a given frequency. Column names
// mirror the historical layout (dt/o/c/h/l/v/a) so migrated tables stay
// readable from older tooling.
//
// Position carries the futures open interest. Only futures tables have the
// backing column (see FuturesKLine); for every other market the field is
// not persisted and stays zero.
type KLine struct {
	Code      string    `gorm:"column:code;size:30"`
	Time      time.Time `gorm:"column:dt"`
	Frequency string    `gorm:"column:f;size:10"`
	Open      float64   `gorm:"column:o"`
	Close     float64   `gorm:"column:c"`
	High      float64   `gorm:"column:h"`
	Low       float64   `gorm:"column:l"`
	Volume    int64     `gorm:"column:v"`
	Amount    float64   `gorm:"column:a"`
	Position  float64   `gorm:"-"`
}

// FuturesKLine is the storage row for futures tables, where open interest
// (column p) is part of the schema.
type FuturesKLine struct {
	Code      string    `gorm:"column:code;size:30"`
	Time      time.Time `gorm:"column:dt"`
	Frequency string    `gorm:"column:f;size:10"`
	Open      float64   `gorm:"column:o"`
	Close     float64   `gorm:"column:c"`
	High      float64   `gorm:"column:h"`
	Low       float64   `gorm:"column:l"`
	Volume    int64     `gorm:"column:v"`
	Amount    float64   `gorm:"column:a"`
	Position  float64   `gorm:"column:p"`
}

// Futures converts a bar into its futures storage row.
func (k KLine) Futures() FuturesKLine {
	return FuturesKLine{
		Code:      k.Code,
		Time:      k.Time,
		Frequency: k.Frequency,
		Open:      k.Open,
		Close:     k.Close,
		High:      k.High,
		Low:       k.Low,
		Volume:    k.Volume,
		Amount:    k.Amount,
		Position:  k.Position,
	}
}

// Bar converts a futures storage row back into the common bar shape.
func (f FuturesKLine) Bar() KLine {
	return KLine{
		Code:      f.Code,
		Time:      f.Time,
		Frequency: f.Frequency,
		Open:      f.Open,
		Close:     f.Close,
		High:      f.High,
		Low:       f.Low,
		Volume:    f.Volume,
		Amount:    f.Amount,
		Position:  f.Position,
	}
}
