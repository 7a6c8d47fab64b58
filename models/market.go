package models

// Market is the trading venue/category a series belongs to. It decides the
// bar schema variant and the table namespace prefix.
type Market string

const (
	MarketA            Market = "a"             // China A-share
	MarketHK           Market = "hk"            // Hong Kong
	MarketUS           Market = "us"            // US equity
	MarketFutures      Market = "futures"       // domestic futures
	MarketCurrency     Market = "currency"      // crypto contracts
	MarketCurrencySpot Market = "currency_spot" // crypto spot
	MarketFX           Market = "fx"            // forex
	MarketNYFutures    Market = "ny_futures"    // New York futures
)

// Markets lists every supported market token in a stable order.
func Markets() []Market {
	return []Market{
		MarketA, MarketHK, MarketUS, MarketFutures,
		MarketCurrency, MarketCurrencySpot, MarketFX, MarketNYFutures,
	}
}

func IsMarket(s string) bool {
	for _, m := range Markets() {
		if string(m) == s {
			return true
		}
	}
	return false
}

// HasOpenInterest reports whether bars of this market persist the open
// interest column. Presence is decided by the market alone, never per row.
func (m Market) HasOpenInterest() bool {
	return m == MarketFutures
}

// BarModel returns the gorm model describing the bar schema for the market.
func BarModel(m Market) interface{} {
	if m.HasOpenInterest() {
		return &FuturesKLine{}
	}
	return &KLine{}
}
