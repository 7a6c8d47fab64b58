package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMarket(t *testing.T) {
	for _, m := range Markets() {
		assert.True(t, IsMarket(string(m)))
	}
	assert.False(t, IsMarket("nasdaq"))
	assert.False(t, IsMarket(""))
}

func TestOpenInterestIsMarketKeyed(t *testing.T) {
	assert.True(t, MarketFutures.HasOpenInterest())
	for _, m := range Markets() {
		if m == MarketFutures {
			continue
		}
		assert.False(t, m.HasOpenInterest(), string(m))
	}

	_, futures := BarModel(MarketFutures).(*FuturesKLine)
	assert.True(t, futures)
	_, base := BarModel(MarketA).(*KLine)
	assert.True(t, base)
}

func TestFuturesRowRoundTrip(t *testing.T) {
	k := KLine{Code: "RB2110", Frequency: "d", Open: 1, Close: 2, High: 3, Low: 0.5, Volume: 10, Amount: 20, Position: 7}
	assert.Equal(t, k, k.Futures().Bar())
}

func TestFrequencies(t *testing.T) {
	for _, f := range Frequencies {
		assert.True(t, IsFrequency(f), f)
	}
	assert.False(t, IsFrequency("10m"))
	assert.Equal(t, "daily", FrequencyLabel("d"))
	assert.Equal(t, "??", FrequencyLabel("??"))
}
