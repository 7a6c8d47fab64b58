package db

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klinestore.magictradebot.com/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store, err := Open("sqlite", filepath.Join(t.TempDir(), "store.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func barAt(code, frequency string, ts time.Time, open float64) models.KLine {
	return models.KLine{
		Code:      code,
		Time:      ts,
		Frequency: frequency,
		Open:      open,
		Close:     open + 1,
		High:      open + 2,
		Low:       open - 1,
		Volume:    1000,
		Amount:    open * 1000,
	}
}

func TestKlineTableName(t *testing.T) {
	name, err := KlineTableName(models.MarketA, "600000.SH", "d")
	require.NoError(t, err)
	assert.Equal(t, "a_600000_SH_d", name)

	name, err = KlineTableName(models.MarketFutures, "QS.RB2110", "30m")
	require.NoError(t, err)
	assert.Equal(t, "futures_QS_RB2110_30m", name)

	// Deterministic.
	again, err := KlineTableName(models.MarketFutures, "QS.RB2110", "30m")
	require.NoError(t, err)
	assert.Equal(t, name, again)
}

func TestKlineTableNameRejectsAmbiguousCodes(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"underscore collides with normalized dot", "600000_SH"},
		{"slash", "BTC/USDT"},
		{"dash", "BTC-USDT"},
		{"space", "600000 SH"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := KlineTableName(models.MarketA, tc.code, "d")
			require.Error(t, err)
			var schemaErr *SchemaError
			assert.ErrorAs(t, err, &schemaErr)
		})
	}

	_, err := KlineTableName(models.MarketA, "600000.SH", "")
	assert.Error(t, err)
}

func TestEnsureKlineTableIdempotent(t *testing.T) {
	store := newTestStore(t)

	name, err := store.EnsureKlineTable(models.MarketA, "600000.SH", "d")
	require.NoError(t, err)
	assert.True(t, store.hasTable(name))

	ts := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	bars := []models.KLine{barAt("600000.SH", "d", ts, 10)}
	require.NoError(t, store.KlinesInsert(models.MarketA, "600000.SH", "d", bars))

	// A second ensure must leave existing rows untouched.
	again, err := store.EnsureKlineTable(models.MarketA, "600000.SH", "d")
	require.NoError(t, err)
	assert.Equal(t, name, again)

	got, err := store.KlinesQuery(models.MarketA, "600000.SH", "d", KlineQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
