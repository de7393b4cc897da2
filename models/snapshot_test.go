package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedCoin(t *testing.T) {
	for _, coinID := range SupportedCoins {
		assert.True(t, IsSupportedCoin(coinID), coinID)
	}
	assert.False(t, IsSupportedCoin("dogecoin"))
	assert.False(t, IsSupportedCoin(""))
	assert.False(t, IsSupportedCoin("Bitcoin"))
}

func TestCoinSnapshotValidate(t *testing.T) {
	valid := CoinSnapshot{CoinID: "bitcoin", Price: 100, MarketCap: 1000, Change24h: -5}
	assert.NoError(t, valid.Validate(), "negative 24h change is valid")

	tests := []struct {
		name     string
		snapshot CoinSnapshot
	}{
		{"unsupported coin", CoinSnapshot{CoinID: "dogecoin", Price: 1, MarketCap: 1}},
		{"empty coin", CoinSnapshot{Price: 1, MarketCap: 1}},
		{"negative price", CoinSnapshot{CoinID: "ethereum", Price: -0.01, MarketCap: 1}},
		{"negative market cap", CoinSnapshot{CoinID: "ethereum", Price: 1, MarketCap: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.snapshot.Validate())
		})
	}
}

func TestCoinSnapshotTableName(t *testing.T) {
	assert.Equal(t, "coin_stats", CoinSnapshot{}.TableName())
}
