package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crypto_stats_backend/models"
	"crypto_stats_backend/routes"
	"crypto_stats_backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	data  map[string]*services.CoinMarketData
	calls int
}

func (c *stubClient) Fetch(ctx context.Context, coinID string) (*services.CoinMarketData, error) {
	c.calls++
	data, ok := c.data[coinID]
	if !ok {
		return nil, &services.FetchError{CoinID: coinID, Reason: "upstream returned 404 Not Found"}
	}
	return data, nil
}

type stubStore struct {
	snapshots map[string][]models.CoinSnapshot
}

func (s *stubStore) Append(ctx context.Context, snapshot *models.CoinSnapshot) error {
	return nil
}

func (s *stubStore) Recent(ctx context.Context, coinID string, limit int) ([]models.CoinSnapshot, error) {
	stored := s.snapshots[coinID]
	if len(stored) > limit {
		stored = stored[:limit]
	}
	return stored, nil
}

func (s *stubStore) Ping(ctx context.Context) error  { return nil }
func (s *stubStore) Close(ctx context.Context) error { return nil }

func newTestRouter(client services.MarketDataClient, store services.SnapshotStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.SetupRoutes(router, client, store)
	return router
}

func snapshotsWithPrices(coinID string, prices ...float64) map[string][]models.CoinSnapshot {
	snapshots := make(map[string][]models.CoinSnapshot)
	now := time.Now().UTC()
	for i, p := range prices {
		snapshots[coinID] = append(snapshots[coinID], models.CoinSnapshot{
			CoinID:    coinID,
			Price:     p,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return snapshots
}

func TestGetStats_MissingCoin(t *testing.T) {
	client := &stubClient{}
	router := newTestRouter(client, &stubStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Coin is required")
	assert.Zero(t, client.calls, "no outbound call without a coin parameter")
}

func TestGetStats_Success(t *testing.T) {
	client := &stubClient{data: map[string]*services.CoinMarketData{
		"bitcoin": {CoinID: "bitcoin", Price: 40000, MarketCap: 800000000000, High24h: 41000, Low24h: 39500},
	}}
	router := newTestRouter(client, &stubStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats?coin=bitcoin", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"price":40000`)
	assert.Contains(t, body, `"market_cap":800000000000`)
	assert.Contains(t, body, `"24hChange":1500`)
}

func TestGetStats_CoinFromJSONBody(t *testing.T) {
	client := &stubClient{data: map[string]*services.CoinMarketData{
		"bitcoin": {CoinID: "bitcoin", Price: 40000, High24h: 41000, Low24h: 39500},
	}}
	router := newTestRouter(client, &stubStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", strings.NewReader(`{"coin":"bitcoin"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, client.calls)
}

func TestGetStats_UpstreamFailure(t *testing.T) {
	router := newTestRouter(&stubClient{}, &stubStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats?coin=unknown-coin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Error fetching data from CoinGecko API")
}

func TestGetDeviation_InvalidCoin(t *testing.T) {
	store := &stubStore{snapshots: snapshotsWithPrices("dogecoin", 1, 2, 3)}
	router := newTestRouter(&stubClient{}, store)

	// Records exist under the identifier but it is outside the
	// supported set, so validation still rejects it
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/deviation?coin=dogecoin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or missing coin parameter.")
}

func TestGetDeviation_MissingCoin(t *testing.T) {
	router := newTestRouter(&stubClient{}, &stubStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/deviation", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDeviation_NoRecords(t *testing.T) {
	router := newTestRouter(&stubClient{}, &stubStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/deviation?coin=bitcoin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No records found for the requested coin.")
}

func TestGetDeviation_Success(t *testing.T) {
	store := &stubStore{snapshots: snapshotsWithPrices("bitcoin", 10, 20, 30, 40)}
	router := newTestRouter(&stubClient{}, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/deviation?coin=bitcoin", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deviation":"11.18"}`, w.Body.String())
}

func TestGetDeviation_SingleRecord(t *testing.T) {
	store := &stubStore{snapshots: snapshotsWithPrices("ethereum", 2500)}
	router := newTestRouter(&stubClient{}, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/deviation?coin=ethereum", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deviation":"0.00"}`, w.Body.String())
}
