package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RelativeCurrency is the quote currency for all upstream lookups
const RelativeCurrency = "usd"

// DefaultCoinGeckoBaseURL is the production CoinGecko API endpoint
const DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// MarketDataClient is implemented by upstream market data providers.
type MarketDataClient interface {
	Fetch(ctx context.Context, coinID string) (*CoinMarketData, error)
}

// CoinMarketData is the normalized result of one upstream lookup,
// already reduced to the quote currency.
type CoinMarketData struct {
	CoinID    string
	Price     float64
	MarketCap float64
	High24h   float64
	Low24h    float64
}

// Change24h returns the 24h range, high minus low. Negative when the
// upstream reports a low above the high; no clamping.
func (d *CoinMarketData) Change24h() float64 {
	return d.High24h - d.Low24h
}

// coinGeckoResponse covers the subset of the /coins/{id} payload this
// backend consumes. MarketData is a pointer so a payload without it
// can be told apart from one with zero values.
type coinGeckoResponse struct {
	MarketData *struct {
		CurrentPrice map[string]float64 `json:"current_price"`
		MarketCap    map[string]float64 `json:"market_cap"`
		High24h      map[string]float64 `json:"high_24h"`
		Low24h       map[string]float64 `json:"low_24h"`
	} `json:"market_data"`
}

// CoinGeckoClient fetches coin market data from the CoinGecko API.
// One request per call, no retries, no caching.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client. An empty baseURL
// selects the production endpoint.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoBaseURL
	}
	return &CoinGeckoClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch retrieves current market data for coinID. The coin ID is not
// validated locally; an identifier the upstream does not recognize
// comes back as a FetchError carrying the upstream status.
func (c *CoinGeckoClient) Fetch(ctx context.Context, coinID string) (*CoinMarketData, error) {
	url := fmt.Sprintf("%s/coins/%s", c.baseURL, coinID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{CoinID: coinID, Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{CoinID: coinID, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{CoinID: coinID, Reason: fmt.Sprintf("upstream returned %s", resp.Status)}
	}

	var payload coinGeckoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{CoinID: coinID, Reason: "unparseable response", Err: err}
	}
	if payload.MarketData == nil {
		return nil, &FetchError{CoinID: coinID, Reason: "response missing market_data"}
	}

	md := payload.MarketData
	return &CoinMarketData{
		CoinID:    coinID,
		Price:     md.CurrentPrice[RelativeCurrency],
		MarketCap: md.MarketCap[RelativeCurrency],
		High24h:   md.High24h[RelativeCurrency],
		Low24h:    md.Low24h[RelativeCurrency],
	}, nil
}
