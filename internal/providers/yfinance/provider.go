// Package yfinance implements the Yahoo Finance data provider.
// It wraps Yahoo Finance's public APIs (v7 quote, v8 chart) into the
// standard provider/fetcher framework.
//
// Yahoo Finance is a free, no-API-key provider. Crypto pairs are quoted
// against USD using the BTC-USD ticker convention.
package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/seenimoa/coinview/internal/infra"
	"github.com/seenimoa/coinview/internal/provider"
	"github.com/seenimoa/coinview/pkg/models"
	"github.com/seenimoa/coinview/pkg/utils"
)

const (
	providerName = "yfinance"
	baseURL      = "https://query1.finance.yahoo.com"
)

// Provider implements provider.Provider for Yahoo Finance.
type Provider struct {
	provider.BaseProvider
}

// New creates a new YFinance provider and registers all fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"yFinance",
			"Yahoo Finance - free spot prices and OHLCV history",
			"https://finance.yahoo.com",
			nil, // no credentials required
		),
	}

	// --- Crypto / Price ---
	p.RegisterFetcher(newSpotPriceFetcher(baseURL))
	p.RegisterFetcher(newCryptoHistoricalFetcher(baseURL))

	return p
}

// Ping checks connectivity to Yahoo Finance.
func (p *Provider) Ping(ctx context.Context) error {
	url := baseURL + "/v7/finance/quote?symbols=BTC-USD"
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return fmt.Errorf("yfinance ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// fetchJSON performs a GET request and decodes the response into dest.
func fetchJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// toYFTicker converts a crypto symbol to Yahoo Finance pair format.
func toYFTicker(symbol string) string {
	// Already a pair ticker like BTC-USD, leave it.
	if strings.Contains(symbol, "-") {
		return symbol
	}
	return utils.ToPair(symbol)
}

// fromYFTicker converts a Yahoo Finance pair ticker back to the bare symbol.
func fromYFTicker(yfTicker string) string {
	return utils.FromPair(yfTicker)
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// newSpotResult wraps a spot price in a FetchResult.
func newSpotResult(sp *models.SpotPrice) *provider.FetchResult {
	return &provider.FetchResult{Data: sp}
}

// newSeriesResult wraps a candle series in a FetchResult.
func newSeriesResult(s models.Series) *provider.FetchResult {
	return &provider.FetchResult{Data: s}
}
