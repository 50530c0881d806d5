package yfinance

import (
	"context"
	"fmt"
	"time"

	"github.com/seenimoa/coinview/internal/provider"
	"github.com/seenimoa/coinview/pkg/models"
)

// --- CryptoHistorical fetcher ---

type cryptoHistoricalFetcher struct {
	provider.BaseFetcher
	baseURL string
}

func newCryptoHistoricalFetcher(baseURL string) *cryptoHistoricalFetcher {
	return &cryptoHistoricalFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelCryptoHistorical,
			"Historical OHLCV bars from the Yahoo Finance chart API",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamRange, provider.ParamInterval},
		),
		baseURL: baseURL,
	}
}

func (f *cryptoHistoricalFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	yfTicker := toYFTicker(symbol)

	rng := params[provider.ParamRange]
	if rng == "" {
		rng = "1mo"
	}
	interval := params[provider.ParamInterval]
	if interval == "" {
		interval = "1d"
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s", f.baseURL, yfTicker, rng, interval)

	var resp yfChartResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance chart %s: %w", yfTicker, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yfinance chart error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: "no chart data for " + yfTicker}
	}

	candles := parseCandles(resp.Chart.Result[0])
	if len(candles) == 0 {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: "chart has no usable bars for " + yfTicker}
	}

	series := models.Series{
		Symbol:  fromYFTicker(yfTicker),
		Candles: candles,
	}
	return newSeriesResult(series), nil
}

// parseCandles converts chart API arrays into candles, preserving nulls.
// Bars where every field is null are dropped.
func parseCandles(result yfChartResult) []models.Candle {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	q := result.Indicators.Quote[0]

	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := models.Candle{Time: time.Unix(ts, 0).UTC()}
		if i < len(q.Open) {
			c.Open = q.Open[i]
		}
		if i < len(q.High) {
			c.High = q.High[i]
		}
		if i < len(q.Low) {
			c.Low = q.Low[i]
		}
		if i < len(q.Close) {
			c.Close = q.Close[i]
		}
		if i < len(q.Volume) {
			c.Volume = q.Volume[i]
		}
		if c.Open == nil && c.High == nil && c.Low == nil && c.Close == nil && c.Volume == nil {
			continue
		}
		candles = append(candles, c)
	}
	return candles
}
