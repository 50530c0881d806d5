package yfinance

import (
	"context"
	"fmt"
	"time"

	"github.com/seenimoa/coinview/internal/provider"
	"github.com/seenimoa/coinview/pkg/models"
	"github.com/seenimoa/coinview/pkg/utils"
)

// --- SpotPrice fetcher ---

type spotPriceFetcher struct {
	provider.BaseFetcher
	baseURL string
}

func newSpotPriceFetcher(baseURL string) *spotPriceFetcher {
	return &spotPriceFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelSpotPrice,
			"Live spot price from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
		),
		baseURL: baseURL,
	}
}

func (f *spotPriceFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	yfTicker := toYFTicker(symbol)

	url := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", f.baseURL, yfTicker)

	var resp yfQuoteResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance quote %s: %w", yfTicker, err)
	}

	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: "no quote for " + yfTicker}
	}

	r := resp.QuoteResponse.Result[0]
	if !utils.FinitePositive(r.RegularMarketPrice) {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: "quote missing regularMarketPrice for " + yfTicker}
	}

	sp := &models.SpotPrice{
		Symbol:   fromYFTicker(r.Symbol),
		Price:    r.RegularMarketPrice,
		Currency: coalesce(r.Currency, "USD"),
	}
	if r.RegularMarketTime > 0 {
		sp.AsOf = time.Unix(r.RegularMarketTime, 0).UTC()
	}

	return newSpotResult(sp), nil
}
