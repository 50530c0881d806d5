package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/seenimoa/coinview/internal/provider"
	"github.com/seenimoa/coinview/pkg/models"
	"github.com/seenimoa/coinview/pkg/utils"
)

// requestTimeout bounds a single exchange-rate call.
const requestTimeout = 10 * time.Second

// --- SpotPrice fetcher ---

type spotPriceFetcher struct {
	provider.BaseFetcher
	baseURL string
}

func newSpotPriceFetcher(baseURL string) *spotPriceFetcher {
	return &spotPriceFetcher{
		BaseFetcher: provider.NewBaseFetcher(
			provider.ModelSpotPrice,
			"Realtime crypto-to-USD exchange rate from Alpha Vantage",
			[]string{provider.ParamSymbol},
			nil,
		),
		baseURL: baseURL,
	}
}

func (f *spotPriceFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := utils.FromPair(params[provider.ParamSymbol])
	apiKey := params[paramAPIKey]

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reqURL := fmt.Sprintf(
		"%s/query?function=CURRENCY_EXCHANGE_RATE&from_currency=%s&to_currency=USD&apikey=%s",
		f.baseURL, url.QueryEscape(symbol), url.QueryEscape(apiKey),
	)

	var resp avExchangeRateResponse
	if err := fetchAVJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("alphavantage exchange rate %s: %w", symbol, err)
	}

	// The API reports throttling and bad requests as 200s with a message
	// body instead of the rate object.
	if resp.Note != "" {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: "rate limited: " + resp.Note}
	}
	if resp.Information != "" {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: resp.Information}
	}
	if resp.ErrorMessage != "" {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: resp.ErrorMessage}
	}
	if resp.RealtimeCurrencyExchangeRate == nil {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: "exchange rate object missing for " + symbol}
	}

	rate := resp.RealtimeCurrencyExchangeRate
	price, ok := utils.ToFloat(rate.ExchangeRate)
	if !ok || !utils.FinitePositive(price) {
		return nil, &provider.ErrNoData{Provider: providerName, Detail: "unparseable exchange rate " + rate.ExchangeRate}
	}

	sp := &models.SpotPrice{
		Symbol:   symbol,
		Price:    price,
		Currency: "USD",
		SourceTS: rate.LastRefreshed,
	}
	if ts, err := utils.ParseStamp(rate.LastRefreshed); err == nil {
		sp.AsOf = ts
	}

	return &provider.FetchResult{Data: sp}, nil
}
