// Package alphavantage implements the Alpha Vantage data provider.
// Crypto spot prices come from the CURRENCY_EXCHANGE_RATE endpoint, which
// treats each coin as a currency quoted against USD.
//
// Requires a free API key from https://www.alphavantage.co/support/#api-key
// Free tier rate limit: 25 requests/day.
// Docs: https://www.alphavantage.co/documentation/
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/seenimoa/coinview/internal/infra"
	"github.com/seenimoa/coinview/internal/provider"
)

const (
	providerName = "alphavantage"
	baseURL      = "https://www.alphavantage.co"
	credAPIKey   = "api_key"

	// paramAPIKey is the internal param the Fetcher wrapper injects.
	paramAPIKey = "_av_api_key"
)

// Provider implements provider.Provider for Alpha Vantage.
type Provider struct {
	provider.BaseProvider
	apiKey string
}

// New creates a new Alpha Vantage provider and registers all fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Alpha Vantage",
			"Alpha Vantage - realtime currency and crypto exchange rates",
			"https://www.alphavantage.co",
			[]provider.ProviderCredential{
				{
					Name:        credAPIKey,
					Description: "Alpha Vantage API key from alphavantage.co",
					Required:    true,
					EnvVar:      "ALPHAVANTAGE_API_KEY",
				},
			},
		),
	}

	// --- Crypto / Price ---
	p.RegisterFetcher(newSpotPriceFetcher(baseURL))

	return p
}

// Init stores the API key.
func (p *Provider) Init(credentials map[string]string) error {
	if err := p.BaseProvider.Init(credentials); err != nil {
		return err
	}
	p.apiKey = credentials[credAPIKey]
	return nil
}

// Ping checks connectivity to the Alpha Vantage API.
func (p *Provider) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/query?function=CURRENCY_EXCHANGE_RATE&from_currency=BTC&to_currency=USD&apikey=%s", baseURL, p.apiKey)
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return fmt.Errorf("alphavantage ping: %w", err)
	}
	body.Close()
	return nil
}

// APIKey returns the stored API key.
func (p *Provider) APIKey() string {
	return p.apiKey
}

// Fetcher overrides BaseProvider.Fetcher to return a wrapper that
// auto-injects the API key into query params before delegating.
func (p *Provider) Fetcher(model provider.ModelType) provider.Fetcher {
	inner := p.BaseProvider.Fetcher(model)
	if inner == nil {
		return nil
	}
	return &apiKeyInjector{inner: inner, apiKey: &p.apiKey}
}

// apiKeyInjector wraps a Fetcher and injects the Alpha Vantage API key.
type apiKeyInjector struct {
	inner  provider.Fetcher
	apiKey *string
}

func (w *apiKeyInjector) ModelType() provider.ModelType { return w.inner.ModelType() }
func (w *apiKeyInjector) Description() string           { return w.inner.Description() }
func (w *apiKeyInjector) RequiredParams() []string      { return w.inner.RequiredParams() }
func (w *apiKeyInjector) OptionalParams() []string      { return w.inner.OptionalParams() }

func (w *apiKeyInjector) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	enriched := make(provider.QueryParams, len(params)+1)
	for k, v := range params {
		enriched[k] = v
	}
	enriched[paramAPIKey] = *w.apiKey
	return w.inner.Fetch(ctx, enriched)
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// fetchAVJSON performs a GET request to the Alpha Vantage API and decodes JSON.
func fetchAVJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read Alpha Vantage response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse Alpha Vantage JSON: %w", err)
	}
	return nil
}
