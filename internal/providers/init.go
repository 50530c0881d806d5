// Package providers initializes and registers all concrete data providers
// with the global provider registry.
package providers

import (
	"os"

	"github.com/seenimoa/coinview/internal/provider"
	"github.com/seenimoa/coinview/internal/providers/alphavantage"
	"github.com/seenimoa/coinview/internal/providers/yfinance"
)

// RegisterAll creates and registers all available providers with the
// global registry. avAPIKey is the Alpha Vantage key resolved from
// configuration; when empty, the ALPHAVANTAGE_API_KEY environment
// variable is consulted before skipping the provider.
func RegisterAll(avAPIKey string) error {
	return RegisterAllTo(provider.Global(), avAPIKey)
}

// RegisterAllTo registers all available providers to the given registry.
// Registration order sets the spot price trust order: Alpha Vantage is
// consulted first when a key is present, Yahoo Finance is the fallback.
func RegisterAllTo(reg *provider.Registry, avAPIKey string) error {
	// --- Alpha Vantage (requires API key) ---
	if avAPIKey == "" {
		avAPIKey = os.Getenv("ALPHAVANTAGE_API_KEY")
	}
	if avAPIKey != "" {
		av := alphavantage.New()
		if err := av.Init(map[string]string{"api_key": avAPIKey}); err != nil {
			return err
		}
		if err := reg.Register(av); err != nil {
			return err
		}
	}

	// --- YFinance (free, no API key) ---
	yf := yfinance.New()
	if err := yf.Init(nil); err != nil {
		return err
	}
	if err := reg.Register(yf); err != nil {
		return err
	}

	return nil
}
