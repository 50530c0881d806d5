// Package datasource composes provider fetches into the resolved payloads
// the API and CLI serve: quotes with provenance, windowed candle series,
// chart and metrics summaries, and combined dashboards. Resolution methods
// never return errors; when every source is exhausted they settle on
// terminal values (nil price, empty series) that callers render as
// unavailable.
package datasource

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/coinview/internal/analysis"
	"github.com/seenimoa/coinview/internal/catalog"
	"github.com/seenimoa/coinview/internal/provider"
	"github.com/seenimoa/coinview/pkg/models"
	"github.com/seenimoa/coinview/pkg/utils"
)

// ProvenanceUnavailable labels a terminal quote that no source could price.
const ProvenanceUnavailable = "Data unavailable"

// Tuning holds the aggregator's resolution knobs.
type Tuning struct {
	QuoteTimeout time.Duration // budget per quote resolution stage
	StaleTailMax time.Duration // oldest close the historical tail may serve
	Attempts     int           // series fetch attempts before settling on empty
	RetryBackoff time.Duration // pause between series attempts
}

// DefaultTuning returns the stock resolution knobs.
func DefaultTuning() Tuning {
	return Tuning{
		QuoteTimeout: 10 * time.Second,
		StaleTailMax: 24 * time.Hour,
		Attempts:     2,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// Aggregator resolves asset data through the provider registry. Quote
// resolution walks a fixed trust ladder (exchange-rate feed, live market
// quote, historical tail); series fetches retry transient failures. It
// holds no cache: every call goes back upstream.
type Aggregator struct {
	registry *provider.Registry
	catalog  *catalog.Catalog

	quoteTimeout time.Duration // budget per resolution stage
	staleTailMax time.Duration // oldest close the historical tail may serve
	attempts     int           // series fetch attempts before settling on empty
	retryBackoff time.Duration // pause between series attempts
}

// NewAggregator creates an aggregator over the given registry and catalog.
// A nil registry falls back to the global one, a nil catalog to the
// default asset set.
func NewAggregator(reg *provider.Registry, cat *catalog.Catalog) *Aggregator {
	return NewAggregatorWithTuning(reg, cat, DefaultTuning())
}

// NewAggregatorWithTuning creates an aggregator with explicit resolution
// knobs. Non-positive fields fall back to their defaults.
func NewAggregatorWithTuning(reg *provider.Registry, cat *catalog.Catalog, tun Tuning) *Aggregator {
	if reg == nil {
		reg = provider.Global()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	def := DefaultTuning()
	if tun.QuoteTimeout <= 0 {
		tun.QuoteTimeout = def.QuoteTimeout
	}
	if tun.StaleTailMax <= 0 {
		tun.StaleTailMax = def.StaleTailMax
	}
	if tun.Attempts <= 0 {
		tun.Attempts = def.Attempts
	}
	if tun.RetryBackoff <= 0 {
		tun.RetryBackoff = def.RetryBackoff
	}
	return &Aggregator{
		registry:     reg,
		catalog:      cat,
		quoteTimeout: tun.QuoteTimeout,
		staleTailMax: tun.StaleTailMax,
		attempts:     tun.Attempts,
		retryBackoff: tun.RetryBackoff,
	}
}

// Registry returns the provider registry backing this aggregator.
func (a *Aggregator) Registry() *provider.Registry { return a.registry }

// Catalog returns the asset catalog backing this aggregator.
func (a *Aggregator) Catalog() *catalog.Catalog { return a.catalog }

// --- Quote Resolution ---

// ResolveQuote resolves the current price of an asset. It tries the spot
// price providers in trust order, then the last close of a fresh intraday
// series, and finally settles on an unavailable quote. It never returns
// an error; every stage failure is logged and absorbed.
func (a *Aggregator) ResolveQuote(ctx context.Context, assetID string) models.Quote {
	asset := a.catalog.Lookup(assetID)
	quote := models.Quote{
		Symbol:     asset.Symbol,
		Name:       asset.Name,
		ResolvedAt: utils.NowUTC(),
	}

	// Stage 1: spot price through the registry fallback chain.
	if sp, providerName, ok := a.fetchSpot(ctx, asset.Symbol); ok {
		quote.Price = &sp.Price
		quote.Provenance = a.provenance(providerName, sp.SourceTS)
		return quote
	}

	// Stage 2: last non-missing close of the most granular recent series.
	if last, ts, providerName, ok := a.fetchTail(ctx, asset.Symbol); ok {
		quote.Price = &last
		quote.Provenance = a.displayName(providerName) + " Historical - " + utils.Stamp(ts)
		return quote
	}

	log.Printf("datasource/aggregator: no source could price %s", asset.Symbol)
	quote.Provenance = ProvenanceUnavailable
	return quote
}

// fetchSpot runs the spot price ladder and reports the first usable result.
func (a *Aggregator) fetchSpot(ctx context.Context, symbol string) (*models.SpotPrice, string, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.quoteTimeout)
	defer cancel()

	result, err := a.registry.FetchWithFallback(ctx, provider.ModelSpotPrice, provider.QueryParams{
		provider.ParamSymbol: symbol,
	})
	if err != nil {
		log.Printf("datasource/aggregator: spot price for %s failed: %v", symbol, err)
		return nil, "", false
	}
	sp, ok := result.Data.(*models.SpotPrice)
	if !ok || !utils.FinitePositive(sp.Price) {
		return nil, "", false
	}
	return sp, result.Provider, true
}

// fetchTail pulls a 1d/5m series and returns its last non-missing close.
// Closes older than staleTailMax are rejected so a stalled upstream never
// masquerades as a live price.
func (a *Aggregator) fetchTail(ctx context.Context, symbol string) (float64, time.Time, string, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.quoteTimeout)
	defer cancel()

	rng, interval := models.Window24H.Range()
	result, err := a.registry.Fetch(ctx, provider.ModelCryptoHistorical, provider.QueryParams{
		provider.ParamSymbol:   symbol,
		provider.ParamRange:    rng,
		provider.ParamInterval: interval,
	})
	if err != nil {
		log.Printf("datasource/aggregator: historical tail for %s failed: %v", symbol, err)
		return 0, time.Time{}, "", false
	}
	series, ok := result.Data.(models.Series)
	if !ok {
		return 0, time.Time{}, "", false
	}
	last, ts, ok := series.LastClose()
	if !ok {
		return 0, time.Time{}, "", false
	}
	if age := utils.NowUTC().Sub(ts); age > a.staleTailMax {
		log.Printf("datasource/aggregator: tail close for %s is %s old, rejecting", symbol, age.Round(time.Minute))
		return 0, time.Time{}, "", false
	}
	return last, ts, result.Provider, true
}

// --- Series ---

// FetchSeries fetches the candle series for an asset over a window. A
// payload without any usable close consumes an attempt like a transport
// failure does. Exhausting all attempts yields an empty series, never an
// error.
func (a *Aggregator) FetchSeries(ctx context.Context, assetID string, window models.Window) models.Series {
	asset := a.catalog.Lookup(assetID)
	rng, interval := window.Range()
	params := provider.QueryParams{
		provider.ParamSymbol:   asset.Symbol,
		provider.ParamRange:    rng,
		provider.ParamInterval: interval,
	}

	for attempt := 1; attempt <= a.attempts; attempt++ {
		result, err := a.registry.FetchWithFallback(ctx, provider.ModelCryptoHistorical, params)
		if err == nil {
			if series, ok := result.Data.(models.Series); ok && series.HasCloses() {
				series.Symbol = asset.Symbol
				series.Window = window
				return series
			}
			err = &provider.ErrNoData{Provider: result.Provider, Detail: "series has no usable closes"}
		}
		log.Printf("datasource/aggregator: series %s %s attempt %d/%d failed: %v",
			asset.Symbol, window, attempt, a.attempts, err)

		if attempt < a.attempts {
			select {
			case <-ctx.Done():
				return models.Series{Symbol: asset.Symbol, Window: window}
			case <-time.After(a.retryBackoff):
			}
		}
	}
	return models.Series{Symbol: asset.Symbol, Window: window}
}

// FetchChart fetches a windowed series together with its chart summary.
func (a *Aggregator) FetchChart(ctx context.Context, assetID string, window models.Window) (models.Series, models.ChartSummary) {
	series := a.FetchSeries(ctx, assetID, window)
	return series, analysis.SummarizeChart(series)
}

// --- Metrics ---

// FetchMetrics builds the metrics panel for an asset from an intraday and
// a one-year series fetched concurrently. A failed leg leaves its fields
// nil; the other leg's fields are unaffected.
func (a *Aggregator) FetchMetrics(ctx context.Context, assetID string) models.MetricsSummary {
	var (
		day  models.Series
		year models.Series
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		day = a.FetchSeries(ctx, assetID, models.Window24H)
		return nil
	})
	g.Go(func() error {
		year = a.FetchSeries(ctx, assetID, models.Window1Y)
		return nil
	})
	_ = g.Wait() // legs never return errors

	return analysis.SummarizeMetrics(day, year)
}

// --- Dashboard ---

// FetchDashboard assembles the full single-asset view: quote, windowed
// series with chart summary, and metrics, fetched concurrently. Legs that
// come back empty leave their terminal zero values in place.
func (a *Aggregator) FetchDashboard(ctx context.Context, assetID string, window models.Window) models.Dashboard {
	asset := a.catalog.Lookup(assetID)
	dash := models.Dashboard{
		Asset:  asset,
		Window: window,
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		quote := a.ResolveQuote(ctx, assetID)
		mu.Lock()
		dash.Quote = quote
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		series, chart := a.FetchChart(ctx, assetID, window)
		mu.Lock()
		dash.Series = series
		dash.Chart = chart
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		metrics := a.FetchMetrics(ctx, assetID)
		mu.Lock()
		dash.Metrics = metrics
		mu.Unlock()
		return nil
	})

	_ = g.Wait() // legs never return errors

	dash.GeneratedAt = utils.NowUTC()
	return dash
}

// --- Provenance ---

// provenance builds the source label for a resolved spot price. When the
// source reports its own refresh stamp the label carries it verbatim;
// otherwise the resolution wall clock is stamped in.
func (a *Aggregator) provenance(providerName, sourceTS string) string {
	if sourceTS == "" {
		sourceTS = utils.Stamp(utils.NowUTC())
	}
	return a.displayName(providerName) + " - " + sourceTS
}

// displayName resolves a registry name to its human-readable label.
func (a *Aggregator) displayName(providerName string) string {
	if p, err := a.registry.Get(providerName); err == nil {
		if dn := p.Info().DisplayName; dn != "" {
			return dn
		}
	}
	return providerName
}
