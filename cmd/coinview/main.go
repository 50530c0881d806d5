// coinview — crypto price resolution and dashboard backend
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/coinview/api"
	"github.com/seenimoa/coinview/internal/catalog"
	"github.com/seenimoa/coinview/internal/config"
	"github.com/seenimoa/coinview/internal/datasource"
	"github.com/seenimoa/coinview/internal/provider"
	"github.com/seenimoa/coinview/internal/providers"
	"github.com/seenimoa/coinview/pkg/models"
	"github.com/seenimoa/coinview/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coinview",
	Short: "coinview — crypto quotes, charts, and market news",
	Long: `coinview resolves crypto prices across data providers and serves
quotes, windowed chart series, metrics panels, and market news over a
REST and WebSocket API. A failed source never fails a view: prices
degrade to recent historical closes and finally to an explicit
unavailable state.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Wiring Helpers ---

// buildCatalog builds the asset catalog from config. An empty assets
// list in the config falls back to the built-in set.
func buildCatalog() *catalog.Catalog {
	if len(cfg.Assets) == 0 {
		return catalog.Default()
	}
	assets := make([]models.Asset, 0, len(cfg.Assets))
	for _, a := range cfg.Assets {
		assets = append(assets, models.Asset{Symbol: a.Symbol, Name: a.Name, Pair: a.Pair})
	}
	return catalog.New(assets)
}

// buildAggregator wires a provider registry and aggregator from config.
func buildAggregator() (*datasource.Aggregator, error) {
	reg := provider.NewRegistry()
	if err := providers.RegisterAllTo(reg, cfg.Providers.AlphaVantage.APIKey); err != nil {
		return nil, fmt.Errorf("failed to register providers: %w", err)
	}

	tun := datasource.Tuning{
		QuoteTimeout: cfg.Resolver.QuoteTimeout(),
		StaleTailMax: cfg.Resolver.StaleTailMax(),
		Attempts:     cfg.Series.Attempts,
		RetryBackoff: cfg.Series.Backoff(),
	}
	return datasource.NewAggregatorWithTuning(reg, buildCatalog(), tun), nil
}

func buildNews(cat *catalog.Catalog) *datasource.News {
	return datasource.NewNewsWithSources(cat, datasource.DefaultNewsSources, cfg.News.TTL())
}

// --- Output Helpers ---

func printQuote(q models.Quote) {
	fmt.Printf("💰 %s (%s)\n", q.Name, q.Symbol)
	if q.Available() {
		fmt.Printf("   Price:  %s\n", utils.FormatUSD(*q.Price))
	} else {
		fmt.Println("   Price:  Price Unavailable")
	}
	fmt.Printf("   Source: %s\n", q.Provenance)
}

// fmtPrice renders an optional price, with N/A standing in for nil.
func fmtPrice(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return utils.FormatUSD(*v)
}

func fmtVolume(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return utils.FormatVolume(*v)
}

func printMetrics(m models.MetricsSummary) {
	fmt.Printf("   Day High:    %s\n", fmtPrice(m.DayHigh))
	fmt.Printf("   Day Low:     %s\n", fmtPrice(m.DayLow))
	fmt.Printf("   Year High:   %s\n", fmtPrice(m.YearHigh))
	fmt.Printf("   Year Low:    %s\n", fmtPrice(m.YearLow))
	fmt.Printf("   Volume 24h:  %s\n", fmtVolume(m.Volume24h))
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coinview %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Assets Command ---

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List the tracked assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := buildCatalog()
		fmt.Printf("📋 %d tracked assets\n\n", cat.Len())
		for _, a := range cat.All() {
			fmt.Printf("  %-6s %-12s %s\n", a.Symbol, a.Name, a.Pair)
		}
		return nil
	},
}

// --- Quote Command ---

var quoteCmd = &cobra.Command{
	Use:   "quote [asset]",
	Short: "Show the current price of an asset",
	Long: `Resolve the current price of an asset. Spot price providers are
tried in trust order, then the last close of a fresh intraday series.
When nothing usable remains, the quote renders as unavailable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := buildAggregator()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		printQuote(agg.ResolveQuote(ctx, args[0]))
		return nil
	},
}

// --- Chart Command ---

var chartCmd = &cobra.Command{
	Use:   "chart [asset]",
	Short: "Show a windowed chart summary for an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := buildAggregator()
		if err != nil {
			return err
		}
		windowFlag, _ := cmd.Flags().GetString("window")
		window := models.ParseWindow(windowFlag)

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		asset := agg.Catalog().Lookup(args[0])
		series, chart := agg.FetchChart(ctx, args[0], window)

		fmt.Printf("📊 %s (%s), %s window\n", asset.Name, asset.Symbol, window)
		if len(series.Candles) == 0 {
			fmt.Println("\n⚠️  No chart data available.")
			return nil
		}

		fmt.Printf("   Candles: %d\n", len(series.Candles))
		fmt.Printf("   First:   %s\n", utils.FormatUSD(chart.FirstClose))
		fmt.Printf("   Last:    %s\n", utils.FormatUSD(chart.LastClose))
		fmt.Printf("   Change:  %s (%s)\n", utils.FormatPct(chart.PercentChange), chart.Trend)
		fmt.Printf("   Y-axis:  %s to %s\n", utils.FormatUSD(chart.YAxisMin), utils.FormatUSD(chart.YAxisMax))
		return nil
	},
}

func init() {
	chartCmd.Flags().String("window", string(models.DefaultWindow), "chart window (24h, 1w, 1m, 6m, 1y, 3y, max)")
}

// --- Metrics Command ---

var metricsCmd = &cobra.Command{
	Use:   "metrics [asset]",
	Short: "Show the quote-panel metrics for an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := buildAggregator()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		asset := agg.Catalog().Lookup(args[0])
		fmt.Printf("📈 %s (%s)\n", asset.Name, asset.Symbol)
		printMetrics(agg.FetchMetrics(ctx, args[0]))
		return nil
	},
}

// --- Dashboard Command ---

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [asset]",
	Short: "Show the combined asset view: quote, chart, and metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := buildAggregator()
		if err != nil {
			return err
		}
		windowFlag, _ := cmd.Flags().GetString("window")
		window := models.ParseWindow(windowFlag)

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		d := agg.FetchDashboard(ctx, args[0], window)

		printQuote(d.Quote)
		fmt.Println()

		fmt.Printf("📊 Chart (%s window, %d candles)\n", d.Window, len(d.Series.Candles))
		if len(d.Series.Candles) > 0 {
			fmt.Printf("   Change:  %s (%s)\n", utils.FormatPct(d.Chart.PercentChange), d.Chart.Trend)
			fmt.Printf("   Y-axis:  %s to %s\n", utils.FormatUSD(d.Chart.YAxisMin), utils.FormatUSD(d.Chart.YAxisMax))
		}
		fmt.Println()

		fmt.Println("📈 Metrics")
		printMetrics(d.Metrics)

		fmt.Printf("\n   Generated: %s\n", utils.Stamp(d.GeneratedAt))
		return nil
	},
}

func init() {
	dashboardCmd.Flags().String("window", string(models.DefaultWindow), "chart window (24h, 1w, 1m, 6m, 1y, 3y, max)")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [asset]",
	Short: "Show recent crypto headlines",
	Long: `Show recent headlines from the configured RSS feeds, newest first.
With an asset argument, only headlines mentioning that asset are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		news := buildNews(buildCatalog())
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.News.MaxArticles
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		var (
			articles []models.NewsArticle
			err      error
		)
		if len(args) == 1 {
			articles, err = news.GetAssetNews(ctx, args[0], limit)
		} else {
			articles, err = news.GetMarketNews(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch news: %w", err)
		}
		if len(articles) == 0 {
			fmt.Println("⚠️  No headlines found.")
			return nil
		}

		fmt.Printf("📰 %d headlines\n\n", len(articles))
		for _, a := range articles {
			fmt.Printf("  %s\n", a.Title)
			fmt.Printf("    %s | %s", a.Source, utils.Stamp(a.PublishedAt))
			if len(a.Assets) > 0 {
				fmt.Printf(" | %s", strings.Join(a.Assets, ", "))
			}
			fmt.Println()
			fmt.Printf("    %s\n\n", a.URL)
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("limit", 0, "max headlines (default: config news.max_articles)")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		agg, err := buildAggregator()
		if err != nil {
			return err
		}

		api.Version = version
		srv := api.NewServer(cfg, agg, buildNews(agg.Catalog()))

		addr := cfg.API.Addr()
		fmt.Printf("🌐 Starting coinview API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  coinview — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:    %s (%s)\n", version, commit)
		fmt.Printf("  Time (UTC): %s\n", utils.Stamp(utils.NowUTC()))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    API Server:     %s\n", cfg.API.Addr())
		fmt.Printf("    Stream Every:   %s\n", cfg.API.StreamInterval())
		fmt.Printf("    Quote Timeout:  %s\n", cfg.Resolver.QuoteTimeout())
		fmt.Printf("    News Cache TTL: %s\n", cfg.News.TTL())
		fmt.Printf("    Tracked Assets: %d\n", buildCatalog().Len())
		fmt.Println()

		// Registered providers and the models they serve
		reg := provider.NewRegistry()
		if err := providers.RegisterAllTo(reg, cfg.Providers.AlphaVantage.APIKey); err != nil {
			return err
		}
		fmt.Println("  Providers:")
		for _, info := range reg.List() {
			fmt.Printf("    %-15s %s\n", info.DisplayName+":", joinModels(info.Models))
		}
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

func joinModels(types []provider.ModelType) string {
	names := make([]string, len(types))
	for i, m := range types {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
