package datasource

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/coinview/internal/catalog"
	"github.com/seenimoa/coinview/internal/infra"
	"github.com/seenimoa/coinview/pkg/models"
)

// NewsSource is a single RSS feed configuration.
type NewsSource struct {
	Name    string
	RSSURL  string
	BaseURL string
}

// DefaultNewsSources lists the crypto news RSS feeds polled by default.
var DefaultNewsSources = []NewsSource{
	{
		Name:    "CoinDesk",
		RSSURL:  "https://www.coindesk.com/arc/outboundfeeds/rss/",
		BaseURL: "https://www.coindesk.com",
	},
	{
		Name:    "Cointelegraph",
		RSSURL:  "https://cointelegraph.com/rss",
		BaseURL: "https://cointelegraph.com",
	},
	{
		Name:    "Decrypt",
		RSSURL:  "https://decrypt.co/feed",
		BaseURL: "https://decrypt.co",
	},
	{
		Name:    "CryptoSlate",
		RSSURL:  "https://cryptoslate.com/feed/",
		BaseURL: "https://cryptoslate.com",
	},
}

// defaultNewsTTL bounds how long a fetched feed set is served from cache.
const defaultNewsTTL = 10 * time.Minute

// News aggregates headlines from crypto RSS feeds and tags each article
// with the catalog assets its text mentions. Feeds are cached for the
// configured TTL; fetches are rate limited across sources.
type News struct {
	sources []NewsSource
	catalog *catalog.Catalog
	cache   *infra.Cache
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
}

// NewNews creates a news source over the default feeds and cache TTL.
func NewNews(cat *catalog.Catalog) *News {
	return NewNewsWithSources(cat, DefaultNewsSources, defaultNewsTTL)
}

// NewNewsWithSources creates a news source with custom feeds and TTL.
// A nil catalog falls back to the default asset set.
func NewNewsWithSources(cat *catalog.Catalog, sources []NewsSource, ttl time.Duration) *News {
	if cat == nil {
		cat = catalog.Default()
	}
	if ttl <= 0 {
		ttl = defaultNewsTTL
	}
	return &News{
		sources: sources,
		catalog: cat,
		cache:   infra.NewCache(ttl),
		limiter: infra.NewRateLimiter(2, time.Second), // conservative: 2 req/s
		parser:  gofeed.NewParser(),
	}
}

// --- Public methods ---

// GetMarketNews returns recent headlines from all configured feeds,
// newest first. Failed feeds are logged and skipped; the result is
// whatever the remaining feeds supplied.
func (n *News) GetMarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("news:market:%d", limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	var allArticles []models.NewsArticle
	for _, src := range n.sources {
		articles, err := n.fetchRSS(ctx, src)
		if err != nil {
			log.Printf("datasource/news: %s feed failed: %v", src.Name, err)
			continue
		}
		allArticles = append(allArticles, articles...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sort by published date, newest first. Each feed arrives roughly
	// sorted already.
	sortArticlesByDate(allArticles)

	if limit > 0 && len(allArticles) > limit {
		allArticles = allArticles[:limit]
	}

	n.cache.Set(cacheKey, allArticles)
	return allArticles, nil
}

// GetAssetNews returns headlines mentioning a specific asset.
func (n *News) GetAssetNews(ctx context.Context, assetID string, limit int) ([]models.NewsArticle, error) {
	asset := n.catalog.Lookup(assetID)

	cacheKey := fmt.Sprintf("news:asset:%s:%d", asset.Symbol, limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	allNews, err := n.GetMarketNews(ctx, 0)
	if err != nil {
		return nil, err
	}

	keywords := assetKeywords(asset)
	var filtered []models.NewsArticle
	for _, a := range allNews {
		if mentionsAny(a.Title+" "+a.Summary, keywords) {
			filtered = append(filtered, a)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	n.cache.Set(cacheKey, filtered)
	return filtered, nil
}

// --- Internal helpers ---

// fetchRSS parses one RSS feed and tags each article with the catalog
// assets its text mentions.
func (n *News) fetchRSS(ctx context.Context, src NewsSource) ([]models.NewsArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := n.parser.ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   item.Title,
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		a.Assets = n.matchAssets(a.Title + " " + a.Summary)
		articles = append(articles, a)
	}

	return articles, nil
}

// matchAssets returns the catalog symbols mentioned in text, in catalog
// display order.
func (n *News) matchAssets(text string) []string {
	var symbols []string
	for _, asset := range n.catalog.All() {
		if mentionsAny(text, assetKeywords(asset)) {
			symbols = append(symbols, asset.Symbol)
		}
	}
	return symbols
}

// assetKeywords returns the lowercase search terms for an asset: its
// ticker symbol plus its display name when the name adds anything.
func assetKeywords(asset models.Asset) []string {
	keywords := []string{strings.ToLower(asset.Symbol)}
	name := strings.ToLower(asset.Name)
	if name != "" && name != keywords[0] && name != strings.ToLower(catalog.UnknownName) {
		keywords = append(keywords, name)
	}
	return keywords
}

// mentionsAny reports whether text contains any keyword as a whole word.
// Whole-word matching keeps short tickers like "SOL" or "ADA" from firing
// inside ordinary words.
func mentionsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if containsWord(lower, kw) {
			return true
		}
	}
	return false
}

// containsWord reports whether text contains word bounded by
// non-alphanumeric bytes. Both arguments must already be lowercase.
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; start+len(word) <= len(text); {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		before := i == 0 || !isWordByte(text[i-1])
		after := end == len(text) || !isWordByte(text[end])
		if before && after {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// sortArticlesByDate sorts articles by published date, newest first.
// Simple insertion sort, fine for feed-sized slices.
func sortArticlesByDate(articles []models.NewsArticle) {
	for i := 1; i < len(articles); i++ {
		key := articles[i]
		j := i - 1
		for j >= 0 && articles[j].PublishedAt.Before(key.PublishedAt) {
			articles[j+1] = articles[j]
			j--
		}
		articles[j+1] = key
	}
}
