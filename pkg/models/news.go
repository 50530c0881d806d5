package models

import "time"

// NewsArticle represents a single headline pulled from an RSS feed.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []string  `json:"assets,omitempty"` // related asset symbols
}
