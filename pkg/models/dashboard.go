package models

import "time"

// Dashboard is the combined payload backing a single asset view: the
// current quote, the windowed chart series with its summary, and the
// metrics panel, composed in one request.
type Dashboard struct {
	Asset       Asset          `json:"asset"`
	Window      Window         `json:"window"`
	Quote       Quote          `json:"quote"`
	Series      Series         `json:"series"`
	Chart       ChartSummary   `json:"chart"`
	Metrics     MetricsSummary `json:"metrics"`
	GeneratedAt time.Time      `json:"generated_at"`
}
