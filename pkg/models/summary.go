package models

// Trend classifies the direction of a charted window.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Display colors consumed by renderers, one per trend.
const (
	ColorUp      = "#2563eb"
	ColorDown    = "#ef4444"
	ColorNeutral = "#6c757d"
)

// Color returns the display color for the trend.
func (t Trend) Color() string {
	switch t {
	case TrendUp:
		return ColorUp
	case TrendDown:
		return ColorDown
	default:
		return ColorNeutral
	}
}

// ChartSummary is the derived display summary for one charted series:
// endpoint closes, percent change with its trend classification, and a
// padded y-axis range for display scaling. Freshly computed per request,
// never persisted.
type ChartSummary struct {
	FirstClose    float64 `json:"first_close"`
	LastClose     float64 `json:"last_close"`
	PercentChange float64 `json:"percent_change"`
	Trend         Trend   `json:"trend"`
	Color         string  `json:"color"`
	YAxisMin      float64 `json:"y_axis_min"`
	YAxisMax      float64 `json:"y_axis_max"`
}

// MetricsSummary carries the quote-panel metrics. Each field is
// independently nil when its underlying series or column was missing;
// partial results are expected and must not suppress the other fields.
type MetricsSummary struct {
	DayHigh   *float64 `json:"day_high,omitempty"`
	DayLow    *float64 `json:"day_low,omitempty"`
	YearHigh  *float64 `json:"year_high,omitempty"`
	YearLow   *float64 `json:"year_low,omitempty"`
	Volume24h *float64 `json:"volume_24h,omitempty"`
}
