// Package analysis derives display summaries from candle series.
// All functions are pure: they never fetch, never cache, and treat
// missing columns as absent values rather than errors.
package analysis

import (
	"github.com/seenimoa/coinview/pkg/models"
)

// yAxisPad is the fraction of the price range added above and below
// the charted closes.
const yAxisPad = 0.05

// SummarizeChart computes the endpoint closes, percent change, trend
// classification, and padded y-axis bounds for one series. A series
// without any usable close yields a neutral summary with zero values.
func SummarizeChart(s models.Series) models.ChartSummary {
	first, okFirst := s.FirstClose()
	last, _, okLast := s.LastClose()
	if !okFirst || !okLast {
		return models.ChartSummary{
			Trend: models.TrendNeutral,
			Color: models.ColorNeutral,
		}
	}

	summary := models.ChartSummary{
		FirstClose: first,
		LastClose:  last,
	}

	if first == 0 {
		// Percent change is undefined from a zero base.
		summary.Trend = models.TrendNeutral
	} else {
		summary.PercentChange = (last - first) / first * 100
		if summary.PercentChange >= 0 {
			summary.Trend = models.TrendUp
		} else {
			summary.Trend = models.TrendDown
		}
	}
	summary.Color = summary.Trend.Color()
	summary.YAxisMin, summary.YAxisMax = yAxisRange(s)

	return summary
}

// yAxisRange returns padded display bounds over the non-missing closes.
// A flat series is padded from its level instead of its zero range, and
// the lower bound never drops below zero.
func yAxisRange(s models.Series) (float64, float64) {
	var lo, hi float64
	found := false
	for _, c := range s.Candles {
		if c.Close == nil {
			continue
		}
		v := *c.Close
		if !found {
			lo, hi = v, v
			found = true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if !found {
		return 0, 0
	}

	padding := (hi - lo) * yAxisPad
	if padding == 0 {
		padding = hi * yAxisPad
	}
	min := lo - padding
	if min < 0 {
		min = 0
	}
	return min, hi + padding
}

// SummarizeMetrics computes the quote-panel metrics from a one-day and
// a one-year series. Every field is independent: a missing series or
// column nils that field and leaves the rest intact.
func SummarizeMetrics(day, year models.Series) models.MetricsSummary {
	return models.MetricsSummary{
		DayHigh:   maxOf(day.Candles, func(c models.Candle) *float64 { return c.High }),
		DayLow:    minOf(day.Candles, func(c models.Candle) *float64 { return c.Low }),
		YearHigh:  maxOf(year.Candles, func(c models.Candle) *float64 { return c.High }),
		YearLow:   minOf(year.Candles, func(c models.Candle) *float64 { return c.Low }),
		Volume24h: sumVolume(day.Candles),
	}
}

func maxOf(candles []models.Candle, field func(models.Candle) *float64) *float64 {
	var best float64
	found := false
	for _, c := range candles {
		v := field(c)
		if v == nil {
			continue
		}
		if !found || *v > best {
			best = *v
			found = true
		}
	}
	if !found {
		return nil
	}
	return models.Float(best)
}

func minOf(candles []models.Candle, field func(models.Candle) *float64) *float64 {
	var best float64
	found := false
	for _, c := range candles {
		v := field(c)
		if v == nil {
			continue
		}
		if !found || *v < best {
			best = *v
			found = true
		}
	}
	if !found {
		return nil
	}
	return models.Float(best)
}

func sumVolume(candles []models.Candle) *float64 {
	var total float64
	found := false
	for _, c := range candles {
		if c.Volume == nil {
			continue
		}
		total += float64(*c.Volume)
		found = true
	}
	if !found {
		return nil
	}
	return models.Float(total)
}
