package models

import "time"

// Candle is a single bar of price data. Upstream rows are sparse; a nil
// field means the source did not report that value for the bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   *float64  `json:"open,omitempty"`
	High   *float64  `json:"high,omitempty"`
	Low    *float64  `json:"low,omitempty"`
	Close  *float64  `json:"close,omitempty"`
	Volume *int64    `json:"volume,omitempty"`
}

// Series is an ascending, duplicate-free sequence of candles for one
// symbol. An empty series is a valid terminal state meaning no data was
// available, not an error.
type Series struct {
	Symbol  string   `json:"symbol"`
	Window  Window   `json:"window,omitempty"`
	Candles []Candle `json:"candles"`
}

// IsEmpty reports whether the series carries no candles at all.
func (s Series) IsEmpty() bool { return len(s.Candles) == 0 }

// HasCloses reports whether at least one candle carries a close value.
// A series without any close is unusable for charting and is treated the
// same as a failed fetch.
func (s Series) HasCloses() bool {
	for _, c := range s.Candles {
		if c.Close != nil {
			return true
		}
	}
	return false
}

// FirstClose returns the earliest non-missing close value.
func (s Series) FirstClose() (float64, bool) {
	for _, c := range s.Candles {
		if c.Close != nil {
			return *c.Close, true
		}
	}
	return 0, false
}

// LastClose returns the latest non-missing close value and its bar time.
func (s Series) LastClose() (float64, time.Time, bool) {
	for i := len(s.Candles) - 1; i >= 0; i-- {
		if s.Candles[i].Close != nil {
			return *s.Candles[i].Close, s.Candles[i].Time, true
		}
	}
	return 0, time.Time{}, false
}

// Float returns a pointer to v, for building sparse candle fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building sparse candle fields.
func Int(v int64) *int64 { return &v }
