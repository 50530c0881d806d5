package models

import "time"

// SpotPrice is the provider-level result of a live price lookup.
type SpotPrice struct {
	Symbol   string    `json:"symbol"` // e.g., "BTC"
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	AsOf     time.Time `json:"as_of,omitempty"`     // zero when the source stamp could not be parsed
	SourceTS string    `json:"source_ts,omitempty"` // refresh stamp exactly as reported by the source
}

// Quote is a resolved current price for an asset, tagged with provenance.
// A nil Price is a valid terminal state meaning no source could supply a
// usable value; Provenance then reads "Data unavailable". Callers render
// that state rather than treating it as an error.
type Quote struct {
	Symbol     string    `json:"symbol"`
	Name       string    `json:"name"`
	Price      *float64  `json:"price,omitempty"`
	Provenance string    `json:"provenance"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Available reports whether the quote carries a usable price.
func (q Quote) Available() bool { return q.Price != nil }
