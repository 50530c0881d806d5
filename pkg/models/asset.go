// Package models defines the core data structures used throughout coinview.
package models

// Asset represents a single catalog entry for a tradable asset.
type Asset struct {
	Symbol string `json:"symbol"` // e.g., "BTC"
	Name   string `json:"name"`   // e.g., "Bitcoin"
	Pair   string `json:"pair"`   // upstream trading pair, e.g., "BTC-USD"
}
