// Package catalog holds the set of tracked crypto assets and resolves
// user-supplied identifiers to catalog entries.
package catalog

import (
	"github.com/seenimoa/coinview/pkg/models"
	"github.com/seenimoa/coinview/pkg/utils"
)

// UnknownName is the display name for assets outside the catalog.
const UnknownName = "Unknown"

// Catalog is an immutable, ordered set of tracked assets.
type Catalog struct {
	assets []models.Asset
	bySym  map[string]models.Asset
}

// New builds a catalog from the given assets, preserving order.
// Symbols are normalized; later duplicates overwrite earlier ones
// in the lookup index but keep their first position in the order.
func New(assets []models.Asset) *Catalog {
	c := &Catalog{
		assets: make([]models.Asset, 0, len(assets)),
		bySym:  make(map[string]models.Asset, len(assets)),
	}
	for _, a := range assets {
		sym := utils.NormalizeSymbol(a.Symbol)
		if sym == "" {
			continue
		}
		a.Symbol = sym
		if a.Pair == "" {
			a.Pair = utils.ToPair(sym)
		}
		if _, seen := c.bySym[sym]; !seen {
			c.assets = append(c.assets, a)
		}
		c.bySym[sym] = a
	}
	return c
}

// Default returns the standard ten-asset catalog.
func Default() *Catalog {
	return New([]models.Asset{
		{Symbol: "BTC", Name: "Bitcoin"},
		{Symbol: "ETH", Name: "Ethereum"},
		{Symbol: "BNB", Name: "BNB"},
		{Symbol: "SOL", Name: "Solana"},
		{Symbol: "XRP", Name: "XRP"},
		{Symbol: "DOGE", Name: "Dogecoin"},
		{Symbol: "ADA", Name: "Cardano"},
		{Symbol: "DOT", Name: "Polkadot"},
		{Symbol: "AVAX", Name: "Avalanche"},
		{Symbol: "LINK", Name: "Chainlink"},
	})
}

// Lookup resolves any identifier (symbol, pair ticker, common name,
// any casing) to a catalog entry. Identifiers outside the catalog
// still resolve: the normalized symbol is returned with the Unknown
// display name so downstream fetches can proceed.
func (c *Catalog) Lookup(id string) models.Asset {
	sym := utils.NormalizeSymbol(id)
	if a, ok := c.bySym[sym]; ok {
		return a
	}
	return models.Asset{
		Symbol: sym,
		Name:   UnknownName,
		Pair:   utils.ToPair(sym),
	}
}

// Contains reports whether the identifier resolves to a catalog entry.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.bySym[utils.NormalizeSymbol(id)]
	return ok
}

// All returns the catalog entries in display order.
func (c *Catalog) All() []models.Asset {
	out := make([]models.Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.assets)
}
