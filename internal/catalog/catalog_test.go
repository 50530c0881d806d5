package catalog

import (
	"testing"

	"github.com/seenimoa/coinview/pkg/models"
)

// ── Catalog Tests ──

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 10 {
		t.Fatalf("expected 10 assets, got %d", c.Len())
	}

	all := c.All()
	// Display order is fixed, Bitcoin first.
	if all[0].Symbol != "BTC" || all[0].Name != "Bitcoin" {
		t.Errorf("expected BTC/Bitcoin first, got %s/%s", all[0].Symbol, all[0].Name)
	}
	if all[9].Symbol != "LINK" || all[9].Name != "Chainlink" {
		t.Errorf("expected LINK/Chainlink last, got %s/%s", all[9].Symbol, all[9].Name)
	}

	// Every asset carries a USD pair ticker.
	for _, a := range all {
		if a.Pair != a.Symbol+"-USD" {
			t.Errorf("%s: expected pair %s-USD, got %s", a.Symbol, a.Symbol, a.Pair)
		}
	}
}

func TestLookupExact(t *testing.T) {
	c := Default()
	a := c.Lookup("BTC")
	if a.Name != "Bitcoin" {
		t.Errorf("expected Bitcoin, got %s", a.Name)
	}
	if a.Pair != "BTC-USD" {
		t.Errorf("expected BTC-USD, got %s", a.Pair)
	}
}

func TestLookupNormalizes(t *testing.T) {
	c := Default()
	tests := []struct {
		id     string
		symbol string
		name   string
	}{
		{"btc", "BTC", "Bitcoin"},
		{" eth ", "ETH", "Ethereum"},
		{"$SOL", "SOL", "Solana"},
		{"DOGE-USD", "DOGE", "Dogecoin"},
		{"ada/usdt", "ADA", "Cardano"},
		{"bitcoin", "BTC", "Bitcoin"},
		{"Chainlink", "LINK", "Chainlink"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a := c.Lookup(tt.id)
			if a.Symbol != tt.symbol {
				t.Errorf("symbol = %s, want %s", a.Symbol, tt.symbol)
			}
			if a.Name != tt.name {
				t.Errorf("name = %s, want %s", a.Name, tt.name)
			}
		})
	}
}

func TestLookupUnknownNeverFails(t *testing.T) {
	c := Default()
	a := c.Lookup("shib")
	if a.Symbol != "SHIB" {
		t.Errorf("expected normalized symbol SHIB, got %s", a.Symbol)
	}
	if a.Name != UnknownName {
		t.Errorf("expected %q name, got %s", UnknownName, a.Name)
	}
	// The pair is still derivable, so downstream fetches can proceed.
	if a.Pair != "SHIB-USD" {
		t.Errorf("expected SHIB-USD, got %s", a.Pair)
	}
}

func TestContains(t *testing.T) {
	c := Default()
	if !c.Contains("xrp") {
		t.Error("expected catalog to contain xrp")
	}
	if !c.Contains("AVAX-USD") {
		t.Error("expected catalog to contain AVAX-USD")
	}
	if c.Contains("SHIB") {
		t.Error("SHIB should not be in the default catalog")
	}
}

func TestNewCustomCatalog(t *testing.T) {
	c := New([]models.Asset{
		{Symbol: "pepe", Name: "Pepe"},
		{Symbol: "BTC", Name: "Bitcoin", Pair: "BTC-USD"},
	})
	if c.Len() != 2 {
		t.Fatalf("expected 2 assets, got %d", c.Len())
	}

	a := c.Lookup("PEPE")
	if a.Name != "Pepe" {
		t.Errorf("expected Pepe, got %s", a.Name)
	}
	if a.Pair != "PEPE-USD" {
		t.Errorf("expected derived pair PEPE-USD, got %s", a.Pair)
	}
}

func TestNewSkipsDuplicatesAndBlanks(t *testing.T) {
	c := New([]models.Asset{
		{Symbol: "BTC", Name: "Bitcoin"},
		{Symbol: "btc", Name: "Bitcoin again"},
		{Symbol: "  ", Name: "Blank"},
	})
	if c.Len() != 1 {
		t.Fatalf("expected 1 asset, got %d", c.Len())
	}
	// Later duplicate wins the lookup.
	if got := c.Lookup("BTC").Name; got != "Bitcoin again" {
		t.Errorf("expected duplicate to overwrite lookup, got %s", got)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Name = "mutated"
	if c.Lookup("BTC").Name != "Bitcoin" {
		t.Error("mutating All() result should not affect the catalog")
	}
}
