package utils

import (
	"strings"
)

// Common asset name aliases mapped to canonical symbols.
var symbolAliases = map[string]string{
	"BITCOIN":      "BTC",
	"XBT":          "BTC",
	"ETHEREUM":     "ETH",
	"ETHER":        "ETH",
	"BINANCE COIN": "BNB",
	"BINANCECOIN":  "BNB",
	"SOLANA":       "SOL",
	"RIPPLE":       "XRP",
	"DOGECOIN":     "DOGE",
	"DOGE COIN":    "DOGE",
	"CARDANO":      "ADA",
	"POLKADOT":     "DOT",
	"AVALANCHE":    "AVAX",
	"CHAINLINK":    "LINK",
}

// NormalizeSymbol normalizes a user-input asset identifier to the canonical
// symbol form. It handles aliases, uppercasing, whitespace, the $ prefix,
// and trading-pair suffixes ("BTC-USD" and "BTC/USD" both yield "BTC").
func NormalizeSymbol(id string) string {
	s := strings.TrimSpace(strings.ToUpper(id))

	// Strip $ prefix if present (common in chat and headlines)
	s = strings.TrimPrefix(s, "$")

	// Strip a quote-currency suffix
	for _, sep := range []string{"-", "/"} {
		if base, quote, ok := strings.Cut(s, sep); ok && isQuoteCurrency(quote) {
			s = base
			break
		}
	}

	if canonical, ok := symbolAliases[s]; ok {
		return canonical
	}
	return s
}

func isQuoteCurrency(s string) bool {
	switch s {
	case "USD", "USDT", "USDC", "EUR", "GBP":
		return true
	}
	return false
}

// ToPair converts a canonical symbol to the market-data provider's
// USD trading-pair format, e.g. "BTC" -> "BTC-USD".
func ToPair(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return ""
	}
	return symbol + "-USD"
}

// FromPair strips the quote-currency suffix from a trading pair,
// e.g. "BTC-USD" -> "BTC".
func FromPair(pair string) string {
	return NormalizeSymbol(pair)
}
