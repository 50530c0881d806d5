package utils

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BTC", "BTC"},
		{"btc", "BTC"},
		{" btc ", "BTC"},
		{"$BTC", "BTC"},
		{"BTC-USD", "BTC"},
		{"btc-usd", "BTC"},
		{"ETH/USDT", "ETH"},
		{"BITCOIN", "BTC"},
		{"Ethereum", "ETH"},
		{"RIPPLE", "XRP"},
		{"CHAINLINK", "LINK"},
		{"UNKNOWNCOIN", "UNKNOWNCOIN"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeSymbol(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToPair(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BTC", "BTC-USD"},
		{"btc", "BTC-USD"},
		{"BTC-USD", "BTC-USD"},
		{"BITCOIN", "BTC-USD"},
		{"SOL", "SOL-USD"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToPair(tt.input)
			if result != tt.expected {
				t.Errorf("ToPair(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFromPair(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BTC-USD", "BTC"},
		{"ETH-USD", "ETH"},
		{"DOGE/USD", "DOGE"},
		{"ADA", "ADA"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := FromPair(tt.input)
			if result != tt.expected {
				t.Errorf("FromPair(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
