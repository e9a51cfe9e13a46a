package common

import (
	"testing"
)

func TestParseTicker(t *testing.T) {
	tests := []struct {
		input      string
		wantCode   string
		wantSuffix string
		wantSymbol string
	}{
		// Bare codes pick up the default suffix
		{"ZOMATO", "ZOMATO", ".NS", "ZOMATO.NS"},
		{"TCS", "TCS", ".NS", "TCS.NS"},
		{"RELIANCE", "RELIANCE", ".NS", "RELIANCE.NS"},

		// Already-suffixed symbols are left alone (idempotence)
		{"TCS.NS", "TCS", ".NS", "TCS.NS"},
		{"AAPL.US", "AAPL", ".US", "AAPL.US"},
		{"GNP.AU", "GNP", ".AU", "GNP.AU"},

		// Case normalization
		{"zomato", "ZOMATO", ".NS", "ZOMATO.NS"},
		{"tcs.ns", "TCS", ".NS", "TCS.NS"},

		// Whitespace handling
		{"  TCS  ", "TCS", ".NS", "TCS.NS"},
		{"T CS", "TCS", ".NS", "TCS.NS"},

		// Empty input
		{"", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseTicker(tt.input, ".NS")

			if result.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", result.Code, tt.wantCode)
			}
			if result.Suffix != tt.wantSuffix {
				t.Errorf("Suffix = %q, want %q", result.Suffix, tt.wantSuffix)
			}
			if result.Symbol() != tt.wantSymbol {
				t.Errorf("Symbol() = %q, want %q", result.Symbol(), tt.wantSymbol)
			}
		})
	}
}

func TestParseTickerIdempotent(t *testing.T) {
	// Normalizing an already-normalized symbol yields the same string.
	first := ParseTicker("TCS.NS", ".NS")
	second := ParseTicker(first.Symbol(), ".NS")

	if first.Symbol() != second.Symbol() {
		t.Errorf("normalization not idempotent: %q -> %q", first.Symbol(), second.Symbol())
	}
}

func TestParseTickerSuffixWithoutDot(t *testing.T) {
	// A default suffix configured without the leading dot still applies.
	result := ParseTicker("TCS", "NS")
	if result.Symbol() != "TCS.NS" {
		t.Errorf("Symbol() = %q, want %q", result.Symbol(), "TCS.NS")
	}
}
