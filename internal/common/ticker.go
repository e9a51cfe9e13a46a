// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// Ticker represents a parsed exchange-suffixed ticker.
// Provider symbol format: CODE.EXCHANGE (e.g., "TCS.NS", "AAPL.US")
type Ticker struct {
	// Code is the stock/security code (e.g., "TCS", "ZOMATO")
	Code string
	// Suffix is the exchange suffix including the leading dot (e.g., ".NS")
	Suffix string
	// Raw is the original ticker string as entered by the user
	Raw string
}

// KnownSuffixes lists exchange suffixes recognized during parsing. A ticker
// already carrying one of these is left unchanged by normalization.
var KnownSuffixes = []string{
	".NS",   // NSE India
	".BO",   // BSE India
	".US",   // NYSE/NASDAQ
	".AU",   // ASX
	".LSE",  // London
	".TO",   // Toronto
	".HK",   // Hong Kong
	".NSE",  // NSE (provider alias)
	".INDX", // Indices
}

// ParseTicker parses a raw ticker string and applies the default exchange
// suffix when none is present. Normalization is idempotent: an already
// normalized symbol ("TCS.NS") parses back to the same symbol.
//
// Rules:
//   - uppercase
//   - surrounding and embedded whitespace removed
//   - defaultSuffix appended when no known suffix is present
func ParseTicker(raw string, defaultSuffix string) Ticker {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return Ticker{Raw: raw}
	}

	defaultSuffix = strings.ToUpper(defaultSuffix)
	if defaultSuffix != "" && !strings.HasPrefix(defaultSuffix, ".") {
		defaultSuffix = "." + defaultSuffix
	}

	for _, suffix := range KnownSuffixes {
		if strings.HasSuffix(cleaned, suffix) && len(cleaned) > len(suffix) {
			return Ticker{
				Code:   strings.TrimSuffix(cleaned, suffix),
				Suffix: suffix,
				Raw:    raw,
			}
		}
	}

	return Ticker{
		Code:   cleaned,
		Suffix: defaultSuffix,
		Raw:    raw,
	}
}

// Symbol returns the provider symbol format (CODE.EXCHANGE).
func (t Ticker) Symbol() string {
	if t.Code == "" {
		return ""
	}
	return t.Code + t.Suffix
}

// String returns the provider symbol; Ticker prints as its normalized form.
func (t Ticker) String() string {
	return t.Symbol()
}

// IsZero reports whether the ticker failed to parse.
func (t Ticker) IsZero() bool {
	return t.Code == ""
}
