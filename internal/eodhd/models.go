package eodhd

import (
	"strconv"
)

// Statement line items consumed by the snapshot derivation.
const (
	LineItemTotalRevenue      = "totalRevenue"
	LineItemNetIncome         = "netIncome"
	LineItemStockholderEquity = "totalStockholderEquity"
)

// FundamentalsResponse represents the fundamentals payload for a symbol,
// reduced to the sections this application consumes.
type FundamentalsResponse struct {
	General    *GeneralInfo `json:"General"`
	Financials *Financials  `json:"Financials"`
}

// GeneralInfo contains general company information.
type GeneralInfo struct {
	Code         string `json:"Code"`
	Name         string `json:"Name"`
	Exchange     string `json:"Exchange"`
	CurrencyCode string `json:"CurrencyCode"`
	Sector       string `json:"Sector"`
	Industry     string `json:"Industry"`
	Description  string `json:"Description"`
}

// Financials contains the statement tables.
type Financials struct {
	BalanceSheet    *FinancialStatement `json:"Balance_Sheet"`
	IncomeStatement *FinancialStatement `json:"Income_Statement"`
}

// FinancialStatement is a statement table keyed by reporting-period date and
// line-item name. Values arrive as strings or numbers depending on endpoint
// version; use ParseLineItem to read them.
type FinancialStatement struct {
	Currency  string                            `json:"currency"`
	Quarterly map[string]map[string]interface{} `json:"quarterly"`
	Yearly    map[string]map[string]interface{} `json:"yearly"`
}

// ParseLineItem extracts a numeric line item from a statement column.
// Returns false when the item is absent or not parseable as a number.
func ParseLineItem(column map[string]interface{}, item string) (float64, bool) {
	raw, ok := column[item]
	if !ok || raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case string:
		if v == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
