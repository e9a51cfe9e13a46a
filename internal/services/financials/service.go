// Package financials derives per-year revenue, profit and return-on-equity
// figures from EODHD fundamentals.
package financials

import (
	"context"
	"math"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/eodhd"
	"github.com/ternarybob/scrutor/internal/models"
)

// equitySentinel stands in for missing or zero stockholder equity so the ROE
// division never faults. The resulting ratio is meaningless and visibly so.
const equitySentinel = 1.0

// FundamentalsClient fetches fundamentals for a symbol.
type FundamentalsClient interface {
	GetFundamentals(ctx context.Context, symbol string) (*eodhd.FundamentalsResponse, error)
}

// Service implements interfaces.FinancialsService on top of the EODHD
// fundamentals endpoint.
type Service struct {
	client FundamentalsClient
	config *common.MarketsConfig
	logger arbor.ILogger
}

// NewService creates a financials service.
func NewService(client FundamentalsClient, config *common.MarketsConfig, logger arbor.ILogger) *Service {
	return &Service{
		client: client,
		config: config,
		logger: logger,
	}
}

// Snapshot normalizes the ticker, fetches fundamentals and derives the
// most-recent reporting periods. Periods missing revenue or net income are
// skipped; an empty result returns *models.DataUnavailableError.
func (s *Service) Snapshot(ctx context.Context, rawTicker string) (*models.FinancialSnapshot, error) {
	ticker := common.ParseTicker(rawTicker, s.config.DefaultSuffix)
	if ticker.IsZero() {
		return nil, &models.DataUnavailableError{Symbol: rawTicker}
	}
	symbol := ticker.Symbol()

	resp, err := s.client.GetFundamentals(ctx, symbol)
	if err != nil {
		s.logger.Warn().
			Str("symbol", symbol).
			Err(err).
			Msg("Fundamentals fetch failed")
		return nil, &models.DataUnavailableError{Symbol: symbol}
	}

	snapshot := &models.FinancialSnapshot{
		Symbol: symbol,
		Years:  s.deriveYears(resp),
	}

	if snapshot.IsEmpty() {
		s.logger.Warn().
			Str("symbol", symbol).
			Msg("No usable reporting periods in fundamentals")
		return nil, &models.DataUnavailableError{Symbol: symbol}
	}

	s.logger.Info().
		Str("symbol", symbol).
		Int("years", len(snapshot.Years)).
		Msg("Financial snapshot derived")

	return snapshot, nil
}

// deriveYears walks the yearly income statement newest-first and computes the
// crore-scaled figures for up to the configured number of periods.
func (s *Service) deriveYears(resp *eodhd.FundamentalsResponse) []models.YearRow {
	if resp == nil || resp.Financials == nil || resp.Financials.IncomeStatement == nil {
		return nil
	}

	income := resp.Financials.IncomeStatement.Yearly
	if len(income) == 0 {
		return nil
	}

	var balance map[string]map[string]interface{}
	if resp.Financials.BalanceSheet != nil {
		balance = resp.Financials.BalanceSheet.Yearly
	}

	dates := make([]string, 0, len(income))
	for date := range income {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	limit := s.config.Years
	if limit <= 0 {
		limit = 3
	}

	rows := make([]models.YearRow, 0, limit)
	for _, date := range dates {
		if len(rows) >= limit {
			break
		}

		column := income[date]
		revenue, hasRevenue := eodhd.ParseLineItem(column, eodhd.LineItemTotalRevenue)
		netIncome, hasNetIncome := eodhd.ParseLineItem(column, eodhd.LineItemNetIncome)
		if !hasRevenue || !hasNetIncome {
			// Partial period, usually a not-yet-filed fiscal year
			s.logger.Debug().
				Str("period", date).
				Msg("Skipping period with missing line items")
			continue
		}

		equity := equitySentinel
		if balance != nil {
			if v, ok := eodhd.ParseLineItem(balance[date], eodhd.LineItemStockholderEquity); ok && v != 0 {
				equity = v
			}
		}

		rows = append(rows, models.YearRow{
			Year: fiscalYearLabel(date),
			Figures: models.YearFigures{
				RevenueCr:   math.Round(revenue / 1e7),
				NetProfitCr: math.Round(netIncome / 1e7),
				ROEPercent:  math.Round(netIncome/equity*100*10) / 10,
			},
		})
	}

	return rows
}

// fiscalYearLabel reduces a period end date ("2025-03-31") to its year.
func fiscalYearLabel(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}
