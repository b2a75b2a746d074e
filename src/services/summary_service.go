// backend/src/services/summary_service.go
package services

import (
	"database/sql"
	"sort"
	"time"

	"github.com/username/divilog/backend/src/model"
	"github.com/username/divilog/backend/src/models"
	"github.com/username/divilog/backend/src/processors"
)

// userRateProvider reads the rate setting from the users table.
type userRateProvider struct {
	db *sql.DB
}

func NewUserRateProvider(db *sql.DB) RateProvider {
	return &userRateProvider{db: db}
}

func (p *userRateProvider) UsdJpyRate(userID int64) (string, error) {
	user, err := model.GetUserByID(p.db, userID)
	if err != nil {
		return "", err
	}
	return user.UsdJpyRate, nil
}

// summaryServiceImpl composes the aggregation core over the user's record
// snapshot. All heavy lifting happens in the processors package; this layer
// only fetches the snapshot, applies the stage pipeline and shapes the
// response payloads.
type summaryServiceImpl struct {
	dividendService   DividendService
	rateProvider      RateProvider
	dividendProcessor processors.DividendProcessor
	rateProcessor     processors.ExchangeRateProcessor
}

func NewSummaryService(
	dividendService DividendService,
	rateProvider RateProvider,
	dividendProcessor processors.DividendProcessor,
	rateProcessor processors.ExchangeRateProcessor,
) SummaryService {
	return &summaryServiceImpl{
		dividendService:   dividendService,
		rateProvider:      rateProvider,
		dividendProcessor: dividendProcessor,
		rateProcessor:     rateProcessor,
	}
}

// withConversion attaches the converted and grand-total figures to a flat
// Asset when a usable rate exists.
func (s *summaryServiceImpl) withConversion(asset models.Asset, rate string) *models.SummaryResult {
	result := &models.SummaryResult{
		Japan:   asset.Japan,
		Usa:     asset.Usa,
		Balance: asset.Balance,
	}
	if converted, ok := s.rateProcessor.Convert(asset.Usa, rate); ok {
		grand := converted + asset.Japan
		result.ConvertedJpy = &converted
		result.GrandTotal = &grand
	}
	return result
}

func (s *summaryServiceImpl) MonthlySummary(userID int64, year int, month time.Month) (*models.SummaryResult, error) {
	dividends, err := s.dividendService.ListDividends(userID)
	if err != nil {
		return nil, err
	}
	rate, err := s.rateProvider.UsdJpyRate(userID)
	if err != nil {
		return nil, err
	}

	monthly := s.dividendProcessor.FilterByMonth(dividends, year, month)
	return s.withConversion(s.dividendProcessor.Calculate(monthly), rate), nil
}

func (s *summaryServiceImpl) TotalSummary(userID int64) (*models.SummaryResult, error) {
	dividends, err := s.dividendService.ListDividends(userID)
	if err != nil {
		return nil, err
	}
	rate, err := s.rateProvider.UsdJpyRate(userID)
	if err != nil {
		return nil, err
	}

	return s.withConversion(s.dividendProcessor.Calculate(dividends), rate), nil
}

func (s *summaryServiceImpl) DailyBreakdown(userID int64, date string) (*models.DailyBreakdownResult, error) {
	dividends, err := s.dividendService.ListDividends(userID)
	if err != nil {
		return nil, err
	}

	daily := s.dividendProcessor.FilterByDate(dividends, date)
	return &models.DailyBreakdownResult{
		Date:      date,
		Dividends: daily,
		Total:     s.dividendProcessor.Calculate(daily),
	}, nil
}

func (s *summaryServiceImpl) Calendar(userID int64, year int, month time.Month) (*models.CalendarResult, error) {
	dividends, err := s.dividendService.ListDividends(userID)
	if err != nil {
		return nil, err
	}

	monthly := s.dividendProcessor.FilterByMonth(dividends, year, month)
	days := s.dividendProcessor.CalculateDaily(monthly)

	// ISO dates sort chronologically as strings.
	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	return &models.CalendarResult{Dates: dates, Days: days}, nil
}

func (s *summaryServiceImpl) StockBreakdown(userID int64, year int, month time.Month, class models.CurrencyClass) (*models.StockBreakdownResult, error) {
	dividends, err := s.dividendService.ListDividends(userID)
	if err != nil {
		return nil, err
	}

	monthly := s.dividendProcessor.FilterByMonth(dividends, year, month)
	labels, sums := s.dividendProcessor.CalculateByStock(monthly, class)

	values := make([]float64, 0, len(labels))
	for _, label := range labels {
		values = append(values, sums[label])
	}

	return &models.StockBreakdownResult{
		Type:   class,
		Labels: labels,
		Values: values,
	}, nil
}
