package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/divilog/backend/src/models"
	"github.com/username/divilog/backend/src/processors"
)

// fakeDividendService serves a fixed snapshot without touching the store.
type fakeDividendService struct {
	DividendService
	dividends []models.Dividend
}

func (f *fakeDividendService) ListDividends(userID int64) ([]models.Dividend, error) {
	return f.dividends, nil
}

// fakeRateProvider returns a fixed rate string for every user.
type fakeRateProvider struct {
	rate string
}

func (f *fakeRateProvider) UsdJpyRate(userID int64) (string, error) {
	return f.rate, nil
}

func newTestSummaryService(dividends []models.Dividend, rate string) SummaryService {
	return NewSummaryService(
		&fakeDividendService{dividends: dividends},
		&fakeRateProvider{rate: rate},
		processors.NewDividendProcessor(),
		processors.NewExchangeRateProcessor(),
	)
}

func testDividends() []models.Dividend {
	return []models.Dividend{
		{StockName: "積水ハウス", Type: models.CurrencyJapan, Amount: "100", Date: "2024-02-05"},
		{StockName: "VZ", Type: models.CurrencyUsa, Amount: "10", Date: "2024-02-05"},
		{StockName: "INPEX", Type: models.CurrencyJapan, Amount: "50", Date: "2024-02-06"},
		{StockName: "MMM", Type: models.CurrencyUsa, Amount: "4", Date: "2024-03-01"},
	}
}

func TestMonthlySummaryWithRate(t *testing.T) {
	svc := newTestSummaryService(testDividends(), "150")

	got, err := svc.MonthlySummary(1, 2024, time.February)
	require.NoError(t, err)

	assert.Equal(t, 150.0, got.Japan)
	assert.Equal(t, 10.0, got.Usa)
	assert.Equal(t, 160.0, got.Balance)
	require.NotNil(t, got.ConvertedJpy)
	require.NotNil(t, got.GrandTotal)
	assert.Equal(t, 1500.0, *got.ConvertedJpy)
	assert.Equal(t, 1650.0, *got.GrandTotal)
}

func TestMonthlySummaryWithoutRate(t *testing.T) {
	svc := newTestSummaryService(testDividends(), "")

	got, err := svc.MonthlySummary(1, 2024, time.February)
	require.NoError(t, err)

	assert.Equal(t, 160.0, got.Balance)
	assert.Nil(t, got.ConvertedJpy, "no rate must mean no converted figure, not zero")
	assert.Nil(t, got.GrandTotal)
}

func TestTotalSummarySpansAllMonths(t *testing.T) {
	svc := newTestSummaryService(testDividends(), "100")

	got, err := svc.TotalSummary(1)
	require.NoError(t, err)

	assert.Equal(t, 150.0, got.Japan)
	assert.Equal(t, 14.0, got.Usa)
	assert.Equal(t, 164.0, got.Balance)
	require.NotNil(t, got.GrandTotal)
	assert.Equal(t, 1550.0, *got.GrandTotal)
}

func TestDailyBreakdown(t *testing.T) {
	svc := newTestSummaryService(testDividends(), "")

	got, err := svc.DailyBreakdown(1, "2024-02-05")
	require.NoError(t, err)

	require.Len(t, got.Dividends, 2)
	assert.Equal(t, models.Asset{Japan: 100, Usa: 10, Balance: 110}, got.Total)

	empty, err := svc.DailyBreakdown(1, "2024-02-09")
	require.NoError(t, err)
	assert.Empty(t, empty.Dividends)
	assert.Equal(t, models.Asset{}, empty.Total)
}

func TestCalendarSortsDates(t *testing.T) {
	svc := newTestSummaryService(testDividends(), "")

	got, err := svc.Calendar(1, 2024, time.February)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-02-05", "2024-02-06"}, got.Dates)
	assert.Equal(t, models.Asset{Japan: 100, Usa: 10, Balance: 110}, got.Days["2024-02-05"])
	assert.Equal(t, models.Asset{Japan: 50, Usa: 0, Balance: 50}, got.Days["2024-02-06"])
}

func TestStockBreakdownSeries(t *testing.T) {
	svc := newTestSummaryService(testDividends(), "")

	got, err := svc.StockBreakdown(1, 2024, time.February, models.CurrencyJapan)
	require.NoError(t, err)

	assert.Equal(t, []string{"積水ハウス", "INPEX"}, got.Labels)
	assert.Equal(t, []float64{100, 50}, got.Values)

	usa, err := svc.StockBreakdown(1, 2024, time.March, models.CurrencyUsa)
	require.NoError(t, err)
	assert.Equal(t, []string{"MMM"}, usa.Labels)
	assert.Equal(t, []float64{4}, usa.Values)
}
