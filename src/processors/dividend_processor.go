package processors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/username/divilog/backend/src/models"
)

// dividendProcessorImpl implements the DividendProcessor interface.
type dividendProcessorImpl struct{}

// NewDividendProcessor creates a new instance of DividendProcessor.
func NewDividendProcessor() DividendProcessor {
	return &dividendProcessorImpl{}
}

// parseAmount converts a stored amount string to a float64, treating
// anything unparseable (including empty strings) as zero. Validation on the
// write path rejects bad amounts, but rows that predate it must still
// aggregate without failing. NaN and infinities also count as zero: a
// single such value would otherwise contaminate every total it flows into
// and make the summary payload unencodable as JSON.
func parseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// monthPrefix formats (year, month) as the "YYYY-MM" prefix shared by every
// ISO date inside that month.
func monthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

func (p *dividendProcessorImpl) FilterByMonth(dividends []models.Dividend, year int, month time.Month) []models.Dividend {
	prefix := monthPrefix(year, month)
	filtered := make([]models.Dividend, 0, len(dividends))
	for _, d := range dividends {
		if strings.HasPrefix(d.Date, prefix) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func (p *dividendProcessorImpl) FilterByDate(dividends []models.Dividend, date string) []models.Dividend {
	filtered := make([]models.Dividend, 0, len(dividends))
	for _, d := range dividends {
		if d.Date == date {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func (p *dividendProcessorImpl) Calculate(dividends []models.Dividend) models.Asset {
	var result models.Asset
	for _, d := range dividends {
		amount := parseAmount(d.Amount)
		switch d.Type {
		case models.CurrencyJapan:
			result.Japan += amount
		case models.CurrencyUsa:
			result.Usa += amount
		default:
			// Unknown currency class: counted in neither bucket.
		}
		result.Balance = result.Japan + result.Usa
	}
	return result
}

func (p *dividendProcessorImpl) CalculateDaily(dividends []models.Dividend) models.DailyAssetResult {
	result := make(models.DailyAssetResult)
	for _, d := range dividends {
		day := result[d.Date]
		amount := parseAmount(d.Amount)
		switch d.Type {
		case models.CurrencyJapan:
			day.Japan += amount
		case models.CurrencyUsa:
			day.Usa += amount
		default:
			continue
		}
		day.Balance = day.Japan + day.Usa
		result[d.Date] = day
	}
	return result
}

func (p *dividendProcessorImpl) CalculateByStock(dividends []models.Dividend, class models.CurrencyClass) ([]string, models.StockSumResult) {
	labels := make([]string, 0)
	sums := make(models.StockSumResult)
	for _, d := range dividends {
		if d.Type != class {
			continue
		}
		if _, seen := sums[d.StockName]; !seen {
			labels = append(labels, d.StockName)
		}
		sums[d.StockName] += parseAmount(d.Amount)
	}
	return labels, sums
}
