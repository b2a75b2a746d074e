// backend/src/processors/interfaces.go
package processors

import (
	"time"

	"github.com/username/divilog/backend/src/models"
)

// DividendProcessor is the pure aggregation core. Every method is a
// stateless function over a snapshot of the caller's records: no store
// access, no caching, no errors. Malformed amounts count as zero and
// unrecognized currency classes contribute to neither bucket, so a bad row
// can degrade a total but never fail a request.
type DividendProcessor interface {
	// FilterByMonth returns the records dated inside the given calendar
	// month, preserving input order.
	FilterByMonth(dividends []models.Dividend, year int, month time.Month) []models.Dividend

	// FilterByDate returns the records dated exactly on the given ISO date,
	// preserving input order.
	FilterByDate(dividends []models.Dividend, date string) []models.Dividend

	// Calculate reduces the whole input into a single Asset.
	Calculate(dividends []models.Dividend) models.Asset

	// CalculateDaily groups the input by date. Days without records do not
	// appear as keys.
	CalculateDaily(dividends []models.Dividend) models.DailyAssetResult

	// CalculateByStock sums amounts per stock name for one currency class.
	// The returned labels keep first-occurrence order over the input.
	CalculateByStock(dividends []models.Dividend, class models.CurrencyClass) ([]string, models.StockSumResult)
}

// ExchangeRateProcessor converts a USD total into JPY using the
// user-entered JPY-per-USD rate string.
type ExchangeRateProcessor interface {
	// Convert returns the JPY equivalent of usaTotal. The second return is
	// false when no usable rate is configured; callers must then omit the
	// converted figure instead of showing zero.
	Convert(usaTotal float64, rate string) (float64, bool)
}
