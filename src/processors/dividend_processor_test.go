package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/divilog/backend/src/models"
)

func div(name string, class models.CurrencyClass, amount, date string) models.Dividend {
	return models.Dividend{StockName: name, Type: class, Amount: amount, Date: date}
}

func TestCalculateEmptyInput(t *testing.T) {
	p := NewDividendProcessor()

	assert.Equal(t, models.Asset{}, p.Calculate(nil))
	assert.Equal(t, models.Asset{}, p.Calculate([]models.Dividend{}))
	assert.Empty(t, p.CalculateDaily(nil))

	labels, sums := p.CalculateByStock(nil, models.CurrencyJapan)
	assert.Empty(t, labels)
	assert.Empty(t, sums)
}

func TestCalculateFlatTotals(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("積水ハウス", models.CurrencyJapan, "100", "2024-02-05"),
		div("VZ", models.CurrencyUsa, "10", "2024-02-05"),
		div("INPEX", models.CurrencyJapan, "50", "2024-02-06"),
	}

	got := p.Calculate(input)
	assert.Equal(t, models.Asset{Japan: 150, Usa: 10, Balance: 160}, got)
}

func TestCalculateBalanceInvariant(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("A", models.CurrencyJapan, "12.5", "2024-01-01"),
		div("B", models.CurrencyUsa, "3.25", "2024-01-02"),
		div("C", models.CurrencyUsa, "0", "2024-01-02"),
		div("D", models.CurrencyJapan, "990", "2024-01-03"),
	}

	flat := p.Calculate(input)
	assert.Equal(t, flat.Japan+flat.Usa, flat.Balance)

	for date, day := range p.CalculateDaily(input) {
		assert.Equalf(t, day.Japan+day.Usa, day.Balance, "balance invariant broken for %s", date)
	}
}

func TestCalculateIdempotentAndOrderIndependent(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("A", models.CurrencyJapan, "100", "2024-02-05"),
		div("B", models.CurrencyUsa, "10", "2024-02-05"),
		div("C", models.CurrencyJapan, "50", "2024-02-06"),
		div("D", models.CurrencyUsa, "7.75", "2024-02-07"),
	}
	reversed := []models.Dividend{input[3], input[2], input[1], input[0]}

	assert.Equal(t, p.Calculate(input), p.Calculate(input))
	assert.Equal(t, p.Calculate(input), p.Calculate(reversed))
	assert.Equal(t, p.CalculateDaily(input), p.CalculateDaily(reversed))

	_, sums := p.CalculateByStock(input, models.CurrencyUsa)
	_, sumsReversed := p.CalculateByStock(reversed, models.CurrencyUsa)
	assert.Equal(t, sums, sumsReversed)
}

func TestCalculateDailyScenario(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("積水ハウス", models.CurrencyJapan, "100", "2024-02-05"),
		div("VZ", models.CurrencyUsa, "10", "2024-02-05"),
		div("INPEX", models.CurrencyJapan, "50", "2024-02-06"),
	}

	got := p.CalculateDaily(input)
	want := models.DailyAssetResult{
		"2024-02-05": {Japan: 100, Usa: 10, Balance: 110},
		"2024-02-06": {Japan: 50, Usa: 0, Balance: 50},
	}
	assert.Equal(t, want, got)
}

func TestCalculateMalformedAmountCountsAsZero(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("A", models.CurrencyJapan, "abc", "2024-02-05"),
		div("B", models.CurrencyJapan, "", "2024-02-05"),
		div("C", models.CurrencyUsa, "10", "2024-02-05"),
	}

	got := p.Calculate(input)
	assert.Equal(t, models.Asset{Japan: 0, Usa: 10, Balance: 10}, got)

	daily := p.CalculateDaily(input)
	require.Contains(t, daily, "2024-02-05")
	assert.Equal(t, models.Asset{Japan: 0, Usa: 10, Balance: 10}, daily["2024-02-05"])
}

func TestCalculateNonFiniteAmountCountsAsZero(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("A", models.CurrencyJapan, "NaN", "2024-02-05"),
		div("B", models.CurrencyJapan, "Inf", "2024-02-05"),
		div("C", models.CurrencyUsa, "-Inf", "2024-02-05"),
		div("D", models.CurrencyUsa, "10", "2024-02-05"),
	}

	// ParseFloat parses these strings, but letting them through would make
	// every total NaN or infinite and the result unencodable as JSON.
	got := p.Calculate(input)
	assert.Equal(t, models.Asset{Japan: 0, Usa: 10, Balance: 10}, got)

	labels, sums := p.CalculateByStock(input, models.CurrencyJapan)
	assert.Equal(t, []string{"A", "B"}, labels)
	assert.Equal(t, 0.0, sums["A"])
	assert.Equal(t, 0.0, sums["B"])
}

func TestCalculateUnknownCurrencyClassIgnored(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("A", models.CurrencyClass("europe"), "999", "2024-02-05"),
		div("B", models.CurrencyJapan, "100", "2024-02-05"),
	}

	assert.Equal(t, models.Asset{Japan: 100, Usa: 0, Balance: 100}, p.Calculate(input))

	daily := p.CalculateDaily(input)
	assert.Equal(t, models.Asset{Japan: 100, Usa: 0, Balance: 100}, daily["2024-02-05"])

	// A day whose only record has an unknown class stays absent.
	onlyUnknown := []models.Dividend{div("A", models.CurrencyClass("europe"), "999", "2024-02-09")}
	assert.Empty(t, p.CalculateDaily(onlyUnknown))
}

func TestFilterByMonthBoundaries(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("A", models.CurrencyJapan, "1", "2024-01-31"),
		div("B", models.CurrencyJapan, "2", "2024-02-01"),
		div("C", models.CurrencyJapan, "3", "2024-02-29"),
		div("D", models.CurrencyJapan, "4", "2024-03-01"),
	}

	got := p.FilterByMonth(input, 2024, time.February)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-02-01", got[0].Date)
	assert.Equal(t, "2024-02-29", got[1].Date)

	// Position in the input must not matter.
	shuffled := []models.Dividend{input[3], input[2], input[0], input[1]}
	got = p.FilterByMonth(shuffled, 2024, time.February)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-02-29", got[0].Date)
	assert.Equal(t, "2024-02-01", got[1].Date)

	assert.Empty(t, p.FilterByMonth(input, 2024, time.April))
	assert.Empty(t, p.FilterByMonth(nil, 2024, time.February))
}

func TestFilterByDate(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("A", models.CurrencyJapan, "1", "2024-02-05"),
		div("B", models.CurrencyUsa, "2", "2024-02-06"),
		div("C", models.CurrencyJapan, "3", "2024-02-05"),
	}

	got := p.FilterByDate(input, "2024-02-05")
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].StockName)
	assert.Equal(t, "C", got[1].StockName)

	assert.Empty(t, p.FilterByDate(input, "2024-02-07"))
}

func TestCalculateByStock(t *testing.T) {
	p := NewDividendProcessor()
	input := []models.Dividend{
		div("VZ", models.CurrencyUsa, "10", "2024-02-01"),
		div("積水ハウス", models.CurrencyJapan, "100", "2024-02-02"),
		div("MMM", models.CurrencyUsa, "5", "2024-02-03"),
		div("VZ", models.CurrencyUsa, "2.5", "2024-02-20"),
		div("Unlisted Corp", models.CurrencyUsa, "abc", "2024-02-21"),
	}

	labels, sums := p.CalculateByStock(input, models.CurrencyUsa)
	assert.Equal(t, []string{"VZ", "MMM", "Unlisted Corp"}, labels)
	assert.Equal(t, models.StockSumResult{"VZ": 12.5, "MMM": 5, "Unlisted Corp": 0}, sums)

	labels, sums = p.CalculateByStock(input, models.CurrencyJapan)
	assert.Equal(t, []string{"積水ハウス"}, labels)
	assert.Equal(t, models.StockSumResult{"積水ハウス": 100}, sums)
}
