package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/divilog/backend/src/models"
)

func TestValidateISODate(t *testing.T) {
	_, err := ValidateISODate("2024-02-29", "date")
	assert.NoError(t, err)

	for _, bad := range []string{"", "2024-2-1", "2024-02-30", "2023-02-29", "15/02/2024", "2024-13-01"} {
		_, err := ValidateISODate(bad, "date")
		assert.Error(t, err, "input: %q", bad)
	}
}

func TestValidateAmountString(t *testing.T) {
	assert.NoError(t, ValidateAmountString("1200"))
	assert.NoError(t, ValidateAmountString(" 12.5 "))
	assert.NoError(t, ValidateAmountString("0"))

	for _, bad := range []string{"", "abc", "-5", "2000000000"} {
		assert.Error(t, ValidateAmountString(bad), "input: %q", bad)
	}

	// ParseFloat parses these, but none of them is a finite amount. NaN in
	// particular passes every range comparison and would break JSON encoding
	// of the summaries it flows into.
	for _, bad := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity"} {
		assert.ErrorIs(t, ValidateAmountString(bad), ErrValidationFailed, "input: %q", bad)
	}
}

func TestValidateStockCode(t *testing.T) {
	assert.NoError(t, ValidateStockCode("8901"))
	assert.NoError(t, ValidateStockCode("BRK.B"))
	assert.NoError(t, ValidateStockCode("MMM-X"))

	assert.Error(t, ValidateStockCode(""))
	assert.Error(t, ValidateStockCode("A B"))
	assert.Error(t, ValidateStockCode("12345678901234567"))
}

func TestValidateDividend(t *testing.T) {
	valid := models.Dividend{
		StockName: "Verizon",
		Type:      models.CurrencyUsa,
		Amount:    "12.5",
		Date:      "2024-02-15",
		Memo:      "quarterly",
	}
	require.NoError(t, ValidateDividend(&valid))

	unknownClass := valid
	unknownClass.Type = "europe"
	assert.ErrorIs(t, ValidateDividend(&unknownClass), ErrValidationFailed)

	badDate := valid
	badDate.Date = "2024-02-30"
	assert.ErrorIs(t, ValidateDividend(&badDate), ErrValidationFailed)
}

func TestValidateStock(t *testing.T) {
	valid := models.Stock{Type: models.CurrencyJapan, Code: "8901", Name: "Mitsubishi Corp"}
	require.NoError(t, ValidateStock(&valid))

	noName := valid
	noName.Name = "  "
	assert.ErrorIs(t, ValidateStock(&noName), ErrValidationFailed)

	badCode := valid
	badCode.Code = "89 01"
	assert.ErrorIs(t, ValidateStock(&badCode), ErrValidationFailed)
}
