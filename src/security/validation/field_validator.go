// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/username/divilog/backend/src/models"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxStockNameLength = 100
	MaxStockCodeLength = 16
	MaxMemoLength      = 500
	MaxAmountValue     = 1_000_000_000
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// --- Domain Validators ---

// ValidateCurrencyClass checks that the class is one of the two supported
// markets. Anything else is rejected here so it can never reach the store;
// the aggregator still ignores unknown classes defensively for legacy rows.
func ValidateCurrencyClass(c models.CurrencyClass) error {
	if !c.IsValid() {
		return fmt.Errorf("%w: type must be %q or %q, got %q", ErrValidationFailed, models.CurrencyJapan, models.CurrencyUsa, c)
	}
	return nil
}

// ValidateAmountString parses a dividend amount and checks it is a
// non-negative number within sane bounds. The raw string is what gets
// stored; this gate only decides whether it may be stored.
func ValidateAmountString(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fmt.Errorf("%w: amount cannot be empty", ErrValidationFailed)
	}
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fmt.Errorf("%w: amount ('%s') is not a valid number", ErrValidationFailed, s)
	}
	// ParseFloat accepts "NaN" and "Inf" spellings; neither is a usable
	// amount and NaN slips past every range comparison below.
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%w: amount ('%s') is not a finite number", ErrValidationFailed, s)
	}
	if val < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidationFailed)
	}
	if val > MaxAmountValue {
		return fmt.Errorf("%w: amount must not exceed %d", ErrValidationFailed, MaxAmountValue)
	}
	return nil
}

// ValidateISODate checks if a string is a valid date in "YYYY-MM-DD" format.
func ValidateISODate(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD): %v", ErrValidationFailed, fieldName, s, err)
	}
	if t.Format("2006-01-02") != trimmed {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is an invalid date (e.g., day/month mismatch)", ErrValidationFailed, fieldName, s)
	}
	return t, nil
}

var stockCodeRegex = regexp.MustCompile(`^[A-Za-z0-9.\-]+$`)

// ValidateStockCode checks format and length for a registry ticker code.
func ValidateStockCode(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "code"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxStockCodeLength, "code"); err != nil {
		return err
	}
	if !stockCodeRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: code ('%s') is not in the expected format (alphanumeric with dots/hyphens)", ErrValidationFailed, s)
	}
	return nil
}

// ValidateDividend runs every write-path check for a dividend payload.
func ValidateDividend(d *models.Dividend) error {
	if err := ValidateStringNotEmpty(d.StockName, "stock_name"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(d.StockName, MaxStockNameLength, "stock_name"); err != nil {
		return err
	}
	if err := ValidateCurrencyClass(d.Type); err != nil {
		return err
	}
	if err := ValidateAmountString(d.Amount); err != nil {
		return err
	}
	if _, err := ValidateISODate(d.Date, "date"); err != nil {
		return err
	}
	return ValidateStringMaxLength(d.Memo, MaxMemoLength, "memo")
}

// ValidateStock runs every write-path check for a registry entry payload.
func ValidateStock(s *models.Stock) error {
	if err := ValidateCurrencyClass(s.Type); err != nil {
		return err
	}
	if err := ValidateStockCode(s.Code); err != nil {
		return err
	}
	if err := ValidateStringNotEmpty(s.Name, "name"); err != nil {
		return err
	}
	return ValidateStringMaxLength(s.Name, MaxStockNameLength, "name")
}
