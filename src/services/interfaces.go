// backend/src/services/interfaces.go
package services

import (
	"errors"
	"time"

	"github.com/username/divilog/backend/src/models"
)

// Define common service errors. Every store query is already scoped to the
// requesting user, so a row owned by someone else is indistinguishable from
// a missing one and both surface as ErrNotFound.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateRow = errors.New("duplicate registry entry")
)

// DividendService is the record store boundary: every query and mutation is
// scoped to one user. List results are cached per user and invalidated on
// any mutation, so summary endpoints see a consistent snapshot without
// re-querying on every call.
type DividendService interface {
	ListDividends(userID int64) ([]models.Dividend, error)
	CreateDividend(dividend *models.Dividend) error
	UpdateDividend(dividend *models.Dividend) error
	DeleteDividend(userID, dividendID int64) error

	ListStocks(userID int64) ([]models.Stock, error)
	CreateStock(stock *models.Stock) error
	UpdateStock(stock *models.Stock) error
	DeleteStock(userID, stockID int64) error

	// HasData reports whether the user has logged anything yet (drives the
	// frontend's empty-state screens).
	HasData(userID int64) (bool, error)

	// InvalidateUserCache drops the user's cached snapshots. Mutations call
	// it internally; it is exposed for account-level operations.
	InvalidateUserCache(userID int64)
}

// SummaryService composes the month filter, the aggregation core and the
// currency normalizer into the payloads the dashboard renders.
type SummaryService interface {
	MonthlySummary(userID int64, year int, month time.Month) (*models.SummaryResult, error)
	TotalSummary(userID int64) (*models.SummaryResult, error)
	DailyBreakdown(userID int64, date string) (*models.DailyBreakdownResult, error)
	Calendar(userID int64, year int, month time.Month) (*models.CalendarResult, error)
	StockBreakdown(userID int64, year int, month time.Month, class models.CurrencyClass) (*models.StockBreakdownResult, error)
}

// RateProvider supplies the user's configured USD/JPY rate string. An empty
// string means no rate is configured and conversion is unavailable.
type RateProvider interface {
	UsdJpyRate(userID int64) (string, error)
}

// EmailService sends the account lifecycle emails.
type EmailService interface {
	SendVerificationEmail(toEmail, username, token string) error
	SendPasswordResetEmail(toEmail, username, token string) error
}
