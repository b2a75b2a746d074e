package models

// CurrencyClass partitions dividend records into the two supported markets.
// It doubles as the implicit currency unit: japan amounts are JPY, usa
// amounts are USD.
type CurrencyClass string

const (
	CurrencyJapan CurrencyClass = "japan"
	CurrencyUsa   CurrencyClass = "usa"
)

// IsValid reports whether the class is one of the two supported markets.
// Anything else is excluded from aggregation entirely.
func (c CurrencyClass) IsValid() bool {
	return c == CurrencyJapan || c == CurrencyUsa
}

// Dividend represents one logged dividend payment.
// Amount is kept as the raw string the user entered; the aggregation layer
// parses it defensively (non-numeric values count as zero).
type Dividend struct {
	ID        int64         `json:"id,omitempty"` // Database primary key
	UserID    int64         `json:"user_id,omitempty"`
	StockName string        `json:"stock_name"`
	Type      CurrencyClass `json:"type"`
	Amount    string        `json:"amount"`
	Date      string        `json:"date"` // ISO date string (YYYY-MM-DD)
	Memo      string        `json:"memo,omitempty"`
}

// Asset is the three-bucket total produced by every aggregation operation.
// Balance is always Japan + Usa at identical scale; no currency conversion
// happens at this layer.
type Asset struct {
	Japan   float64 `json:"japan"`
	Usa     float64 `json:"usa"`
	Balance float64 `json:"balance"`
}

// DailyAssetResult maps an ISO date string to the Asset accumulated on that
// day. Days without records do not appear as keys.
type DailyAssetResult map[string]Asset

// StockSumResult maps a stock display name to its summed amount for a single
// currency class.
type StockSumResult map[string]float64
