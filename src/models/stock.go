package models

// Stock is a user-configured registry entry: a stock the user can select
// when logging a dividend. Code is a short ticker ("8901", "VZ"); Name is
// the display name dividends reference. The dividend table links to stocks
// by literal name only, so renaming a stock leaves old records grouped
// under the previous name.
type Stock struct {
	ID     int64         `json:"id,omitempty"`
	UserID int64         `json:"user_id,omitempty"`
	Type   CurrencyClass `json:"type"`
	Code   string        `json:"code"`
	Name   string        `json:"name"`
}
