package models

// SummaryResult is the payload for the monthly and all-time summary cards.
// ConvertedJpy and GrandTotal are only present when the user has a usable
// USD/JPY rate configured; absence means "no rate", not zero.
type SummaryResult struct {
	Japan        float64  `json:"japan"`
	Usa          float64  `json:"usa"`
	Balance      float64  `json:"balance"`
	ConvertedJpy *float64 `json:"converted_jpy,omitempty"`
	GrandTotal   *float64 `json:"grand_total,omitempty"`
}

// DailyBreakdownResult itemizes one selected day: the raw records for the
// drawer list plus the day's subtotal card.
type DailyBreakdownResult struct {
	Date      string     `json:"date"`
	Dividends []Dividend `json:"dividends"`
	Total     Asset      `json:"total"`
}

// CalendarResult carries the per-day totals for one month. Dates lists the
// keys of Days in ascending order so clients do not depend on JSON map
// ordering.
type CalendarResult struct {
	Dates []string         `json:"dates"`
	Days  DailyAssetResult `json:"days"`
}

// StockBreakdownResult is the label/value series the pie chart consumes.
// Labels keep first-occurrence insertion order.
type StockBreakdownResult struct {
	Type   CurrencyClass `json:"type"`
	Labels []string      `json:"labels"`
	Values []float64     `json:"values"`
}
