package processors

import (
	"strconv"
	"strings"
)

// exchangeRateProcessorImpl implements the ExchangeRateProcessor interface.
type exchangeRateProcessorImpl struct{}

// NewExchangeRateProcessor creates a new instance of ExchangeRateProcessor.
func NewExchangeRateProcessor() ExchangeRateProcessor {
	return &exchangeRateProcessorImpl{}
}

// Convert multiplies usaTotal by the configured JPY-per-USD rate. The rate
// is user-entered free text and is interpreted as a whole number; an empty
// or non-integer rate means conversion is unavailable, which is distinct
// from a converted value of zero.
func (p *exchangeRateProcessorImpl) Convert(usaTotal float64, rate string) (float64, bool) {
	trimmed := strings.TrimSpace(rate)
	if trimmed == "" {
		return 0, false
	}
	r, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return usaTotal * float64(r), true
}
