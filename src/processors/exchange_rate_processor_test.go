package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertWithValidRate(t *testing.T) {
	p := NewExchangeRateProcessor()

	converted, ok := p.Convert(10, "150")
	assert.True(t, ok)
	assert.Equal(t, 1500.0, converted)

	converted, ok = p.Convert(0, "150")
	assert.True(t, ok)
	assert.Equal(t, 0.0, converted)

	converted, ok = p.Convert(3.5, " 140 ")
	assert.True(t, ok)
	assert.Equal(t, 490.0, converted)
}

func TestConvertWithoutUsableRate(t *testing.T) {
	p := NewExchangeRateProcessor()

	for _, rate := range []string{"", "   ", "abc", "150.5", "15O"} {
		converted, ok := p.Convert(10, rate)
		assert.Falsef(t, ok, "rate %q should be unusable", rate)
		assert.Zero(t, converted)
	}
}
