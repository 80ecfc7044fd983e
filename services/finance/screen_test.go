package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreenKey(t *testing.T) {
	tests := []struct {
		criteria string
		want     string
	}{
		// aliases
		{"gainers", "day_gainers"},
		{"Top Gainers", "day_gainers"},
		{"most active", "most_actives"},
		{"undervalued growth", "undervalued_growth_stocks"},
		{"undervalued", "undervalued_large_caps"},
		{"tech", "growth_technology_stocks"},
		{"small cap", "small_cap_gainers"},
		// already-valid identifiers pass through
		{"day_losers", "day_losers"},
		{"high yield bond", "high_yield_bond"},
		// keyword fallbacks
		{"biggest losers today", "day_losers"},
		{"growth picks", "undervalued_growth_stocks"},
		{"something unrelated", "day_gainers"},
		// empty means the default strategy
		{"", "undervalued_growth_stocks"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScreenKey(tt.criteria), "criteria %q", tt.criteria)
	}
}
