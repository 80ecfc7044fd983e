package finance

import "strings"

// screenAliases maps conversational strategy names onto Yahoo's predefined
// screener identifiers.
var screenAliases = map[string]string{
	"undervalued growth": "undervalued_growth_stocks",
	"growth stocks":      "undervalued_growth_stocks",
	"gainers":            "day_gainers",
	"top gainers":        "day_gainers",
	"losers":             "day_losers",
	"actives":            "most_actives",
	"most active":        "most_actives",
	"shorted":            "most_shorted_stocks",
	"tech":               "growth_technology_stocks",
	"technology":         "growth_technology_stocks",
	"undervalued":        "undervalued_large_caps",
	"small cap":          "small_cap_gainers",
}

// validScreenKeys is the set of identifiers the predefined screener accepts;
// anything else comes back as a 404.
var validScreenKeys = map[string]struct{}{
	"aggressive_small_caps":      {},
	"conservative_foreign_funds": {},
	"day_gainers":                {},
	"day_losers":                 {},
	"growth_technology_stocks":   {},
	"high_yield_bond":            {},
	"most_actives":               {},
	"most_shorted_stocks":        {},
	"portfolio_anchors":          {},
	"small_cap_gainers":          {},
	"top_mutual_funds":           {},
	"undervalued_growth_stocks":  {},
	"undervalued_large_caps":     {},
}

// ScreenKey resolves free-form criteria text to a valid predefined screener
// identifier. Unrecognized criteria fall through keyword matching and finally
// default to day_gainers, so the resulting key never 404s.
func ScreenKey(criteria string) string {
	key := strings.ToLower(strings.TrimSpace(criteria))
	if key == "" {
		return "undervalued_growth_stocks"
	}
	if mapped, ok := screenAliases[key]; ok {
		return mapped
	}
	key = strings.ReplaceAll(key, " ", "_")
	if _, ok := validScreenKeys[key]; ok {
		return key
	}

	switch {
	case strings.Contains(key, "growth"):
		return "undervalued_growth_stocks"
	case strings.Contains(key, "undervalued"):
		return "undervalued_large_caps"
	case strings.Contains(key, "active"):
		return "most_actives"
	case strings.Contains(key, "loser"):
		return "day_losers"
	case strings.Contains(key, "gainer"):
		return "day_gainers"
	case strings.Contains(key, "tech"):
		return "growth_technology_stocks"
	case strings.Contains(key, "small"):
		return "small_cap_gainers"
	default:
		return "day_gainers"
	}
}
