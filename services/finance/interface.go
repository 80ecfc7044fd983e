package finance

import "context"

// Quote is a point-in-time snapshot for one ticker.
type Quote struct {
	Symbol    string
	Name      string
	Price     float64
	Currency  string
	DayHigh   float64
	DayLow    float64
	PrevClose float64
}

// NewsItem is one headline from a market-news search.
type NewsItem struct {
	Title     string
	Publisher string
	Link      string
}

// ScreenResult is one row returned by a predefined market screen.
type ScreenResult struct {
	Symbol        string
	Name          string
	Price         float64
	ChangePercent float64
}

// MarketDataService provides the finance lookups the agent tools rely on.
type MarketDataService interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Quotes(ctx context.Context, symbols []string) ([]Quote, error)
	News(ctx context.Context, query string) ([]NewsItem, error)
	Screen(ctx context.Context, key string) ([]ScreenResult, error)
}
