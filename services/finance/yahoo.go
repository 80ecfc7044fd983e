package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches quotes and news from Yahoo Finance's public JSON
// endpoints.
type YahooClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewYahooClient returns a MarketDataService backed by Yahoo Finance.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		BaseURL: defaultYahooBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				LongName             string  `json:"longName"`
				Currency             string  `json:"currency"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type screenResponse struct {
	Finance struct {
		Result []struct {
			Quotes []struct {
				Symbol                     string  `json:"symbol"`
				ShortName                  string  `json:"shortName"`
				RegularMarketPrice         float64 `json:"regularMarketPrice"`
				RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			} `json:"quotes"`
		} `json:"result"`
	} `json:"finance"`
}

type searchResponse struct {
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
		Link      string `json:"link"`
	} `json:"news"`
}

func (c *YahooClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "finance-agent-whatsapp-bot/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("market data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market data request returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode market data response: %w", err)
	}
	return nil
}

func (c *YahooClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var cr chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), &cr); err != nil {
		return nil, err
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("no data for %s: %s", symbol, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data for %s", symbol)
	}

	meta := cr.Chart.Result[0].Meta
	return &Quote{
		Symbol:    meta.Symbol,
		Name:      meta.LongName,
		Price:     meta.RegularMarketPrice,
		Currency:  meta.Currency,
		DayHigh:   meta.RegularMarketDayHigh,
		DayLow:    meta.RegularMarketDayLow,
		PrevClose: meta.ChartPreviousClose,
	}, nil
}

func (c *YahooClient) Quotes(ctx context.Context, symbols []string) ([]Quote, error) {
	var quotes []Quote
	for _, sym := range symbols {
		q, err := c.Quote(ctx, sym)
		if err != nil {
			return quotes, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, nil
}

func (c *YahooClient) News(ctx context.Context, query string) ([]NewsItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("newsCount", "5")

	var sr searchResponse
	if err := c.get(ctx, "/v1/finance/search?"+params.Encode(), &sr); err != nil {
		return nil, err
	}

	var items []NewsItem
	for _, n := range sr.News {
		items = append(items, NewsItem{Title: n.Title, Publisher: n.Publisher, Link: n.Link})
	}
	return items, nil
}

// Screen runs one of Yahoo's predefined screeners. key must be a valid
// screener identifier; resolve free-form text with ScreenKey first.
func (c *YahooClient) Screen(ctx context.Context, key string) ([]ScreenResult, error) {
	params := url.Values{}
	params.Set("scrIds", key)
	params.Set("count", "5")

	var sr screenResponse
	if err := c.get(ctx, "/v1/finance/screener/predefined/saved?"+params.Encode(), &sr); err != nil {
		return nil, err
	}

	var results []ScreenResult
	for _, res := range sr.Finance.Result {
		for _, q := range res.Quotes {
			name := q.ShortName
			if name == "" {
				name = q.Symbol
			}
			results = append(results, ScreenResult{
				Symbol:        q.Symbol,
				Name:          name,
				Price:         q.RegularMarketPrice,
				ChangePercent: q.RegularMarketChangePercent,
			})
		}
	}
	return results, nil
}
