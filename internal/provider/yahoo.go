package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"

	"leapscan/internal/ratelimit"
	"leapscan/internal/trace"
	"leapscan/pkg/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// historyYears is how far back the close history reaches. Five years of
// daily closes is enough for a meaningful all-time-high reference.
const historyYears = 5

// YahooProvider fetches daily close history from the Yahoo chart API and
// fundamentals (market cap, company name, next earnings date) through the
// quote endpoint.
type YahooProvider struct {
	client    *http.Client
	limiter   *ratelimit.Limiter
	baseURL   string
	rateLimit int

	// quoteFn is swappable so tests run without the network
	quoteFn func(symbol string) (*finance.Equity, error)
}

// NewYahooProvider creates a new Yahoo Finance provider
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   ratelimit.New("yahoo", 30), // Conservative rate limit
		baseURL:   defaultYahooBaseURL,
		rateLimit: 30,
		quoteFn:   equity.Get,
	}
}

// Name returns the provider name
func (p *YahooProvider) Name() string {
	return "yahoo"
}

// IsAvailable always returns true (no API key needed)
func (p *YahooProvider) IsAvailable() bool {
	return true
}

// RateLimit returns the rate limit per minute
func (p *YahooProvider) RateLimit() int {
	return p.rateLimit
}

// chartResponse represents the Yahoo chart API response
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch returns the fundamentals record for one symbol
func (p *YahooProvider) Fetch(ctx context.Context, symbol string) (*model.TickerRecord, error) {
	ctx, span := trace.StartSpan(ctx, "yahoo-fetch")
	defer span.End()

	history, err := p.fetchHistory(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("empty price history")}
	}

	record := &model.TickerRecord{
		Symbol:       symbol,
		Name:         symbol,
		CurrentPrice: history[len(history)-1].Close,
		History:      history,
	}
	for _, pt := range history {
		if pt.Close > record.ATH {
			record.ATH = pt.Close
		}
	}

	q, err := p.quoteFn(symbol)
	if err != nil {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol,
			Err: fmt.Errorf("quote unavailable: %w", err), Retryable: true}
	}
	if q == nil {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol,
			Err: fmt.Errorf("quote unavailable: empty quote"), Retryable: true}
	}
	record.MarketCap = float64(q.MarketCap)
	if q.ShortName != "" {
		record.Name = q.ShortName
	}
	if q.EarningsTimestamp > 0 {
		t := time.Unix(int64(q.EarningsTimestamp), 0).UTC()
		record.EarningsDate = &t
	}

	return record, nil
}

// fetchHistory pulls daily closes for the trailing history window
func (p *YahooProvider) fetchHistory(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(-historyYears, 0, 0)

	url := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d&includePrePost=false",
		p.baseURL, symbol, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.limiter.SignalRateLimited()
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("rate limited"), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	p.limiter.ResetBackoff()

	var data chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("decoding response: %w", err)}
	}

	if data.Chart.Error != nil {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("%s", data.Chart.Error.Description)}
	}

	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Timestamp) == 0 {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("no data available")}
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("no quote data")}
	}

	closes := result.Indicators.Quote[0].Close
	history := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] <= 0 {
			continue // Yahoo leaves nulls for halted sessions
		}
		history = append(history, model.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		})
	}

	return history, nil
}
