package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"leapscan/internal/ratelimit"
	"leapscan/internal/trace"
	"leapscan/pkg/model"
)

const defaultFinnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubProvider fetches daily close history from the Finnhub candle API
// and company name / market cap from the profile endpoint. Requires an API
// key; without one the provider reports unavailable and a fallback chain
// skips it.
type FinnhubProvider struct {
	apiKey    string
	client    *http.Client
	limiter   *ratelimit.Limiter
	baseURL   string
	rateLimit int
}

// NewFinnhubProvider creates a new Finnhub provider
func NewFinnhubProvider(apiKey string) *FinnhubProvider {
	return &FinnhubProvider{
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   ratelimit.New("finnhub", 60), // Free tier allows 60/min
		baseURL:   defaultFinnhubBaseURL,
		rateLimit: 60,
	}
}

// Name returns the provider name
func (p *FinnhubProvider) Name() string {
	return "finnhub"
}

// IsAvailable checks if the provider has an API key
func (p *FinnhubProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// RateLimit returns the rate limit per minute
func (p *FinnhubProvider) RateLimit() int {
	return p.rateLimit
}

// finnhubCandle represents the Finnhub candle response
type finnhubCandle struct {
	C []float64 `json:"c"` // Close prices
	S string    `json:"s"` // Status
	T []int64   `json:"t"` // Timestamps
}

// finnhubProfile represents the Finnhub company profile response.
// MarketCapitalization is reported in millions of USD.
type finnhubProfile struct {
	Name                 string  `json:"name"`
	MarketCapitalization float64 `json:"marketCapitalization"`
}

// Fetch returns the fundamentals record for one symbol
func (p *FinnhubProvider) Fetch(ctx context.Context, symbol string) (*model.TickerRecord, error) {
	ctx, span := trace.StartSpan(ctx, "finnhub-fetch")
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

	profile, err := p.fetchProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	record.MarketCap = profile.MarketCapitalization * 1e6
	if profile.Name != "" {
		record.Name = profile.Name
	}

	return record, nil
}

// fetchHistory pulls daily closes for the trailing history window
func (p *FinnhubProvider) fetchHistory(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	end := time.Now()
	start := end.AddDate(-historyYears, 0, 0)

	url := fmt.Sprintf("%s/stock/candle?symbol=%s&resolution=D&from=%d&to=%d&token=%s",
		p.baseURL, symbol, start.Unix(), end.Unix(), p.apiKey)

	var data finnhubCandle
	if err := p.get(ctx, symbol, url, &data); err != nil {
		return nil, err
	}

	if data.S != "ok" || len(data.T) == 0 {
		return nil, &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("no data available")}
	}

	history := make([]model.PricePoint, 0, len(data.T))
	for i, ts := range data.T {
		if i >= len(data.C) || data.C[i] <= 0 {
			continue
		}
		history = append(history, model.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: data.C[i],
		})
	}

	return history, nil
}

// fetchProfile pulls the company name and market cap
func (p *FinnhubProvider) fetchProfile(ctx context.Context, symbol string) (*finnhubProfile, error) {
	url := fmt.Sprintf("%s/stock/profile2?symbol=%s&token=%s", p.baseURL, symbol, p.apiKey)

	var profile finnhubProfile
	if err := p.get(ctx, symbol, url, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// get runs one rate-limited request and decodes the JSON body into out
func (p *FinnhubProvider) get(ctx context.Context, symbol, url string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &FetchError{Provider: p.Name(), Symbol: symbol, Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.limiter.SignalRateLimited()
		return &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("rate limited"), Retryable: true}
	}
	if resp.StatusCode != http.StatusOK {
		return &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	p.limiter.ResetBackoff()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Provider: p.Name(), Symbol: symbol, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
