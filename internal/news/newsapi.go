package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"leapscan/internal/ratelimit"
	"leapscan/internal/trace"
)

const defaultNewsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPISource fetches headlines from newsapi.org. Requires an API key;
// without one the source reports unavailable and the pipeline stays in
// demo mode.
type NewsAPISource struct {
	client   *http.Client
	limiter  *ratelimit.Limiter
	baseURL  string
	apiKey   string
	pageSize int
	daysBack int
}

// NewNewsAPISource creates a NewsAPI headline source
func NewNewsAPISource(apiKey string, pageSize, daysBack int) *NewsAPISource {
	if pageSize <= 0 {
		pageSize = 20
	}
	if daysBack <= 0 {
		daysBack = 14
	}
	return &NewsAPISource{
		client:   &http.Client{Timeout: 10 * time.Second},
		limiter:  ratelimit.New("newsapi", 60),
		baseURL:  defaultNewsAPIBaseURL,
		apiKey:   apiKey,
		pageSize: pageSize,
		daysBack: daysBack,
	}
}

// Name returns the source name
func (s *NewsAPISource) Name() string {
	return "newsapi"
}

// IsAvailable reports whether an API key is configured
func (s *NewsAPISource) IsAvailable() bool {
	return s.apiKey != ""
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"articles"`
}

// Headlines fetches recent headlines for a symbol. Title and description
// are combined, matching how the upstream articles read best for
// classification.
func (s *NewsAPISource) Headlines(ctx context.Context, symbol string) ([]string, error) {
	ctx, span := trace.StartSpan(ctx, "newsapi-headlines")
	defer span.End()

	if !s.IsAvailable() {
		return nil, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -s.daysBack)

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q OR %q OR %q", symbol, symbol+" stock", symbol+" shares"))
	params.Set("from", start.Format("2006-01-02"))
	params.Set("to", end.Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", s.pageSize))
	params.Set("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		s.limiter.SignalRateLimited()
		return nil, fmt.Errorf("newsapi rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi status %d", resp.StatusCode)
	}

	s.limiter.ResetBackoff()

	var data newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding newsapi response: %w", err)
	}

	headlines := make([]string, 0, len(data.Articles))
	for _, a := range data.Articles {
		headline := a.Title
		if a.Description != "" {
			headline = a.Title + ". " + a.Description
		}
		if len(headline) > 10 {
			headlines = append(headlines, headline)
		}
	}

	return headlines, nil
}
