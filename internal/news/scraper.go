package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"leapscan/internal/logger"
	"leapscan/internal/trace"
)

// ScrapeSource scrapes headlines from public finance sites. Keyless
// alternative to NewsAPI; slower and best-effort.
type ScrapeSource struct {
	sites   []scrapeSite
	timeout time.Duration
	maxPer  int
}

// scrapeSite defines one site to scrape
type scrapeSite struct {
	Name     string
	URL      string // {symbol} is replaced with the ticker
	Selector string // CSS selector matching headline anchors
}

func defaultScrapeSites() []scrapeSite {
	return []scrapeSite{
		{
			Name:     "Finviz",
			URL:      "https://finviz.com/quote.ashx?t={symbol}",
			Selector: "a.tab-link-news",
		},
		{
			Name:     "Yahoo",
			URL:      "https://finance.yahoo.com/quote/{symbol}/news",
			Selector: "h3 a",
		},
	}
}

// NewScrapeSource creates a scraping headline source
func NewScrapeSource(timeout time.Duration, maxPerSite int) *ScrapeSource {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if maxPerSite <= 0 {
		maxPerSite = 10
	}
	return &ScrapeSource{
		sites:   defaultScrapeSites(),
		timeout: timeout,
		maxPer:  maxPerSite,
	}
}

// Name returns the source name
func (s *ScrapeSource) Name() string {
	return "scrape"
}

// IsAvailable always returns true (no credentials needed)
func (s *ScrapeSource) IsAvailable() bool {
	return true
}

// Headlines scrapes each configured site in order until one yields
// headlines. Per-site failures are logged and skipped.
func (s *ScrapeSource) Headlines(ctx context.Context, symbol string) ([]string, error) {
	ctx, span := trace.StartSpan(ctx, "scrape-headlines")
	defer span.End()

	for _, site := range s.sites {
		headlines, err := s.scrapeSite(ctx, site, symbol)
		if err != nil {
			logger.Warn(ctx, "headline scrape failed", "site", site.Name, "symbol", symbol, "error", err)
			continue
		}
		if len(headlines) > 0 {
			return headlines, nil
		}
	}
	return nil, nil
}

func (s *ScrapeSource) scrapeSite(ctx context.Context, site scrapeSite, symbol string) ([]string, error) {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
	)
	c.SetRequestTimeout(s.timeout)

	var headlines []string
	c.OnHTML(site.Selector, func(e *colly.HTMLElement) {
		if len(headlines) >= s.maxPer {
			return
		}
		if title := cleanHeadline(e.DOM); title != "" {
			headlines = append(headlines, title)
		}
	})

	url := strings.ReplaceAll(site.URL, "{symbol}", symbol)
	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("visiting %s: %w", site.Name, err)
	}
	c.Wait()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return headlines, nil
}

// cleanHeadline extracts and normalizes the anchor text
func cleanHeadline(sel *goquery.Selection) string {
	title := strings.TrimSpace(sel.Text())
	title = strings.Join(strings.Fields(title), " ")
	if len(title) < 10 {
		return "" // navigation links, tickers, noise
	}
	return title
}
