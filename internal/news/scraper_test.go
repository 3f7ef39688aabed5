package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func scrapeTestServer(html string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	}))
}

func newTestScrapeSource(sites ...scrapeSite) *ScrapeSource {
	s := NewScrapeSource(5*time.Second, 3)
	s.sites = sites
	return s
}

func TestScrapeHeadlines(t *testing.T) {
	srv := scrapeTestServer(`<html><body>
		<a class="headline">  AAA   shares surge on   record earnings  </a>
		<a class="headline">AAA</a>
		<a class="headline">AAA cuts guidance after weak quarter</a>
		<a class="headline">AAA announces new buyback program today</a>
		<a class="headline">AAA names new chief financial officer</a>
	</body></html>`)
	defer srv.Close()

	s := newTestScrapeSource(scrapeSite{
		Name:     "Test",
		URL:      srv.URL + "/quote?t={symbol}",
		Selector: "a.headline",
	})

	headlines, err := s.Headlines(context.Background(), "AAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Short anchors are filtered and maxPerSite caps the rest at 3.
	if len(headlines) != 3 {
		t.Fatalf("expected 3 headlines, got %d: %v", len(headlines), headlines)
	}
	if headlines[0] != "AAA shares surge on record earnings" {
		t.Errorf("expected whitespace-normalized headline, got %q", headlines[0])
	}
}

func TestScrapeFallsBackToNextSite(t *testing.T) {
	srv := scrapeTestServer(`<html><body>
		<a class="headline">AAA rallies as analysts upgrade outlook</a>
	</body></html>`)
	defer srv.Close()

	s := newTestScrapeSource(
		scrapeSite{
			Name:     "Broken",
			URL:      "http://127.0.0.1:1/quote?t={symbol}", // connection refused
			Selector: "a.headline",
		},
		scrapeSite{
			Name:     "Test",
			URL:      srv.URL + "/quote?t={symbol}",
			Selector: "a.headline",
		},
	)

	headlines, err := s.Headlines(context.Background(), "AAA")
	if err != nil {
		t.Fatalf("site failures must be skipped, got error: %v", err)
	}
	if len(headlines) != 1 || headlines[0] != "AAA rallies as analysts upgrade outlook" {
		t.Errorf("expected headline from second site, got %v", headlines)
	}
}

func TestScrapeNoMatchesYieldsEmpty(t *testing.T) {
	srv := scrapeTestServer(`<html><body><p>nothing newsworthy here</p></body></html>`)
	defer srv.Close()

	s := newTestScrapeSource(scrapeSite{
		Name:     "Test",
		URL:      srv.URL + "/quote?t={symbol}",
		Selector: "a.headline",
	})

	headlines, err := s.Headlines(context.Background(), "AAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headlines) != 0 {
		t.Errorf("expected no headlines, got %v", headlines)
	}
}
