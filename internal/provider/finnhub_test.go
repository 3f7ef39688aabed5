package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// finnhubTestServer serves the candle and profile endpoints the provider hits.
func finnhubTestServer(candleBody, profileBody string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/stock/candle"):
			fmt.Fprint(w, candleBody)
		case strings.Contains(r.URL.Path, "/stock/profile2"):
			fmt.Fprint(w, profileBody)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestFinnhub(serverURL string) *FinnhubProvider {
	p := NewFinnhubProvider("test-key")
	p.baseURL = serverURL
	return p
}

func TestFinnhubFetchBuildsRecord(t *testing.T) {
	srv := finnhubTestServer(
		`{"s":"ok","t":[1700000000,1700086400,1700172800],"c":[100,150,90]}`,
		`{"name":"Alpha Corp","marketCapitalization":50000}`,
	)
	defer srv.Close()

	record, err := newTestFinnhub(srv.URL).Fetch(context.Background(), "AAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Symbol != "AAA" {
		t.Errorf("expected symbol AAA, got %s", record.Symbol)
	}
	if record.Name != "Alpha Corp" {
		t.Errorf("expected name from profile, got %q", record.Name)
	}
	if record.ATH != 150 {
		t.Errorf("expected ATH 150, got %f", record.ATH)
	}
	if record.CurrentPrice != 90 {
		t.Errorf("expected current price 90, got %f", record.CurrentPrice)
	}
	// marketCapitalization comes back in millions
	if record.MarketCap != 50e9 {
		t.Errorf("expected market cap 5e10, got %f", record.MarketCap)
	}
	if len(record.History) != 3 {
		t.Errorf("expected 3 price points, got %d", len(record.History))
	}
}

func TestFinnhubFetchNoData(t *testing.T) {
	srv := finnhubTestServer(`{"s":"no_data"}`, `{}`)
	defer srv.Close()

	_, err := newTestFinnhub(srv.URL).Fetch(context.Background(), "AAA")
	if err == nil {
		t.Fatal("expected error for no_data status")
	}
}

func TestFinnhubUnavailableWithoutKey(t *testing.T) {
	p := NewFinnhubProvider("")
	if p.IsAvailable() {
		t.Error("provider without a key must be unavailable")
	}

	// The production chain drops it at construction, leaving Yahoo alone.
	fb := NewFallbackProvider(NewYahooProvider(), p)
	if len(fb.Providers()) != 1 || fb.Providers()[0].Name() != "yahoo" {
		t.Errorf("expected keyless finnhub filtered out, got %v", fb.Providers())
	}
}

func TestFallbackYahooToFinnhub(t *testing.T) {
	// Yahoo upstream is down; the chain must serve the record from Finnhub.
	yahooSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer yahooSrv.Close()
	finnhubSrv := finnhubTestServer(
		`{"s":"ok","t":[1700000000,1700086400],"c":[100,80]}`,
		`{"name":"Alpha Corp","marketCapitalization":50000}`,
	)
	defer finnhubSrv.Close()

	yahoo := NewYahooProvider()
	yahoo.baseURL = yahooSrv.URL

	fb := NewFallbackProvider(yahoo, newTestFinnhub(finnhubSrv.URL))
	record, err := fb.Fetch(context.Background(), "AAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.CurrentPrice != 80 || record.Name != "Alpha Corp" {
		t.Errorf("expected record from finnhub, got %+v", record)
	}
}
