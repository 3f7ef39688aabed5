package symbols

import (
	"fmt"
	"strings"
)

// Universe identifies a predefined stock universe
type Universe string

const (
	UniverseSP500     Universe = "sp500"
	UniverseNasdaq100 Universe = "nasdaq100"
	UniverseCombined  Universe = "combined"
	UniverseTest      Universe = "test" // Small set for testing
)

// AvailableUniverses lists the universes a caller may select, in display
// order.
func AvailableUniverses() []Universe {
	return []Universe{UniverseSP500, UniverseNasdaq100, UniverseCombined, UniverseTest}
}

// Provider serves the symbol lists for each universe. Lists are fixed at
// construction and never mutated afterwards.
type Provider struct {
	sp500     []string
	nasdaq100 []string
	extra     []string
}

// Option customizes a Provider.
type Option func(*Provider)

// WithLists replaces the built-in index lists.
func WithLists(sp500, nasdaq100 []string) Option {
	return func(p *Provider) {
		p.sp500 = sp500
		p.nasdaq100 = nasdaq100
	}
}

// WithExtra appends symbols after the selected segment (deduplicated).
func WithExtra(symbols []string) Option {
	return func(p *Provider) {
		p.extra = symbols
	}
}

// NewProvider creates a universe provider with the built-in lists.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		sp500:     SP500Symbols,
		nasdaq100: Nasdaq100Symbols,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the ordered, deduplicated symbol list for a universe. For the
// combined universe the S&P 500 comes first, then NASDAQ-100 symbols not
// already present. An unknown universe is a configuration error.
func (p *Provider) Get(u Universe) ([]string, error) {
	var base []string
	switch u {
	case UniverseSP500:
		base = p.sp500
	case UniverseNasdaq100:
		base = p.nasdaq100
	case UniverseCombined:
		base = append(append([]string{}, p.sp500...), p.nasdaq100...)
	case UniverseTest:
		base = TestSymbols
	default:
		return nil, fmt.Errorf("unknown universe %q: must be one of sp500, nasdaq100, combined, test", u)
	}

	return dedupe(append(append([]string{}, base...), p.extra...)), nil
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// TestSymbols is a small set for quick testing
var TestSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
	"META", "TSLA", "AMD", "NFLX", "JPM",
}

// SP500Symbols is a representative subset of the S&P 500 (top 100 by market
// cap). The full index would be too slow for free API tiers.
var SP500Symbols = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "TSLA", "META", "TSM", "UNH",
	"XOM", "JNJ", "JPM", "V", "PG", "MA", "HD", "CVX", "ABBV", "PFE",
	"AVGO", "LLY", "KO", "COST", "PEP", "TMO", "WMT", "MRK", "DIS", "ABT",
	"BAC", "CRM", "NFLX", "ADBE", "AMD", "NKE", "LIN", "ORCL", "WFC", "ACN",
	"TXN", "PM", "RTX", "QCOM", "DHR", "NEE", "IBM", "SPGI", "T", "UNP",
	"LOW", "GS", "HON", "CAT", "MDT", "INTC", "UPS", "BLK", "INTU", "DE",
	"AXP", "AMAT", "CI", "SYK", "GILD", "TJX", "AMT", "BKNG", "MU", "ADP",
	"TMUS", "VRTX", "CVS", "LRCX", "REGN", "ZTS", "SLB", "PLD", "MO", "MMC",
	"FI", "TGT", "SO", "CL", "PYPL", "BSX", "BMY", "BDX", "ITW", "EL",
	"CSX", "CB", "DUK", "AON", "SHW", "APD", "NOC", "COP", "CME", "EQIX",
}

// Nasdaq100Symbols is the NASDAQ-100 components (representative sample)
var Nasdaq100Symbols = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "TSLA", "META", "AVGO", "COST",
	"NFLX", "PEP", "ADBE", "CSCO", "TMUS", "CRM", "TXN", "QCOM", "CMCSA", "AMD",
	"INTC", "INTU", "AMGN", "HON", "AMAT", "BKNG", "ADP", "GILD", "MU", "ADI",
	"LRCX", "MELI", "MDLZ", "REGN", "ISRG", "PYPL", "KLAC", "SNPS", "CDNS", "MAR",
	"MRVL", "ORLY", "CSX", "FTNT", "ADSK", "NXPI", "WDAY", "ABNB", "CHTR", "MNST",
	"TEAM", "DXCM", "AEP", "EXC", "KDP", "FANG", "ROST", "VRSK", "KHC", "CCEP",
	"IDXX", "CTAS", "EA", "FAST", "ODFL", "BKR", "XEL", "AZN", "CTSH", "GEHC",
	"PCAR", "MRNA", "ON", "BIIB", "PAYX", "LULU", "DDOG", "WBD", "ANSS", "ZM",
	"SGEN", "CRWD", "DLTR", "CSGP", "WBA", "LCID", "SIRI", "ZS", "EBAY", "GFS",
}
