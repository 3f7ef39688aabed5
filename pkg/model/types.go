package model

import "time"

// PricePoint is a single (date, close) observation in a price history.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// TickerRecord holds fundamentals and price history for one symbol.
// Immutable once fetched; owned by a single screening run.
type TickerRecord struct {
	Symbol       string       `json:"symbol"`
	Name         string       `json:"name"`
	CurrentPrice float64      `json:"current_price"`
	ATH          float64      `json:"ath"`
	MarketCap    float64      `json:"market_cap"`
	History      []PricePoint `json:"history,omitempty"`
	EarningsDate *time.Time   `json:"earnings_date,omitempty"`
}

// DropFromATH returns the fractional decline from the all-time high.
func (r *TickerRecord) DropFromATH() float64 {
	if r.ATH <= 0 {
		return 0
	}
	return (r.ATH - r.CurrentPrice) / r.ATH
}

// VolatilityMetric is an annualized volatility estimate derived from history.
type VolatilityMetric struct {
	Symbol        string  `json:"symbol"`
	Annualized    float64 `json:"annualized"`
	Window        int     `json:"window"`
	LowConfidence bool    `json:"low_confidence"`
}

// FilterCriteria are the screening thresholds for a run. Fractions, not
// percentages: MaxDropFromATH 0.4 means the stock must be down 40% or more.
type FilterCriteria struct {
	MaxDropFromATH            float64 `json:"max_drop_from_ath" yaml:"max_drop_from_ath"`
	MinMarketCap              float64 `json:"min_market_cap" yaml:"min_market_cap"`
	MaxMarketCap              float64 `json:"max_market_cap" yaml:"max_market_cap"`
	MinVolatility             float64 `json:"min_volatility" yaml:"min_volatility"`
	ExcludeEarningsWithinDays int     `json:"exclude_earnings_within_days" yaml:"exclude_earnings_within_days"`
}

// ScoreWeights control how screening margins combine into the fundamental
// score. Policy knobs, not contracts.
type ScoreWeights struct {
	ATHDrop      float64 `json:"ath_drop" yaml:"ath_drop"`
	Volatility   float64 `json:"volatility" yaml:"volatility"`
	MarketCapFit float64 `json:"market_cap_fit" yaml:"market_cap_fit"`
}

// ScreeningResult is the filter outcome for one symbol. Margins are
// normalized distances to each threshold; a failing criterion has a
// negative margin.
type ScreeningResult struct {
	Symbol           string  `json:"symbol"`
	Pass             bool    `json:"pass"`
	DropMargin       float64 `json:"drop_margin"`
	VolatilityMargin float64 `json:"volatility_margin"`
	MarketCapMargin  float64 `json:"market_cap_margin"`
	FundamentalScore float64 `json:"fundamental_score"`
}

// Sentiment labels.
const (
	SentimentBullish = "BULLISH"
	SentimentNeutral = "NEUTRAL"
	SentimentBearish = "BEARISH"
)

// SentimentResult is the aggregated news tone for one symbol.
type SentimentResult struct {
	Symbol      string  `json:"symbol"`
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	SourceCount int     `json:"source_count"`
}

// NeutralSentiment is the demo-mode fallback used when headlines or
// credentials are unavailable.
func NeutralSentiment(symbol string) SentimentResult {
	return SentimentResult{Symbol: symbol, Label: SentimentNeutral}
}

// RankedEntry is one row of the final ranked output.
type RankedEntry struct {
	Symbol       string           `json:"symbol"`
	Name         string           `json:"name"`
	CurrentPrice float64          `json:"current_price"`
	MarketCap    float64          `json:"market_cap"`
	DropFromATH  float64          `json:"drop_from_ath"`
	Volatility   float64          `json:"volatility"`
	Screening    ScreeningResult  `json:"screening"`
	Sentiment    *SentimentResult `json:"sentiment,omitempty"`
	FinalScore   float64          `json:"final_score"`
	Rank         int              `json:"rank"`
}

// FetchFailure records a symbol that could not be evaluated. Failures are
// reported, never fatal to the run.
type FetchFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// ScanResult is the final output of one screening run.
type ScanResult struct {
	RunID        string         `json:"run_id"`
	Universe     string         `json:"universe"`
	TotalScanned int            `json:"total_scanned"`
	Entries      []RankedEntry  `json:"entries"`
	Failures     []FetchFailure `json:"failures,omitempty"`
	ScanTime     time.Duration  `json:"scan_time"`
}
