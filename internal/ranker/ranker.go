// Package ranker orders screened tickers by a sentiment-adjusted
// composite score.
package ranker

import (
	"sort"

	"leapscan/pkg/model"
)

// Ranker combines fundamental screening scores with optional sentiment
// adjustments and produces the final ordered list.
type Ranker struct {
	adjustmentFactor float64
}

// New creates a Ranker. factor controls how strongly sentiment sways
// the fundamental score; 0 disables the adjustment entirely.
func New(factor float64) *Ranker {
	return &Ranker{adjustmentFactor: factor}
}

// Candidate pairs everything known about a single ticker before ranking.
type Candidate struct {
	Record     *model.TickerRecord
	Volatility model.VolatilityMetric
	Screening  model.ScreeningResult
	Sentiment  *model.SentimentResult
}

// Rank keeps only candidates that passed screening, applies the
// sentiment multiplier, sorts by final score descending (ties broken by
// symbol ascending) and assigns 1-based ranks.
func (r *Ranker) Rank(candidates []Candidate) []model.RankedEntry {
	entries := make([]model.RankedEntry, 0, len(candidates))
	for _, c := range candidates {
		if !c.Screening.Pass {
			continue
		}
		entries = append(entries, model.RankedEntry{
			Symbol:       c.Record.Symbol,
			Name:         c.Record.Name,
			CurrentPrice: c.Record.CurrentPrice,
			MarketCap:    c.Record.MarketCap,
			DropFromATH:  c.Record.DropFromATH(),
			Volatility:   c.Volatility.Annualized,
			Screening:    c.Screening,
			Sentiment:    c.Sentiment,
			FinalScore:   r.finalScore(c.Screening.FundamentalScore, c.Sentiment),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FinalScore != entries[j].FinalScore {
			return entries[i].FinalScore > entries[j].FinalScore
		}
		return entries[i].Symbol < entries[j].Symbol
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// finalScore scales the fundamental score up for bullish sentiment and
// down for bearish. Neutral or absent sentiment leaves it untouched.
func (r *Ranker) finalScore(fundamental float64, s *model.SentimentResult) float64 {
	if s == nil || r.adjustmentFactor == 0 {
		return fundamental
	}
	switch s.Label {
	case model.SentimentBullish:
		return fundamental * (1 + s.Confidence*r.adjustmentFactor)
	case model.SentimentBearish:
		return fundamental * (1 - s.Confidence*r.adjustmentFactor)
	default:
		return fundamental
	}
}
