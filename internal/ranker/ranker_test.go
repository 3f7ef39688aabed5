package ranker

import (
	"math"
	"testing"

	"leapscan/pkg/model"
)

func candidate(symbol string, pass bool, score float64, sentiment *model.SentimentResult) Candidate {
	return Candidate{
		Record:     &model.TickerRecord{Symbol: symbol, CurrentPrice: 100, ATH: 150},
		Volatility: model.VolatilityMetric{Symbol: symbol, Annualized: 0.4},
		Screening:  model.ScreeningResult{Symbol: symbol, Pass: pass, FundamentalScore: score},
		Sentiment:  sentiment,
	}
}

func TestRankDropsFailedCandidates(t *testing.T) {
	r := New(0.1)
	entries := r.Rank([]Candidate{
		candidate("AAA", true, 0.5, nil),
		candidate("BBB", false, 0.9, nil),
		candidate("CCC", true, 0.3, nil),
	})

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Symbol == "BBB" {
			t.Error("failed candidate must not appear in ranking")
		}
	}
}

func TestRankSortsByScoreDescending(t *testing.T) {
	r := New(0)
	entries := r.Rank([]Candidate{
		candidate("AAA", true, 0.3, nil),
		candidate("BBB", true, 0.9, nil),
		candidate("CCC", true, 0.6, nil),
	})

	want := []string{"BBB", "CCC", "AAA"}
	for i, sym := range want {
		if entries[i].Symbol != sym {
			t.Errorf("position %d: expected %s, got %s", i, sym, entries[i].Symbol)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}
}

func TestRankBreaksTiesBySymbol(t *testing.T) {
	r := New(0)
	entries := r.Rank([]Candidate{
		candidate("ZZZ", true, 0.5, nil),
		candidate("AAA", true, 0.5, nil),
		candidate("MMM", true, 0.5, nil),
	})

	want := []string{"AAA", "MMM", "ZZZ"}
	for i, sym := range want {
		if entries[i].Symbol != sym {
			t.Errorf("position %d: expected %s, got %s", i, sym, entries[i].Symbol)
		}
	}
}

func TestRankSentimentAdjustment(t *testing.T) {
	r := New(0.1)

	cases := []struct {
		name      string
		sentiment *model.SentimentResult
		want      float64
	}{
		{"bullish", &model.SentimentResult{Label: model.SentimentBullish, Confidence: 0.8}, 0.5 * 1.08},
		{"bearish", &model.SentimentResult{Label: model.SentimentBearish, Confidence: 0.8}, 0.5 * 0.92},
		{"neutral", &model.SentimentResult{Label: model.SentimentNeutral, Confidence: 0.8}, 0.5},
		{"absent", nil, 0.5},
	}

	for _, tc := range cases {
		entries := r.Rank([]Candidate{candidate("AAA", true, 0.5, tc.sentiment)})
		if len(entries) != 1 {
			t.Fatalf("%s: expected 1 entry", tc.name)
		}
		if math.Abs(entries[0].FinalScore-tc.want) > 1e-9 {
			t.Errorf("%s: expected final score %f, got %f", tc.name, tc.want, entries[0].FinalScore)
		}
	}
}

func TestRankZeroFactorIgnoresSentiment(t *testing.T) {
	r := New(0)
	bullish := &model.SentimentResult{Label: model.SentimentBullish, Confidence: 1}
	entries := r.Rank([]Candidate{candidate("AAA", true, 0.5, bullish)})

	if entries[0].FinalScore != 0.5 {
		t.Errorf("expected unadjusted score 0.5, got %f", entries[0].FinalScore)
	}
}

func TestRankEmptyInput(t *testing.T) {
	r := New(0.1)
	entries := r.Rank(nil)
	if len(entries) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(entries))
	}
}
