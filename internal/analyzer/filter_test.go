package analyzer

import (
	"math"
	"testing"

	"leapscan/pkg/model"
)

var testCriteria = model.FilterCriteria{
	MaxDropFromATH: 0.20,
	MinMarketCap:   1e9,
	MaxMarketCap:   1e12,
	MinVolatility:  0.25,
}

var testWeights = model.ScoreWeights{ATHDrop: 0.4, Volatility: 0.4, MarketCapFit: 0.2}

func record(current, ath, cap float64) *model.TickerRecord {
	return &model.TickerRecord{Symbol: "AAA", CurrentPrice: current, ATH: ath, MarketCap: cap}
}

func vol(v float64) model.VolatilityMetric {
	return model.VolatilityMetric{Symbol: "AAA", Annualized: v}
}

func TestScreenPassesWhenAllCriteriaMet(t *testing.T) {
	f := NewFilter(testCriteria, testWeights)

	// drop 30%, cap 5e10, volatility 40%
	result := f.Screen(record(70, 100, 5e10), vol(0.40))

	if !result.Pass {
		t.Fatalf("expected pass, got %+v", result)
	}
	if result.DropMargin < 0 || result.VolatilityMargin < 0 || result.MarketCapMargin < 0 {
		t.Errorf("passing result must have non-negative margins: %+v", result)
	}
}

func TestScreenCompositeScoreWorkedExample(t *testing.T) {
	f := NewFilter(testCriteria, testWeights)

	// drop margin (0.30-0.20)/0.20 = 0.5, volatility margin (0.40-0.25)/0.25
	// = 0.6, cap in band = 1.0 => 0.5*0.4 + 0.6*0.4 + 1.0*0.2 = 0.64
	result := f.Screen(record(70, 100, 5e10), vol(0.40))

	if math.Abs(result.DropMargin-0.5) > 1e-9 {
		t.Errorf("expected drop margin 0.5, got %f", result.DropMargin)
	}
	if math.Abs(result.VolatilityMargin-0.6) > 1e-9 {
		t.Errorf("expected volatility margin 0.6, got %f", result.VolatilityMargin)
	}
	if result.MarketCapMargin != 1.0 {
		t.Errorf("expected market cap margin 1.0, got %f", result.MarketCapMargin)
	}
	if math.Abs(result.FundamentalScore-0.64) > 1e-9 {
		t.Errorf("expected composite score 0.64, got %f", result.FundamentalScore)
	}
}

func TestScreenFailsEachCriterion(t *testing.T) {
	f := NewFilter(testCriteria, testWeights)

	cases := []struct {
		name   string
		rec    *model.TickerRecord
		vol    model.VolatilityMetric
		margin func(model.ScreeningResult) float64
	}{
		{
			name:   "insufficient drop",
			rec:    record(90, 100, 5e10), // only 10% down
			vol:    vol(0.40),
			margin: func(r model.ScreeningResult) float64 { return r.DropMargin },
		},
		{
			name:   "market cap too small",
			rec:    record(70, 100, 5e8),
			vol:    vol(0.40),
			margin: func(r model.ScreeningResult) float64 { return r.MarketCapMargin },
		},
		{
			name:   "market cap too large",
			rec:    record(70, 100, 2e12),
			vol:    vol(0.40),
			margin: func(r model.ScreeningResult) float64 { return r.MarketCapMargin },
		},
		{
			name:   "volatility too low",
			rec:    record(70, 100, 5e10),
			vol:    vol(0.10),
			margin: func(r model.ScreeningResult) float64 { return r.VolatilityMargin },
		},
	}

	for _, tc := range cases {
		result := f.Screen(tc.rec, tc.vol)
		if result.Pass {
			t.Errorf("%s: expected fail", tc.name)
		}
		if tc.margin(result) >= 0 {
			t.Errorf("%s: failing criterion must have negative margin, got %f", tc.name, tc.margin(result))
		}
	}
}

func TestScreenMarginsAreClamped(t *testing.T) {
	f := NewFilter(testCriteria, testWeights)

	// 95% drop and extreme volatility would blow past any threshold
	result := f.Screen(record(5, 100, 5e10), vol(3.0))

	if result.DropMargin > 1 || result.VolatilityMargin > 1 {
		t.Errorf("margins must be clamped to 1: %+v", result)
	}

	// cap of zero is far below the minimum
	result = f.Screen(record(70, 100, 0), vol(0.40))
	if result.MarketCapMargin < -1 {
		t.Errorf("margins must be clamped to -1, got %f", result.MarketCapMargin)
	}
}

func TestScreenZeroVolatilitySentinel(t *testing.T) {
	f := NewFilter(testCriteria, testWeights)

	// Insufficient-data sentinel: volatility 0 must simply fail the
	// minimum, not panic or pass
	sentinel := model.VolatilityMetric{Symbol: "AAA", LowConfidence: true}
	result := f.Screen(record(70, 100, 5e10), sentinel)

	if result.Pass {
		t.Error("zero volatility below minimum must not pass")
	}
	if result.VolatilityMargin >= 0 {
		t.Errorf("expected negative volatility margin, got %f", result.VolatilityMargin)
	}
}

func TestScreenWeightsAreConfigurable(t *testing.T) {
	volOnly := model.ScoreWeights{Volatility: 1}
	f := NewFilter(testCriteria, volOnly)

	result := f.Screen(record(70, 100, 5e10), vol(0.40))
	if math.Abs(result.FundamentalScore-0.6) > 1e-9 {
		t.Errorf("expected score 0.6 under volatility-only weights, got %f", result.FundamentalScore)
	}
}
