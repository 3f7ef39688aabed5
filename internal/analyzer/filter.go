package analyzer

import (
	"leapscan/pkg/model"
)

// Filter applies the screening criteria and computes the fundamental score.
type Filter struct {
	criteria model.FilterCriteria
	weights  model.ScoreWeights
}

// NewFilter creates a screening filter. Criteria and weights are fixed for
// the run.
func NewFilter(criteria model.FilterCriteria, weights model.ScoreWeights) *Filter {
	return &Filter{criteria: criteria, weights: weights}
}

// Screen evaluates one ticker against the criteria. Margins are normalized
// distances to each threshold, clamped to [-1, 1] so no single metric
// dominates the composite; a failing criterion always has a negative margin.
func (f *Filter) Screen(record *model.TickerRecord, vol model.VolatilityMetric) model.ScreeningResult {
	result := model.ScreeningResult{Symbol: record.Symbol}

	drop := record.DropFromATH()
	result.DropMargin = clampMargin(relativeMargin(drop, f.criteria.MaxDropFromATH))
	result.VolatilityMargin = clampMargin(relativeMargin(vol.Annualized, f.criteria.MinVolatility))
	result.MarketCapMargin = marketCapMargin(record.MarketCap, f.criteria.MinMarketCap, f.criteria.MaxMarketCap)

	result.Pass = result.DropMargin >= 0 &&
		result.VolatilityMargin >= 0 &&
		result.MarketCapMargin >= 0

	result.FundamentalScore = f.weights.ATHDrop*result.DropMargin +
		f.weights.Volatility*result.VolatilityMargin +
		f.weights.MarketCapFit*result.MarketCapMargin

	return result
}

// relativeMargin is (actual-threshold)/threshold. A zero threshold accepts
// everything, so the margin is simply non-negative.
func relativeMargin(actual, threshold float64) float64 {
	if threshold == 0 {
		return 0
	}
	return (actual - threshold) / threshold
}

// marketCapMargin is 1 when the cap sits inside [min, max]: a band fit has
// no meaningful gradient, only in or out. Outside the band it is the
// negative normalized distance past the violated bound.
func marketCapMargin(cap, minCap, maxCap float64) float64 {
	if minCap > 0 && cap < minCap {
		return clampMargin((cap - minCap) / minCap)
	}
	if maxCap > 0 && cap > maxCap {
		return clampMargin((maxCap - cap) / maxCap)
	}
	return 1
}

func clampMargin(m float64) float64 {
	if m > 1 {
		return 1
	}
	if m < -1 {
		return -1
	}
	return m
}
