package analyzer

import (
	"math"

	"leapscan/pkg/model"
)

// VolatilityEstimator computes annualized historical volatility from daily
// close history.
type VolatilityEstimator struct {
	window         int
	periodsPerYear int
}

// NewVolatilityEstimator creates an estimator. window is the number of
// log-returns in the sample; periodsPerYear the annualization constant
// (252 trading days for US equities).
func NewVolatilityEstimator(window, periodsPerYear int) *VolatilityEstimator {
	if window < 2 {
		window = 30
	}
	if periodsPerYear < 1 {
		periodsPerYear = 252
	}
	return &VolatilityEstimator{window: window, periodsPerYear: periodsPerYear}
}

// Estimate returns the annualized volatility for a price history. Fewer
// than two closes cannot produce a return, so the result is zero and
// flagged low-confidence instead of failing - screening must still run.
func (e *VolatilityEstimator) Estimate(symbol string, history []model.PricePoint) model.VolatilityMetric {
	metric := model.VolatilityMetric{Symbol: symbol, Window: e.window}

	returns := logReturns(history)
	if len(returns) == 0 {
		metric.LowConfidence = true
		return metric
	}
	if len(returns) > e.window {
		returns = returns[len(returns)-e.window:]
	}
	// A thin sample still produces a number, but callers should know
	if len(returns) < e.window/2 {
		metric.LowConfidence = true
	}

	metric.Annualized = sampleStdDev(returns) * math.Sqrt(float64(e.periodsPerYear))
	return metric
}

// logReturns computes ln(close_t / close_{t-1}) for consecutive closes,
// skipping non-positive prices.
func logReturns(history []model.PricePoint) []float64 {
	if len(history) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1].Close, history[i].Close
		if prev <= 0 || cur <= 0 {
			continue
		}
		returns = append(returns, math.Log(cur/prev))
	}
	return returns
}

// sampleStdDev is the n-1 standard deviation.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs) - 1)

	return math.Sqrt(variance)
}
