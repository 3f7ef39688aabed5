package sentiment

import (
	"context"

	"leapscan/internal/logger"
	"leapscan/internal/trace"
	"leapscan/pkg/model"
)

// HeadlineScore is the classification of one headline.
type HeadlineScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier turns a batch of headlines into per-headline scores.
type Classifier interface {
	// Name returns the classifier name
	Name() string

	// IsAvailable checks if the classifier can be used (has credentials etc.)
	IsAvailable() bool

	// Classify scores each headline; the result has one entry per headline
	Classify(ctx context.Context, symbol string, headlines []string) ([]HeadlineScore, error)
}

// Analyzer aggregates per-headline classifications into one symbol-level
// sentiment by confidence-weighted majority vote.
type Analyzer struct {
	classifier Classifier
}

// NewAnalyzer creates a sentiment analyzer. A nil classifier means demo
// mode: every symbol gets the neutral fallback.
func NewAnalyzer(classifier Classifier) *Analyzer {
	return &Analyzer{classifier: classifier}
}

// Analyze produces the sentiment for one symbol. Empty headlines, a missing
// or unavailable classifier, and any classification failure all degrade to
// NEUTRAL with confidence 0 - failures stay local to the symbol.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, headlines []string) model.SentimentResult {
	ctx, span := trace.StartSpan(ctx, "analyze-sentiment")
	defer span.End()

	if len(headlines) == 0 || a.classifier == nil || !a.classifier.IsAvailable() {
		return model.NeutralSentiment(symbol)
	}

	scores, err := a.classifier.Classify(ctx, symbol, headlines)
	if err != nil || len(scores) == 0 {
		logger.Warn(ctx, "sentiment classification failed, using neutral fallback",
			"symbol", symbol, "error", err)
		return model.NeutralSentiment(symbol)
	}

	return aggregate(symbol, scores, len(headlines))
}

// aggregate runs the confidence-weighted vote. A score without a confidence
// counts as weight 1, per the contract for classifiers that don't report one.
func aggregate(symbol string, scores []HeadlineScore, sourceCount int) model.SentimentResult {
	weights := map[string]float64{}
	total := 0.0

	for _, s := range scores {
		label := s.Label
		switch label {
		case model.SentimentBullish, model.SentimentBearish, model.SentimentNeutral:
		default:
			label = model.SentimentNeutral
		}
		w := s.Confidence
		if w <= 0 {
			w = 1
		}
		weights[label] += w
		total += w
	}

	bull := weights[model.SentimentBullish]
	bear := weights[model.SentimentBearish]

	label := model.SentimentNeutral
	winning := weights[model.SentimentNeutral]
	if bull > bear && bull > winning {
		label = model.SentimentBullish
		winning = bull
	} else if bear > bull && bear > winning {
		label = model.SentimentBearish
		winning = bear
	}

	confidence := 0.0
	if label != model.SentimentNeutral && total > 0 {
		confidence = winning / total
	}

	return model.SentimentResult{
		Symbol:      symbol,
		Label:       label,
		Confidence:  confidence,
		SourceCount: sourceCount,
	}
}
