package sentiment

import (
	"context"
	"strings"

	"leapscan/pkg/model"
)

// KeywordClassifier scores headlines with a small financial word list. It
// needs no credentials and never leaves the process; selected explicitly
// via config, not as an implicit fallback.
type KeywordClassifier struct {
	positive map[string]bool
	negative map[string]bool
}

// NewKeywordClassifier creates the keyword classifier
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		positive: toSet("up", "rise", "gain", "growth", "profit", "beat", "beats",
			"strong", "bullish", "upgrade", "buy", "surge", "record", "jump"),
		negative: toSet("down", "fall", "loss", "decline", "drop", "miss", "misses",
			"weak", "bearish", "downgrade", "sell", "plunge", "cut", "warning"),
	}
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Name returns the classifier name
func (c *KeywordClassifier) Name() string {
	return "keyword"
}

// IsAvailable always returns true
func (c *KeywordClassifier) IsAvailable() bool {
	return true
}

// Classify scores each headline by counting signal words.
func (c *KeywordClassifier) Classify(ctx context.Context, symbol string, headlines []string) ([]HeadlineScore, error) {
	scores := make([]HeadlineScore, 0, len(headlines))
	for _, h := range headlines {
		scores = append(scores, c.scoreHeadline(h))
	}
	return scores, nil
}

func (c *KeywordClassifier) scoreHeadline(headline string) HeadlineScore {
	positive, negative := 0, 0
	for _, word := range tokenize(headline) {
		if c.positive[word] {
			positive++
		}
		if c.negative[word] {
			negative++
		}
	}

	switch {
	case positive > negative:
		return HeadlineScore{Label: model.SentimentBullish, Confidence: keywordConfidence(positive - negative)}
	case negative > positive:
		return HeadlineScore{Label: model.SentimentBearish, Confidence: keywordConfidence(negative - positive)}
	default:
		return HeadlineScore{Label: model.SentimentNeutral, Confidence: 0.5}
	}
}

// keywordConfidence grows with the signal margin but stays modest; keyword
// counting is a blunt instrument.
func keywordConfidence(margin int) float64 {
	conf := 0.5 + float64(margin)*0.1
	if conf > 0.8 {
		conf = 0.8
	}
	return conf
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
