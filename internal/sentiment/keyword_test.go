package sentiment

import (
	"context"
	"testing"

	"leapscan/pkg/model"
)

func TestKeywordClassifierLabels(t *testing.T) {
	c := NewKeywordClassifier()

	cases := []struct {
		headline string
		want     string
	}{
		{"Shares surge on strong profit growth", model.SentimentBullish},
		{"Stock plunges after earnings miss and downgrade", model.SentimentBearish},
		{"Company schedules annual shareholder meeting", model.SentimentNeutral},
		{"Gains offset by losses in overseas decline", model.SentimentBearish},
	}

	for _, tc := range cases {
		scores, err := c.Classify(context.Background(), "AAA", []string{tc.headline})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(scores) != 1 {
			t.Fatalf("expected 1 score, got %d", len(scores))
		}
		if scores[0].Label != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.headline, tc.want, scores[0].Label)
		}
	}
}

func TestKeywordConfidenceGrowsWithMargin(t *testing.T) {
	c := NewKeywordClassifier()

	weak, _ := c.Classify(context.Background(), "AAA", []string{"profit reported today"})
	strong, _ := c.Classify(context.Background(), "AAA", []string{"record profit surge, strong growth, analysts upgrade to buy"})

	if strong[0].Confidence <= weak[0].Confidence {
		t.Errorf("expected stronger signal to score higher: weak=%f strong=%f",
			weak[0].Confidence, strong[0].Confidence)
	}
	if strong[0].Confidence > 0.8 {
		t.Errorf("confidence should be capped at 0.8, got %f", strong[0].Confidence)
	}
}

func TestKeywordClassifierOneScorePerHeadline(t *testing.T) {
	c := NewKeywordClassifier()

	headlines := []string{
		"Shares jump on record growth",
		"Analysts warn of weak outlook",
		"Quarterly report released",
	}
	scores, err := c.Classify(context.Background(), "AAA", headlines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != len(headlines) {
		t.Fatalf("expected %d scores, got %d", len(headlines), len(scores))
	}
}
