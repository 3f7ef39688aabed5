package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"leapscan/pkg/model"
)

func newTestClassifier(t *testing.T, handler http.HandlerFunc) (*OpenAIClassifier, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewOpenAIClassifier("gpt-4o")
	c.baseURL = srv.URL
	c.apiKey = "test-key"
	return c, srv.Close
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestOpenAIClassifyParsesResults(t *testing.T) {
	c, done := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, completionBody(`{"results":[
			{"sentiment":"bullish","confidence":0.9},
			{"sentiment":"BEARISH","confidence":1.7},
			{"sentiment":"SIDEWAYS","confidence":-0.2}
		]}`))
	})
	defer done()

	scores, err := c.Classify(context.Background(), "AAA", []string{"h1", "h2", "h3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[0].Label != model.SentimentBullish || scores[0].Confidence != 0.9 {
		t.Errorf("case normalization failed: %+v", scores[0])
	}
	if scores[1].Confidence != 1 {
		t.Errorf("confidence should clamp to 1, got %f", scores[1].Confidence)
	}
	if scores[2].Label != model.SentimentNeutral || scores[2].Confidence != 0 {
		t.Errorf("unknown label should become NEUTRAL with clamped confidence: %+v", scores[2])
	}
}

func TestOpenAIClassifyHTTPError(t *testing.T) {
	c, done := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer done()

	if _, err := c.Classify(context.Background(), "AAA", []string{"h1"}); err == nil {
		t.Error("expected error on HTTP 500")
	}
}

func TestOpenAIClassifyMalformedContent(t *testing.T) {
	c, done := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("sorry, I cannot do that"))
	})
	defer done()

	if _, err := c.Classify(context.Background(), "AAA", []string{"h1"}); err == nil {
		t.Error("expected error on unparseable content")
	}
}

func TestOpenAIClassifyWithoutKey(t *testing.T) {
	c := NewOpenAIClassifier("gpt-4o")
	c.apiKey = ""

	if c.IsAvailable() {
		t.Error("classifier without key should be unavailable")
	}
	if _, err := c.Classify(context.Background(), "AAA", []string{"h1"}); err == nil {
		t.Error("expected error without key")
	}
}
