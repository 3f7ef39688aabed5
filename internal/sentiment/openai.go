package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"leapscan/internal/trace"
	"leapscan/pkg/model"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClassifier scores headlines through the chat completions API.
type OpenAIClassifier struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

// NewOpenAIClassifier creates an OpenAI-backed classifier. The key comes
// from OPENAI_API_KEY; without it the classifier is unavailable and the
// analyzer stays on the neutral fallback.
func NewOpenAIClassifier(llmModel string) *OpenAIClassifier {
	if llmModel == "" {
		llmModel = "gpt-4o"
	}
	return &OpenAIClassifier{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultOpenAIBaseURL,
		model:   llmModel,
		apiKey:  os.Getenv("OPENAI_API_KEY"),
	}
}

// Name returns the classifier name
func (c *OpenAIClassifier) Name() string {
	return "openai"
}

// IsAvailable reports whether an API key is configured
func (c *OpenAIClassifier) IsAvailable() bool {
	return c.apiKey != ""
}

const systemPrompt = "You are a financial sentiment analysis expert. " +
	"Classify news headlines and respond only with the requested JSON."

// Classify sends the whole batch in one request and expects one score per
// headline back.
func (c *OpenAIClassifier) Classify(ctx context.Context, symbol string, headlines []string) ([]HeadlineScore, error) {
	ctx, span := trace.StartSpan(ctx, "openai-classify")
	defer span.End()

	if !c.IsAvailable() {
		return nil, errors.New("OPENAI_API_KEY missing")
	}

	var sb strings.Builder
	for _, h := range headlines {
		sb.WriteString("- ")
		sb.WriteString(h)
		sb.WriteString("\n")
	}

	prompt := fmt.Sprintf(`Classify the sentiment of each headline below about %s for a long-term options buyer.
For every headline produce an object {"sentiment": "BULLISH"|"NEUTRAL"|"BEARISH", "confidence": 0.0-1.0}.
Respond with JSON in this exact format: {"results": [...]} with exactly %d entries, in order.

Headlines:
%s`, symbol, len(headlines), sb.String())

	body := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
		"temperature":     0.3,
		"max_tokens":      60 * len(headlines),
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}
	if len(r.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}

	var parsed struct {
		Results []struct {
			Sentiment  string  `json:"sentiment"`
			Confidence float64 `json:"confidence"`
		} `json:"results"`
	}
	content := strings.TrimSpace(r.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parsing classifier output: %w", err)
	}
	if len(parsed.Results) == 0 {
		return nil, errors.New("classifier returned no results")
	}

	scores := make([]HeadlineScore, 0, len(parsed.Results))
	for _, res := range parsed.Results {
		label := strings.ToUpper(strings.TrimSpace(res.Sentiment))
		switch label {
		case model.SentimentBullish, model.SentimentBearish, model.SentimentNeutral:
		default:
			label = model.SentimentNeutral
		}
		conf := res.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		scores = append(scores, HeadlineScore{Label: label, Confidence: conf})
	}

	return scores, nil
}
