package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/talentscout/screener/internal/reliability"
)

const (
	defaultInferenceURL   = "https://api-inference.huggingface.co"
	defaultSentimentModel = "distilbert/distilbert-base-uncased-finetuned-sst-2-english"
	defaultNERModel       = "dbmdz/bert-large-cased-finetuned-conll03-english"
)

// remoteClassifier calls hosted pretrained pipelines over HTTP. Both models
// are opaque: sentiment returns (label, score), NER returns grouped spans.
type remoteClassifier struct {
	baseURL        string
	token          string
	sentimentModel string
	nerModel       string
	client         *http.Client
}

func newRemoteClassifier(cfg Config) *remoteClassifier {
	base := strings.TrimRight(strings.TrimSpace(cfg.InferenceURL), "/")
	if base == "" {
		base = defaultInferenceURL
	}
	sentModel := strings.TrimSpace(cfg.SentimentModel)
	if sentModel == "" {
		sentModel = defaultSentimentModel
	}
	nerModel := strings.TrimSpace(cfg.NERModel)
	if nerModel == "" {
		nerModel = defaultNERModel
	}
	return &remoteClassifier{
		baseURL:        base,
		token:          strings.TrimSpace(cfg.InferenceToken),
		sentimentModel: sentModel,
		nerModel:       nerModel,
		client:         &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *remoteClassifier) Backend() string { return "remote" }

func (c *remoteClassifier) Sentiment(ctx context.Context, text string) (Sentiment, error) {
	body, err := c.post(ctx, c.sentimentModel, map[string]any{"inputs": text})
	if err != nil {
		return Sentiment{}, err
	}

	type scored struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	// The inference API wraps results in one list level per input; accept
	// both nested and flat shapes.
	var nested [][]scored
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		top := nested[0][0]
		return Sentiment{Label: top.Label, Score: top.Score, Scored: true}, nil
	}
	var flat []scored
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return Sentiment{Label: flat[0].Label, Score: flat[0].Score, Scored: true}, nil
	}
	return Sentiment{}, fmt.Errorf("sentiment response undecodable: %s", truncate(body, 200))
}

func (c *remoteClassifier) Entities(ctx context.Context, text string) (map[string]string, error) {
	body, err := c.post(ctx, c.nerModel, map[string]any{
		"inputs":     text,
		"parameters": map[string]any{"aggregation_strategy": "simple"},
	})
	if err != nil {
		// Regex recovery still runs when the tagger is unreachable.
		return regexExtract(text), err
	}

	var spans []struct {
		EntityGroup string `json:"entity_group"`
		Word        string `json:"word"`
	}
	if err := json.Unmarshal(body, &spans); err != nil {
		return regexExtract(text), fmt.Errorf("ner response undecodable: %s", truncate(body, 200))
	}

	out := map[string]string{}
	// Later spans of the same group overwrite earlier ones.
	for _, span := range spans {
		if field, ok := fieldForEntityGroup(span.EntityGroup); ok {
			out[field] = span.Word
		}
	}
	for k, v := range regexExtract(text) {
		out[k] = v
	}
	return out, nil
}

func (c *remoteClassifier) post(ctx context.Context, model string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal inference request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send inference request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		if reliability.IsRetryableHTTPStatus(res.StatusCode) {
			return nil, fmt.Errorf("inference status %d (transient): %s", res.StatusCode, truncate(body, 200))
		}
		return nil, fmt.Errorf("inference status %d: %s", res.StatusCode, truncate(body, 200))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
