// Package classify tags candidate utterances with sentiment and named
// entities. The backend is selected once at construction and never changes
// per call.
package classify

import (
	"context"
	"fmt"
	"strings"
)

// Sentiment is one classification outcome.
type Sentiment struct {
	Label string
	Score float64
	// Scored marks backends that report a confidence next to the label.
	Scored bool
}

// String renders the log form: "POSITIVE (0.98)" for scored backends,
// the bare label otherwise.
func (s Sentiment) String() string {
	if s.Scored {
		return fmt.Sprintf("%s (%.2f)", s.Label, s.Score)
	}
	return s.Label
}

// Classifier tags a single utterance. Implementations must be safe for
// sequential reuse across turns; errors are per-call and non-fatal for the
// conversation.
type Classifier interface {
	// Sentiment returns a polarity label for the text.
	Sentiment(ctx context.Context, text string) (Sentiment, error)
	// Entities extracts candidate profile fields from the text. Email and
	// Phone regex recovery applies regardless of the backend.
	Entities(ctx context.Context, text string) (map[string]string, error)
	// Backend names the selected implementation for logs and health output.
	Backend() string
}

// Config controls backend selection.
type Config struct {
	// Mode is one of auto, remote, lexicon, off.
	Mode string
	// InferenceURL is the base URL of an HF-style hosted inference API.
	InferenceURL string
	// InferenceToken authorizes remote calls; in auto mode its presence
	// selects the remote backend.
	InferenceToken string
	SentimentModel string
	NERModel       string
}

// New selects a backend once, by configuration flag or probe.
func New(cfg Config) (Classifier, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "remote":
		if strings.TrimSpace(cfg.InferenceToken) == "" {
			return nil, fmt.Errorf("classifier mode remote requires an inference token")
		}
		return newRemoteClassifier(cfg), nil
	case "lexicon":
		return newLexiconClassifier(), nil
	case "off":
		return unavailableClassifier{}, nil
	case "auto":
		if strings.TrimSpace(cfg.InferenceToken) != "" {
			return newRemoteClassifier(cfg), nil
		}
		return newLexiconClassifier(), nil
	default:
		return nil, fmt.Errorf("unsupported classifier mode %q", cfg.Mode)
	}
}

// unavailableClassifier is the fixed sentinel used when no sentiment model
// is configured at all; entity recovery degrades to the regex rules.
type unavailableClassifier struct{}

func (unavailableClassifier) Sentiment(context.Context, string) (Sentiment, error) {
	return Sentiment{Label: "N/A (No sentiment model available)"}, nil
}

func (unavailableClassifier) Entities(_ context.Context, text string) (map[string]string, error) {
	return regexExtract(text), nil
}

func (unavailableClassifier) Backend() string { return "off" }
