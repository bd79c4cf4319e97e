// Package screening orchestrates the per-turn conversation pipeline:
// classify the utterance, request a completion, merge extracted candidate
// fields, and persist an encrypted snapshot.
package screening

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/classify"
	"github.com/talentscout/screener/internal/fieldcipher"
	"github.com/talentscout/screener/internal/gemini"
	"github.com/talentscout/screener/internal/observability"
	"github.com/talentscout/screener/internal/records"
)

var ErrSessionEnded = errors.New("session has ended")

// degradedRateLimitReply is shown when the completion retry budget is spent.
const degradedRateLimitReply = "Rate limit exceeded after retries. Please try again later."

// TurnResult is everything one submitted utterance produced.
type TurnResult struct {
	Reply     string            `json:"reply"`
	Sentiment string            `json:"sentiment"`
	Record    map[string]string `json:"record"`
	Persisted bool              `json:"persisted"`
}

// Controller runs the turn pipeline. Failures in auxiliary stages
// (classification, persistence) never block the conversational reply; only
// the completion request retries before degrading.
type Controller struct {
	completer  gemini.Completer
	classifier classify.Classifier
	cipher     *fieldcipher.Cipher
	store      records.Store
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func NewController(
	completer gemini.Completer,
	classifier classify.Classifier,
	cipher *fieldcipher.Cipher,
	store records.Store,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		completer:  completer,
		classifier: classifier,
		cipher:     cipher,
		store:      store,
		metrics:    metrics,
		logger:     logger,
	}
}

// CompleterBackend reports which completion backend was selected at startup.
func (c *Controller) CompleterBackend() string { return c.completer.Backend() }

// ClassifierBackend reports which classification backend was selected at startup.
func (c *Controller) ClassifierBackend() string { return c.classifier.Backend() }

// HandleUtterance processes one candidate utterance to completion. The
// returned error is reserved for terminal conditions (ended session,
// cancelled context); degraded completions still produce a reply.
func (c *Controller) HandleUtterance(ctx context.Context, s *Session, text string) (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusEnded {
		return TurnResult{}, ErrSessionEnded
	}
	s.status = StatusActive
	s.LastActivityAt = time.Now().UTC()

	s.transcript.AppendUser(text)

	sentimentLabel := c.classifySentiment(ctx, text)
	s.sentimentLog = append(s.sentimentLog, SentimentEntry{Input: text, Sentiment: sentimentLabel})

	reply, outcome, err := c.requestCompletion(ctx, s)
	if err != nil {
		return TurnResult{}, err
	}
	s.transcript.AppendAssistant(reply)

	c.mergeExtractedFields(ctx, s, text, reply)

	persisted := false
	if len(s.record) > 0 {
		persisted = c.persistSnapshot(ctx, s)
	}

	c.metrics.Turns.WithLabelValues(outcome).Inc()
	return TurnResult{
		Reply:     reply,
		Sentiment: sentimentLabel,
		Record:    cloneRecord(s.record),
		Persisted: persisted,
	}, nil
}

// Reset returns the session to the Idle state: transcript back to only the
// system turn, empty candidate record, empty sentiment log. The greeting is
// shown again by the transport layer, not re-entered into the transcript.
// Always succeeds.
func (c *Controller) Reset(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript.Reset()
	s.record = map[string]string{}
	s.sentimentLog = nil
	s.status = StatusIdle
	s.LastActivityAt = time.Now().UTC()
	c.metrics.SessionEvents.WithLabelValues("reset").Inc()
}

// DecryptForDisplay renders a stored snapshot with sensitive fields
// decrypted. A field that cannot be read is replaced by a placeholder; the
// rest of the row survives.
func (c *Controller) DecryptForDisplay(data map[string]string) map[string]string {
	out, err := c.cipher.DecryptForDisplay(data, fieldcipher.SensitiveFields...)
	if err != nil {
		c.logger.Warn("stored field unreadable", zap.Error(err))
	}
	return out
}

func (c *Controller) classifySentiment(ctx context.Context, text string) string {
	sentiment, err := c.classifier.Sentiment(ctx, text)
	if err != nil {
		c.metrics.ClassifierErrors.WithLabelValues("sentiment").Inc()
		c.logger.Warn("sentiment classification failed", zap.Error(err))
		return fmt.Sprintf("Error: %v", err)
	}
	return sentiment.String()
}

func (c *Controller) requestCompletion(ctx context.Context, s *Session) (reply, outcome string, err error) {
	start := time.Now()
	text, err := c.completer.Complete(ctx, s.transcript.RenderPrompt())
	c.metrics.ObserveCompletionLatency(time.Since(start))

	switch {
	case err == nil:
		return text, "ok", nil
	case ctx.Err() != nil:
		return "", "", ctx.Err()
	case errors.Is(err, gemini.ErrRateLimited):
		c.metrics.CompletionRetries.Inc()
		c.logger.Warn("completion degraded after rate-limit retries", zap.Error(err))
		return degradedRateLimitReply, "rate_limited", nil
	default:
		c.logger.Warn("completion failed", zap.Error(err))
		return fmt.Sprintf("Error generating response: %v", err), "completion_error", nil
	}
}

// mergeExtractedFields applies exactly one extraction path per turn: the
// reply's structured block when present (even if malformed), otherwise the
// classifier's entity and regex extraction on the candidate's utterance.
func (c *Controller) mergeExtractedFields(ctx context.Context, s *Session, userText, reply string) {
	fields, err := parseCandidateBlock(reply)
	switch {
	case err == nil:
		for k, v := range fields {
			s.record[k] = v
		}
	case errors.Is(err, errNoBlock):
		extracted, eerr := c.classifier.Entities(ctx, userText)
		if eerr != nil {
			c.metrics.ClassifierErrors.WithLabelValues("entities").Inc()
			c.logger.Warn("entity extraction degraded", zap.Error(eerr))
		}
		for k, v := range extracted {
			s.record[k] = v
		}
	default:
		c.logger.Warn("structured data block rejected", zap.String("session_id", s.ID), zap.Error(err))
	}
}

func (c *Controller) persistSnapshot(ctx context.Context, s *Session) bool {
	encrypted, err := c.cipher.EncryptFields(s.record, fieldcipher.SensitiveFields...)
	if err != nil {
		c.metrics.StorageFailures.Inc()
		c.logger.Error("snapshot encryption failed, not persisted", zap.Error(err))
		return false
	}
	if err := c.store.Append(ctx, encrypted); err != nil {
		c.metrics.StorageFailures.Inc()
		c.logger.Error("snapshot persistence failed", zap.String("session_id", s.ID), zap.Error(err))
		return false
	}
	c.metrics.RecordsPersisted.Inc()
	return true
}
