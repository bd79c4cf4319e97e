package screening

import (
	"sync"
	"time"

	"github.com/talentscout/screener/internal/transcript"
)

type Status string

const (
	// StatusIdle means the candidate has not typed yet; the transcript
	// holds only the seeded system and greeting turns.
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// SentimentEntry is one line of the per-session sentiment log.
type SentimentEntry struct {
	Input     string `json:"input"`
	Sentiment string `json:"sentiment"`
}

// Session owns all cross-turn state for one candidate conversation: the
// transcript, the accumulated candidate record, and the sentiment log. Turns
// are processed one at a time under the session lock.
type Session struct {
	ID             string
	StartedAt      time.Time
	LastActivityAt time.Time

	mu           sync.Mutex
	status       Status
	transcript   *transcript.Transcript
	record       map[string]string
	sentimentLog []SentimentEntry
}

func newSession(id, systemPrompt string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             id,
		StartedAt:      now,
		LastActivityAt: now,
		status:         StatusIdle,
		transcript:     transcript.New(systemPrompt, Greeting),
		record:         map[string]string{},
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Record returns a snapshot of the candidate record.
func (s *Session) Record() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecord(s.record)
}

// SentimentLog returns a snapshot of the sentiment log in append order.
func (s *Session) SentimentLog() []SentimentEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentimentEntry, len(s.sentimentLog))
	copy(out, s.sentimentLog)
	return out
}

// Turns returns the visible conversation history (system turn excluded).
func (s *Session) Turns() []transcript.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Visible()
}

// TranscriptLen reports the full transcript length, system turn included.
func (s *Session) TranscriptLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Len()
}

func cloneRecord(record map[string]string) map[string]string {
	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
