package gemini

import (
	"context"
	"fmt"
	"strings"
)

// MockCompleter provides deterministic local replies when no API key is
// configured, so the screening flow can be exercised end to end offline.
type MockCompleter struct{}

func NewMockCompleter() *MockCompleter { return &MockCompleter{} }

func (m *MockCompleter) Backend() string { return "mock" }

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	last := lastCandidateLine(prompt)
	if last == "" {
		return "Thanks for joining. Could you tell me your full name?", nil
	}
	return fmt.Sprintf("Noted: %s. Could you tell me more about your experience?", last), nil
}

func lastCandidateLine(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if rest, ok := strings.CutPrefix(line, "Candidate: "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
