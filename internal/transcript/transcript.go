package transcript

import "strings"

// Role tags who authored a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single role-tagged message.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered conversation history for one session. The first
// turn is always the system instructions; turns are append-only until Reset.
type Transcript struct {
	turns []Turn
}

// New seeds a transcript with the system instructions and, when non-empty,
// the assistant greeting shown before the candidate types anything.
func New(systemPrompt, greeting string) *Transcript {
	t := &Transcript{turns: []Turn{{Role: RoleSystem, Content: systemPrompt}}}
	if greeting != "" {
		t.turns = append(t.turns, Turn{Role: RoleAssistant, Content: greeting})
	}
	return t
}

func (t *Transcript) AppendUser(content string) {
	t.turns = append(t.turns, Turn{Role: RoleUser, Content: content})
}

func (t *Transcript) AppendAssistant(content string) {
	t.turns = append(t.turns, Turn{Role: RoleAssistant, Content: content})
}

// Reset truncates the history back to only the system turn. The greeting is
// not re-seeded; callers that need it again show it outside the transcript.
func (t *Transcript) Reset() {
	t.turns = t.turns[:1]
}

// Len reports the number of turns, system turn included.
func (t *Transcript) Len() int { return len(t.turns) }

// Turns returns a copy of the history so callers cannot mutate it.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Visible returns the turns shown to the candidate (everything after the
// system instructions).
func (t *Transcript) Visible() []Turn {
	if len(t.turns) <= 1 {
		return nil
	}
	out := make([]Turn, len(t.turns)-1)
	copy(out, t.turns[1:])
	return out
}

// RenderPrompt flattens the transcript into the single prompt sent to the
// completion model: the system content verbatim, then one role-prefixed line
// per turn in original order. Rendering never mutates the transcript.
func (t *Transcript) RenderPrompt() string {
	var b strings.Builder
	for _, turn := range t.turns {
		switch turn.Role {
		case RoleSystem:
			b.WriteString(turn.Content)
			b.WriteString("\n\n")
		case RoleUser:
			b.WriteString("Candidate: ")
			b.WriteString(turn.Content)
			b.WriteString("\n\n")
		case RoleAssistant:
			b.WriteString("Assistant: ")
			b.WriteString(turn.Content)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}
