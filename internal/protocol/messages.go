package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeUserMessage      MessageType = "user_message"
	TypeClientControl    MessageType = "client_control"
	TypeAssistantWorking MessageType = "assistant_working"
	TypeAssistantMessage MessageType = "assistant_message"
	TypeSessionEvent     MessageType = "session_event"
	TypeErrorEvent       MessageType = "error_event"
)

// Control actions accepted in a client_control message.
const (
	ActionReset = "reset"
	ActionEnd   = "end"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// UserMessage carries one candidate utterance.
type UserMessage struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// ClientControl carries the parameterless reset/end controls.
type ClientControl struct {
	Type   MessageType `json:"type"`
	Action string      `json:"action"`
}

// AssistantWorking tells the client a completion request is in flight so it
// can surface a working indicator.
type AssistantWorking struct {
	Type MessageType `json:"type"`
}

// AssistantMessage is the terminal outcome of one turn.
type AssistantMessage struct {
	Type      MessageType       `json:"type"`
	Text      string            `json:"text"`
	Sentiment string            `json:"sentiment"`
	Record    map[string]string `json:"record,omitempty"`
	Persisted bool              `json:"persisted"`
}

// SessionEvent reports lifecycle changes (reset, ended).
type SessionEvent struct {
	Type MessageType `json:"type"`
	Code string      `json:"code"`
}

type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
}

// ParseClientMessage decodes and validates one inbound payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeUserMessage:
		var msg UserMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Text == "" {
			return nil, errors.New("invalid user_message: empty text")
		}
		return msg, nil
	case TypeClientControl:
		var msg ClientControl
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Action != ActionReset && msg.Action != ActionEnd {
			return nil, fmt.Errorf("invalid client_control action %q", msg.Action)
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, env.Type)
	}
}
