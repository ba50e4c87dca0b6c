package session

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PartStateOutputAvailable marks a tool part whose output has fully arrived.
// Earlier lifecycle states ("input-streaming", "input-available", ...) carry
// no usable output yet.
const PartStateOutputAvailable = "output-available"

// toolPartPrefix tags the part types that represent tool invocations,
// e.g. "tool-generateApp" or "tool-docsSearch".
const toolPartPrefix = "tool-"

// Message is one conversational turn in a project's build session. Messages
// are append-only; a stored history is re-read many times and must reduce to
// the same derived state every time.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Parts     []Part    `json:"parts,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Part is a typed fragment of a message. Tool parts carry the invocation
// lifecycle state and, once available, the opaque output payload.
type Part struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	State      string          `json:"state,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

// IsTool reports whether the part represents a tool invocation.
func (p Part) IsTool() bool {
	return strings.HasPrefix(p.Type, toolPartPrefix)
}

// OutputReady reports whether the tool output has fully arrived.
func (p Part) OutputReady() bool {
	return p.State == PartStateOutputAvailable
}

// CallID returns the tool-call identifier for the part. When the stream did
// not assign one, a stable identifier is synthesized from the owning message
// id and the part type so repeated reductions of the same history always
// derive the same value.
func (p Part) CallID(messageID string) string {
	if id := strings.TrimSpace(p.ToolCallID); id != "" {
		return id
	}
	return messageID + ":" + p.Type
}
