package handler

import (
	"net/http"
	"strings"
	"time"

	"appforge/internal/llm"
	"appforge/internal/session"

	"github.com/google/uuid"
)

type chatRequest struct {
	ProjectID string        `json:"projectId"`
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
}

// chatMessage is the wire shape clients send: alongside parts it may carry a
// flat content string, which maps to a single text part when no parts were
// given.
type chatMessage struct {
	ID      string         `json:"id"`
	Role    string         `json:"role"`
	Content string         `json:"content"`
	Parts   []session.Part `json:"parts"`
}

func (m chatMessage) toSession() session.Message {
	msg := session.Message{ID: m.ID, Role: m.Role, Parts: m.Parts}
	if len(msg.Parts) == 0 && strings.TrimSpace(m.Content) != "" {
		msg.Parts = []session.Part{{Type: "text", Text: m.Content}}
	}
	return msg
}

type chatResponse struct {
	Message session.Message      `json:"message"`
	State   session.DerivedState `json:"state"`
}

// HandleChat appends the caller's latest user turn to the project history,
// asks the selected model for a reply, and stores that reply before
// returning it together with the refreshed derived state.
func (s *Service) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "messages must not be empty", Field: "messages"})
		return
	}
	provider := req.Model
	if i := strings.IndexByte(provider, '/'); i >= 0 {
		provider = provider[:i]
	}
	if provider == "" {
		provider = llm.ProviderGoogle
	}
	model, ok := llm.Resolve(provider)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown model provider: " + provider, Field: "model"})
		return
	}

	history := make([]session.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		history = append(history, m.toSession())
	}
	last := history[len(history)-1]
	if last.Role != session.RoleUser {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "last message must be a user turn", Field: "messages"})
		return
	}
	if err := s.projects.AppendMessage(r.Context(), req.ProjectID, last); err != nil {
		writeError(w, err)
		return
	}

	if provider != llm.ProviderGoogle || s.gemini == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error: "model provider not configured: " + model,
		})
		return
	}

	text, err := s.gemini.Generate(r.Context(), renderPrompt(history))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "model call failed: " + err.Error()})
		return
	}
	reply := session.Message{
		ID:        uuid.NewString(),
		Role:      session.RoleAssistant,
		Parts:     []session.Part{{Type: "text", Text: text}},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.projects.AppendMessage(r.Context(), req.ProjectID, reply); err != nil {
		writeError(w, err)
		return
	}
	state, err := s.projects.DerivedState(r.Context(), req.ProjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Message: reply, State: state})
}

// renderPrompt flattens the conversation into the single-turn prompt shape
// the thin provider wrapper accepts.
func renderPrompt(msgs []session.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		for _, p := range m.Parts {
			if p.Type != "text" || strings.TrimSpace(p.Text) == "" {
				continue
			}
			b.WriteString(m.Role)
			b.WriteString(": ")
			b.WriteString(p.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
