package handler

import (
	"encoding/json"
	"io"
	"net/http"
)

func (s *Service) HandleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.tools.Specs()})
}

type callToolRequest struct {
	ProjectID  string          `json:"projectId"`
	ToolCallID string          `json:"toolCallId"`
	Input      json.RawMessage `json:"input"`
}

func (s *Service) HandleCallTool(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "read request body: " + err.Error()})
		return
	}
	var req callToolRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
			return
		}
	}
	name := r.PathValue("name")
	out, err := s.tools.Call(r.Context(), req.ProjectID, req.ToolCallID, name, req.Input)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if len(out) == 0 {
		out = json.RawMessage(`{}`)
	}
	w.Write(out)
}
