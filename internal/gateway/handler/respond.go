package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	projectuc "appforge/internal/gateway/usecase/project"
	"appforge/internal/tools"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handler: encode response: %v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeError maps the usecase error taxonomy onto HTTP status codes:
// validation failures are 400, missing resources 404, storage trouble 503.
func writeError(w http.ResponseWriter, err error) {
	var ve *projectuc.ValidationError
	var pe *projectuc.PersistenceError
	switch {
	case errors.Is(err, projectuc.ErrNotFound), errors.Is(err, tools.ErrUnknownTool):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.As(err, &pe):
		log.Printf("handler: persistence failure: %v", pe)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "storage unavailable"})
	default:
		log.Printf("handler: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
