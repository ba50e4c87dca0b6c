package session

import (
	"bytes"
	"encoding/json"
)

// ToolOutput is the known shape of a build-tool result payload. Every field
// is optional; unknown fields are tolerated.
type ToolOutput struct {
	Success     *bool  `json:"success,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
	URL         string `json:"url,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	SandboxID   string `json:"sandboxId,omitempty"`
	FilesReady  *bool  `json:"filesReady,omitempty"`
}

// BestURL returns the preview URL when present, falling back to the generic
// URL field.
func (o ToolOutput) BestURL() string {
	if o.PreviewURL != "" {
		return o.PreviewURL
	}
	return o.URL
}

// Failed reports whether the payload explicitly declared failure. Absence of
// the success flag counts as success.
func (o ToolOutput) Failed() bool {
	return o.Success != nil && !*o.Success
}

// ParseToolOutput decodes an opaque tool payload. The payload may already be
// a JSON object, or a JSON string that itself contains encoded JSON (some
// providers double-encode tool results). It returns ok=false for anything
// that does not decode to the known shape or that declares explicit failure.
// Callers skip rejected payloads; a malformed entry never aborts a scan.
func ParseToolOutput(raw json.RawMessage) (ToolOutput, bool) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return ToolOutput{}, false
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return ToolOutput{}, false
		}
		data = bytes.TrimSpace([]byte(inner))
	}
	if len(data) == 0 || data[0] != '{' {
		return ToolOutput{}, false
	}
	var out ToolOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ToolOutput{}, false
	}
	if out.Failed() {
		return ToolOutput{}, false
	}
	return out, true
}
