package tools

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"appforge/internal/ledger"
)

// Instrumented dispatches tool calls through a Registry and records every
// invocation into the execution ledger. Ledger failures never affect the
// tool's own result; the recorder swallows them.
type Instrumented struct {
	reg *Registry
	rec *ledger.Recorder
}

func NewInstrumented(reg *Registry, rec *ledger.Recorder) *Instrumented {
	return &Instrumented{reg: reg, rec: rec}
}

// Specs exposes the underlying registry's tool specs.
func (i *Instrumented) Specs() []ToolSpec { return i.reg.Specs() }

// Call invokes the named tool for a project and appends a ledger entry with
// the call's input, output, and success flag. When the stream did not assign
// a tool-call id, a fresh one is generated so the entry is still keyed.
func (i *Instrumented) Call(ctx context.Context, projectID, callID, name string, input json.RawMessage) (json.RawMessage, error) {
	out, err := i.reg.Call(ctx, name, input)

	if callID == "" {
		callID = uuid.NewString()
	}
	entry := ledger.Entry{
		ToolCallID: callID,
		ProjectID:  projectID,
		ToolName:   name,
		Input:      input,
		Output:     out,
		Success:    err == nil,
	}
	if err != nil {
		if msg, merr := json.Marshal(map[string]string{"error": err.Error()}); merr == nil {
			entry.Output = msg
		}
	}
	i.rec.Record(ctx, entry)

	return out, err
}
