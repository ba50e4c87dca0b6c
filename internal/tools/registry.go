package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownTool marks a call to a name with no registration.
var ErrUnknownTool = errors.New("unknown tool")

// ToolSpec documents a tool's contract (name + schemas).
type ToolSpec struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	InputSchema  json.RawMessage `json:"input_schema,omitempty"`
	OutputSchema json.RawMessage `json:"output_schema,omitempty"`
}

// Tool is a callable capability the build agent can invoke.
type Tool interface {
	Spec() ToolSpec
	Call(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// Registry holds tool registrations and dispatches calls. Specs lists tools
// in registration order; re-registering a name replaces the tool without
// changing its position, so the listing clients see stays stable.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a tool under its spec name. Tools without a
// name are ignored.
func (r *Registry) Register(t Tool) {
	if t == nil {
		return
	}
	name := t.Spec().Name
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

func (r *Registry) lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Call dispatches to the named tool.
func (r *Registry) Call(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error) {
	t, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("tools: %w: %q", ErrUnknownTool, name)
	}
	return t.Call(ctx, input)
}

// Specs returns the registered tool specs in registration order.
func (r *Registry) Specs() []ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Spec())
	}
	return out
}
