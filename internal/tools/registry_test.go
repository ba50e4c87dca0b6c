package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"appforge/internal/ledger"
)

type echoTool struct {
	name string
	err  error
}

func (t *echoTool) Spec() ToolSpec { return ToolSpec{Name: t.name, Description: "echo"} }

func (t *echoTool) Call(_ context.Context, input json.RawMessage) (json.RawMessage, error) {
	if t.err != nil {
		return nil, t.err
	}
	return input, nil
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := NewRegistry(&echoTool{name: "echo"})
	if _, err := r.Call(context.Background(), "missing", nil); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "echo", err: errors.New("old")})
	r.Register(&echoTool{name: "echo"})
	out, err := r.Call(context.Background(), "echo", json.RawMessage(`{"a":1}`))
	if err != nil {
		t.Fatalf("replaced tool should succeed: %v", err)
	}
	if string(out) != `{"a":1}` {
		t.Fatalf("unexpected output: %s", out)
	}
	if len(r.Specs()) != 1 {
		t.Fatalf("expected one spec, got %d", len(r.Specs()))
	}
}

func TestRegistry_SpecOrderStable(t *testing.T) {
	r := NewRegistry(&echoTool{name: "alpha"}, &echoTool{name: "beta"})
	r.Register(&echoTool{name: "alpha", err: errors.New("replaced")})

	specs := r.Specs()
	if len(specs) != 2 {
		t.Fatalf("expected two specs, got %d", len(specs))
	}
	if specs[0].Name != "alpha" || specs[1].Name != "beta" {
		t.Fatalf("replacement must not reorder the listing: %+v", specs)
	}
}

func TestInstrumented_RecordsSuccessAndFailure(t *testing.T) {
	store := ledger.NewMemoryStore()
	inst := NewInstrumented(
		NewRegistry(&echoTool{name: "echo"}, &echoTool{name: "broken", err: errors.New("boom")}),
		ledger.NewRecorder(store),
	)

	ctx := context.Background()
	if _, err := inst.Call(ctx, "p1", "call-1", "echo", json.RawMessage(`{"q":"x"}`)); err != nil {
		t.Fatalf("echo call failed: %v", err)
	}
	if _, err := inst.Call(ctx, "p1", "call-2", "broken", nil); err == nil {
		t.Fatalf("broken tool should surface its error to the caller")
	}

	entries := store.Entries("p1")
	if len(entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(entries))
	}
	if !entries[0].Success || entries[0].ToolName != "echo" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Success {
		t.Fatalf("failed call must be recorded with success=false")
	}
	if !strings.Contains(string(entries[1].Output), "boom") {
		t.Fatalf("failure entry should carry the error message: %s", entries[1].Output)
	}
}

type failingLedger struct{}

func (failingLedger) Append(context.Context, ledger.Entry) error {
	return errors.New("ledger unavailable")
}

func TestInstrumented_LedgerFailureDoesNotFailCall(t *testing.T) {
	inst := NewInstrumented(
		NewRegistry(&echoTool{name: "echo"}),
		ledger.NewRecorder(failingLedger{}),
	)
	out, err := inst.Call(context.Background(), "p1", "", "echo", json.RawMessage(`{"ok":true}`))
	if err != nil {
		t.Fatalf("ledger failure must not propagate: %v", err)
	}
	if string(out) != `{"ok":true}` {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestDocsSearch(t *testing.T) {
	tool := NewDocsSearchTool()
	out, err := tool.Call(context.Background(), json.RawMessage(`{"query":"button component"}`))
	if err != nil {
		t.Fatalf("docs.search failed: %v", err)
	}
	var res struct {
		Results []struct {
			Title string `json:"title"`
		} `json:"results"`
	}
	if err := json.Unmarshal(out, &res); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(res.Results) == 0 {
		t.Fatalf("expected at least one result")
	}

	if _, err := tool.Call(context.Background(), json.RawMessage(`{"query":"  "}`)); err == nil {
		t.Fatalf("blank query should error")
	}
}
