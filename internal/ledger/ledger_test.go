package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMemoryStore_AppendOrderAndDedup(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"call-1", "call-2", "call-1"} {
		err := s.Append(ctx, Entry{ToolCallID: id, ProjectID: "p1", ToolName: "docsSearch"})
		if err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	got := s.Entries("p1")
	if len(got) != 2 {
		t.Fatalf("expected duplicate call-1 dropped, got %d entries", len(got))
	}
	if got[0].ToolCallID != "call-1" || got[1].ToolCallID != "call-2" {
		t.Fatalf("append order not preserved: %+v", got)
	}
}

type failingStore struct{ calls int }

func (f *failingStore) Append(context.Context, Entry) error {
	f.calls++
	return errors.New("storage down")
}

func TestRecorder_NeverRaises(t *testing.T) {
	store := &failingStore{}
	r := NewRecorder(store)

	// A failing store must degrade silently.
	r.Record(context.Background(), Entry{
		ToolCallID: "call-1",
		ProjectID:  "p1",
		ToolName:   "docsSearch",
		Input:      json.RawMessage(`{"query":"hooks"}`),
		Success:    true,
	})
	if store.calls != 1 {
		t.Fatalf("expected one append attempt, got %d", store.calls)
	}

	// Entries without a call id are dropped before hitting the store.
	r.Record(context.Background(), Entry{ProjectID: "p1", ToolName: "docsSearch"})
	if store.calls != 1 {
		t.Fatalf("entry without call id should not reach the store")
	}

	// A nil recorder is a no-op.
	var nilRec *Recorder
	nilRec.Record(context.Background(), Entry{ToolCallID: "call-2"})
}

func TestRecorder_SurvivesCanceledCaller(t *testing.T) {
	s := NewMemoryStore()
	r := NewRecorder(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Record(ctx, Entry{ToolCallID: "call-1", ProjectID: "p1", ToolName: "docsSearch"})

	if len(s.Entries("p1")) != 1 {
		t.Fatalf("record should detach from caller cancellation")
	}
}
