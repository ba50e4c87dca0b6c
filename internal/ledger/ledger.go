// Package ledger keeps the append-only audit record of tool invocations.
// Writes are best-effort: a ledger failure degrades silently and never
// reaches the caller of the tool that triggered it.
package ledger

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Entry is one recorded tool invocation, keyed by tool-call id so a replayed
// call never produces a duplicate row.
type Entry struct {
	ToolCallID string          `json:"toolCallId"`
	ProjectID  string          `json:"projectId"`
	ToolName   string          `json:"toolName"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	Success    bool            `json:"success"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Store persists ledger entries. Append must ignore an entry whose
// tool-call id was already recorded.
type Store interface {
	Append(ctx context.Context, e Entry) error
}

const defaultWriteTimeout = 3 * time.Second

// Recorder writes entries through a Store and swallows every failure.
type Recorder struct {
	store   Store
	timeout time.Duration
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, timeout: defaultWriteTimeout}
}

// Record appends an entry. It never returns an error and never panics; the
// write is bounded by its own timeout and detached from the caller's
// cancellation so an aborted request cannot lose audit rows that the tool
// call itself completed.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.store == nil {
		return
	}
	if e.ToolCallID == "" {
		log.Printf("ledger: dropping entry without tool call id (tool=%s project=%s)", e.ToolName, e.ProjectID)
		return
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	if err := r.store.Append(wctx, e); err != nil {
		log.Printf("ledger: append failed (tool=%s call=%s): %v", e.ToolName, e.ToolCallID, err)
	}
}

// MemoryStore is the in-process backend used when no database is configured
// and in tests. Entries keep per-project append order.
type MemoryStore struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	byProject map[string][]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen:      make(map[string]struct{}),
		byProject: make(map[string][]Entry),
	}
}

func (s *MemoryStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[e.ToolCallID]; dup {
		return nil
	}
	s.seen[e.ToolCallID] = struct{}{}
	s.byProject[e.ProjectID] = append(s.byProject[e.ProjectID], e)
	return nil
}

// Entries returns the recorded entries for a project in append order.
func (s *MemoryStore) Entries(projectID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.byProject[projectID]
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}
