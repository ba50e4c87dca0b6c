package project

import (
	"context"
	"sort"
	"sync"
	"time"

	"appforge/internal/session"
)

// MemoryStore keeps everything in process. Used when no database is
// configured and throughout the tests.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]Project
	messages map[string][]session.Message
	contexts map[string][]ContextEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]Project),
		messages: make(map[string][]session.Message),
		contexts: make(map[string][]ContextEntry),
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Create(_ context.Context, p Project) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) List(context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch Patch) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.UpdatedAt = time.Now().UTC()
	s.projects[id] = p
	return p, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	delete(s.messages, id)
	delete(s.contexts, id)
	return nil
}

func (s *MemoryStore) Messages(_ context.Context, projectID string) ([]session.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.messages[projectID]
	out := make([]session.Message, len(src))
	copy(out, src)
	return out, nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, projectID string, msg session.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.messages[projectID] {
		if existing.ID == msg.ID {
			return nil
		}
	}
	s.messages[projectID] = append(s.messages[projectID], msg)
	return nil
}

func (s *MemoryStore) AppendContext(_ context.Context, entry ContextEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[entry.ProjectID] = append(s.contexts[entry.ProjectID], entry)
	return nil
}

// ContextEntries returns the context rows for a project. The service uses it
// to verify cascade deletion in tests.
func (s *MemoryStore) ContextEntries(projectID string) []ContextEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.contexts[projectID]
	out := make([]ContextEntry, len(src))
	copy(out, src)
	return out
}
