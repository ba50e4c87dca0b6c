// Package project owns the project lifecycle: validation, persistence
// through the (cached) store, and the session state derived from a
// project's message history.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	projectrepo "appforge/internal/gateway/repository/project"
	"appforge/internal/session"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 4000

	storageTimeout = 5 * time.Second
)

type Project = projectrepo.Project
type Patch = projectrepo.Patch

type Service struct {
	store    projectrepo.Store
	sessions *session.Manager
}

func New(store projectrepo.Store, sessions *session.Manager) *Service {
	return &Service{store: store, sessions: sessions}
}

// Create validates and persists a new project.
func (s *Service) Create(ctx context.Context, name, description string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(name) > maxNameLen {
		return Project{}, &ValidationError{Field: "name", Reason: "too long"}
	}
	if len(description) > maxDescriptionLen {
		return Project{}, &ValidationError{Field: "description", Reason: "too long"}
	}

	p := Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.store.Create(ctx, p); err != nil {
		return Project{}, s.storageErr("create", err)
	}
	// Read back so timestamps reflect what was committed.
	created, err := s.store.Get(ctx, p.ID)
	if err != nil {
		log.Printf("project: read-back after create %s failed, returning uncommitted copy: %v", p.ID, err)
		return p, nil
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Project{}, s.storageErr("get", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storageErr("list", err)
	}
	return out, nil
}

// GetWithMessages is the composed read. An absent project is NotFound; an
// empty message history is a valid result.
func (s *Service) GetWithMessages(ctx context.Context, id string) (Project, []session.Message, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Project{}, nil, s.storageErr("get", err)
	}
	msgs, err := s.store.Messages(ctx, id)
	if err != nil {
		return Project{}, nil, s.storageErr("messages", err)
	}
	return p, msgs, nil
}

// Update validates the patch, persists it, and returns the post-update
// record. The cached view is refreshed by the store only after the write
// commits (read-after-write from the caller's perspective).
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Project, error) {
	if patch.Empty() {
		return Project{}, &ValidationError{Field: "patch", Reason: "no updatable fields"}
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Project{}, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		if len(name) > maxNameLen {
			return Project{}, &ValidationError{Field: "name", Reason: "too long"}
		}
		patch.Name = &name
	}
	if patch.Description != nil && len(*patch.Description) > maxDescriptionLen {
		return Project{}, &ValidationError{Field: "description", Reason: "too long"}
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()
	p, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return Project{}, s.storageErr("update", err)
	}
	return p, nil
}

// Delete removes the project and its dependent rows. Deleting an absent
// project is NotFound rather than silent success, applied uniformly across
// the surface. The in-memory session tracker is dropped once the store
// delete committed.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storageErr("delete", err)
	}
	s.sessions.Drop(id)
	return nil
}

// AppendMessage stores one conversational turn. The session is implicit:
// the first message for a project id creates it.
func (s *Service) AppendMessage(ctx context.Context, id string, msg session.Message) error {
	if msg.Role != session.RoleUser && msg.Role != session.RoleAssistant {
		return &ValidationError{Field: "role", Reason: "must be user or assistant"}
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if _, err := s.store.Get(ctx, id); err != nil {
		return s.storageErr("get", err)
	}
	if err := s.store.AppendMessage(ctx, id, msg); err != nil {
		return s.storageErr("append message", err)
	}
	return nil
}

// AppendContext attaches one build-context record (requirements, design
// notes, sandbox metadata) to a project.
func (s *Service) AppendContext(ctx context.Context, id string, content json.RawMessage) error {
	if len(content) == 0 {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if !json.Valid(content) {
		return &ValidationError{Field: "content", Reason: "must be valid JSON"}
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if _, err := s.store.Get(ctx, id); err != nil {
		return s.storageErr("get", err)
	}
	entry := projectrepo.ContextEntry{
		ID:        uuid.NewString(),
		ProjectID: id,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AppendContext(ctx, entry); err != nil {
		return s.storageErr("append context", err)
	}
	return nil
}

// DerivedState reduces the stored history into the project's current build
// state.
func (s *Service) DerivedState(ctx context.Context, id string) (session.DerivedState, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if _, err := s.store.Get(ctx, id); err != nil {
		return session.DerivedState{}, s.storageErr("get", err)
	}
	msgs, err := s.store.Messages(ctx, id)
	if err != nil {
		return session.DerivedState{}, s.storageErr("messages", err)
	}
	return s.sessions.Fold(id, msgs), nil
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storageTimeout)
}

// storageErr maps store failures into the service taxonomy: ErrNotFound
// stays NotFound, everything else is a retryable persistence failure.
func (s *Service) storageErr(op string, err error) error {
	if errors.Is(err, projectrepo.ErrNotFound) {
		return ErrNotFound
	}
	return &PersistenceError{Op: op, Err: err}
}
