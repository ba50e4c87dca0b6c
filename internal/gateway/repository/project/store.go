// Package project persists the authoritative project record together with
// its dependent session messages and context rows.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"appforge/internal/session"
)

// ErrNotFound is returned when the referenced project is absent.
var ErrNotFound = errors.New("project not found")

// Project is the persisted record of one build.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch carries the updatable fields of a project. Nil means "leave as is".
type Patch struct {
	Name        *string
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool { return p.Name == nil && p.Description == nil }

// ContextEntry is one piece of build context attached to a project
// (requirements, design notes, sandbox metadata).
type ContextEntry struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"projectId"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Store is the relational collaborator the project service depends on.
// Deleting a project removes its messages and context in the same
// transaction: no dependent row may outlive its parent.
type Store interface {
	Create(ctx context.Context, p Project) error
	Get(ctx context.Context, id string) (Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, id string, patch Patch) (Project, error)
	Delete(ctx context.Context, id string) error

	Messages(ctx context.Context, projectID string) ([]session.Message, error)
	AppendMessage(ctx context.Context, projectID string, msg session.Message) error
	AppendContext(ctx context.Context, entry ContextEntry) error

	Ping(ctx context.Context) error
}
