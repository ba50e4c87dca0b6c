package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"appforge/internal/session"
)

// PostgresStore is the relational backend for projects, messages, and
// context rows.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Create(ctx context.Context, p Project) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO projects (id, name, description, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, description, created_at, updated_at
FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, description, created_at, updated_at
FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]Project, 0, 32)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update applies the patch only when the row exists; absent fields keep
// their current value.
func (s *PostgresStore) Update(ctx context.Context, id string, patch Patch) (Project, error) {
	row := s.db.QueryRowContext(ctx, `
UPDATE projects
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    updated_at = NOW()
WHERE id = $1
RETURNING id, name, description, created_at, updated_at`,
		id, patch.Name, patch.Description)
	return scanProject(row)
}

// Delete removes the project together with its messages and context rows in
// one transaction.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE project_id = $1`, id); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_context WHERE project_id = $1`, id); err != nil {
		return fmt.Errorf("delete context: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *PostgresStore) Messages(ctx context.Context, projectID string) ([]session.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, role, parts, created_at
FROM messages WHERE project_id = $1 ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]session.Message, 0, 64)
	for rows.Next() {
		var (
			msg  session.Message
			blob []byte
		)
		if err := rows.Scan(&msg.ID, &msg.Role, &blob, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if len(blob) > 0 {
			if err := json.Unmarshal(blob, &msg.Parts); err != nil {
				return nil, fmt.Errorf("decode parts for message %s: %w", msg.ID, err)
			}
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AppendMessage(ctx context.Context, projectID string, msg session.Message) error {
	parts, err := json.Marshal(msg.Parts)
	if err != nil {
		return fmt.Errorf("encode parts: %w", err)
	}
	created := msg.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO messages (id, project_id, role, parts, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO NOTHING`,
		msg.ID, projectID, msg.Role, parts, created)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendContext(ctx context.Context, entry ContextEntry) error {
	created := entry.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	content := entry.Content
	if len(content) == 0 {
		content = json.RawMessage(`{}`)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO project_context (id, project_id, content, created_at)
VALUES ($1,$2,$3,$4)`,
		entry.ID, entry.ProjectID, []byte(content), created)
	if err != nil {
		return fmt.Errorf("insert context: %w", err)
	}
	return nil
}

func scanProject(row *sql.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("scan project: %w", err)
	}
	return p, nil
}
