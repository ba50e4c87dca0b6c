package ledger

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore appends ledger entries to the tool_invocations table.
// Duplicate tool-call ids are dropped by the primary-key conflict clause,
// which keeps replays of the same stream from double-recording a call.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO tool_invocations (tool_call_id, project_id, tool_name, input, output, success, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (tool_call_id) DO NOTHING`,
		e.ToolCallID, e.ProjectID, e.ToolName, nullableJSON(e.Input), nullableJSON(e.Output), e.Success, e.CreatedAt)
	return err
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
