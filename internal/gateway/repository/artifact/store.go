// Package artifact stores snapshots of the generated application files a
// build produces, keyed by project.
package artifact

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("artifact not found")

// Store persists generated-file snapshots. The gateway never depends on the
// store for correctness of the session layer; it is a side channel for the
// UI to fetch what the sandbox produced.
type Store interface {
	Put(ctx context.Context, projectID, path string, content []byte) error
	Get(ctx context.Context, projectID, path string) ([]byte, error)
	GetURL(ctx context.Context, projectID, path string) (string, error)
	List(ctx context.Context, projectID string) ([]string, error)
	Ping(ctx context.Context) error
}
