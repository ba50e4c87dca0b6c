package artifact

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps snapshots in process; used when no object storage is
// configured and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Put(_ context.Context, projectID, path string, content []byte) error {
	key, err := snapshotKey(projectID, path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, projectID, path string) ([]byte, error) {
	key, err := snapshotKey(projectID, path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), content...), nil
}

func (s *MemoryStore) GetURL(_ context.Context, projectID, path string) (string, error) {
	key, err := snapshotKey(projectID, path)
	if err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.data[key]; !ok {
		return "", ErrNotFound
	}
	return "memory://" + key, nil
}

func (s *MemoryStore) List(_ context.Context, projectID string) ([]string, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, fmt.Errorf("project_id is required")
	}
	prefix := projectID + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, 16)
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			paths = append(paths, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func snapshotKey(projectID, path string) (string, error) {
	projectID = strings.TrimSpace(projectID)
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if projectID == "" {
		return "", fmt.Errorf("project_id is required")
	}
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	return projectID + "/" + path, nil
}
