// Package project caches project reads in front of the relational store.
// Correctness never depends on cache content: every mutation goes to the
// origin first, and the cache entry is touched only after the origin write
// commits, so a reader racing an update sees either the pre- or post-update
// record, never a stale value after invalidation.
package project

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	projectrepo "appforge/internal/gateway/repository/project"
	"appforge/internal/session"
)

type Store = projectrepo.Store

type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:        2 * time.Minute,
		MaxEntries: 1024,
	}
}

// CachedStore wraps an origin Store with an LRU+TTL read cache keyed by
// project id. Message and context operations pass through uncached: the
// history grows without bound and is reduced on demand.
//
// epochs counts mutations per id. A read-miss captures the id's epoch
// before asking the origin and repopulates the cache only if no mutation
// landed in between; without that check, a reader holding a pre-update row
// could re-add it after the update already refreshed the cache. Epochs only
// ever increment — resetting on delete would let a reader that captured the
// reset value cache a deleted row.
type CachedStore struct {
	origin Store
	cache  *expirable.LRU[string, projectrepo.Project]

	mu     sync.Mutex
	epochs map[string]uint64
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	if cfg.TTL <= 0 || cfg.MaxEntries <= 0 {
		def := DefaultCacheConfig()
		if cfg.TTL <= 0 {
			cfg.TTL = def.TTL
		}
		if cfg.MaxEntries <= 0 {
			cfg.MaxEntries = def.MaxEntries
		}
	}
	return &CachedStore{
		origin: origin,
		cache:  expirable.NewLRU[string, projectrepo.Project](cfg.MaxEntries, nil, cfg.TTL),
		epochs: make(map[string]uint64),
	}
}

func (s *CachedStore) epoch(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochs[id]
}

func (s *CachedStore) Get(ctx context.Context, id string) (projectrepo.Project, error) {
	if p, ok := s.cache.Get(id); ok {
		return p, nil
	}
	before := s.epoch(id)
	p, err := s.origin.Get(ctx, id)
	if err != nil {
		return projectrepo.Project{}, err
	}
	s.mu.Lock()
	if s.epochs[id] == before {
		s.cache.Add(id, p)
	}
	s.mu.Unlock()
	return p, nil
}

// Create writes to the origin and caches the committed row, not the input:
// the origin assigns timestamps the caller's copy does not have.
func (s *CachedStore) Create(ctx context.Context, p projectrepo.Project) error {
	if err := s.origin.Create(ctx, p); err != nil {
		return err
	}
	committed, err := s.origin.Get(ctx, p.ID)
	s.mu.Lock()
	s.epochs[p.ID]++
	if err == nil {
		s.cache.Add(p.ID, committed)
	}
	s.mu.Unlock()
	return nil
}

// Update writes to the origin and refreshes the cache only after the write
// succeeded; a failed update leaves the cached value untouched. The epoch
// bump and the cache refresh land under one lock so a racing read-miss sees
// either the bumped epoch or the fresh entry, never a window between them.
func (s *CachedStore) Update(ctx context.Context, id string, patch projectrepo.Patch) (projectrepo.Project, error) {
	p, err := s.origin.Update(ctx, id, patch)
	if err != nil {
		return projectrepo.Project{}, err
	}
	s.mu.Lock()
	s.epochs[id]++
	s.cache.Add(id, p)
	s.mu.Unlock()
	return p, nil
}

func (s *CachedStore) Delete(ctx context.Context, id string) error {
	if err := s.origin.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.epochs[id]++
	s.cache.Remove(id)
	s.mu.Unlock()
	return nil
}

func (s *CachedStore) List(ctx context.Context) ([]projectrepo.Project, error) {
	return s.origin.List(ctx)
}

func (s *CachedStore) Messages(ctx context.Context, projectID string) ([]session.Message, error) {
	return s.origin.Messages(ctx, projectID)
}

func (s *CachedStore) AppendMessage(ctx context.Context, projectID string, msg session.Message) error {
	return s.origin.AppendMessage(ctx, projectID, msg)
}

func (s *CachedStore) AppendContext(ctx context.Context, entry projectrepo.ContextEntry) error {
	return s.origin.AppendContext(ctx, entry)
}

func (s *CachedStore) Ping(ctx context.Context) error {
	return s.origin.Ping(ctx)
}
