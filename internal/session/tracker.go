package session

import "sync"

// tracker keeps the consumed set and last derived state for one project.
type tracker struct {
	mu       sync.Mutex
	consumed *ConsumedSet
	state    DerivedState
}

// fold holds the lock across the whole reduction. Overlapping folds of the
// same project serialize: if they interleaved, a fold over a shorter history
// could commit after one that already applied a later call — the call's id
// would be in the consumed set while its value never reaches the state, and
// consumed membership would filter it out of every future fold.
func (t *tracker) fold(messages []Message) DerivedState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Reduce(t.state, messages, t.consumed)
	return t.state
}

// Manager owns per-project session trackers. Folds of the same project run
// one at a time under the tracker lock; independent projects fold freely in
// parallel.
type Manager struct {
	mu       sync.RWMutex
	projects map[string]*tracker
}

func NewManager() *Manager {
	return &Manager{projects: make(map[string]*tracker)}
}

func (m *Manager) get(projectID string) *tracker {
	m.mu.RLock()
	t, ok := m.projects[projectID]
	m.mu.RUnlock()
	if ok {
		return t
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok = m.projects[projectID]; ok {
		return t
	}
	t = &tracker{consumed: NewConsumedSet()}
	m.projects[projectID] = t
	return t
}

// Fold reduces the given history into the project's derived state and
// returns the result.
func (m *Manager) Fold(projectID string, messages []Message) DerivedState {
	return m.get(projectID).fold(messages)
}

// State returns the last derived state without re-reducing.
func (m *Manager) State(projectID string) DerivedState {
	t := m.get(projectID)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Drop discards the tracker for a project. Called when the owning project is
// deleted.
func (m *Manager) Drop(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, projectID)
}
