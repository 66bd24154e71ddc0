package live

import "sync"

// sessionLocks serializes mutations per session key so two concurrent
// actions on the same session cannot interleave their read-modify-write
// against the store. Entries are never removed; the map is bounded by the
// number of sessions the process has touched.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the named session and returns the unlock func.
func (l *sessionLocks) acquire(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
