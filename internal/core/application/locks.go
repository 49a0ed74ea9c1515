package application

import (
	"sync"

	"github.com/blocknames/registrar/internal/core/domain"
)

// nameLocks serializes submissions per (queue, name). Together with the
// store's atomic conditional insert this closes the window between the
// duplicate check and the record append.
type nameLocks struct {
	mu    sync.Mutex
	locks map[string]*nameLock
}

type nameLock struct {
	mu   sync.Mutex
	refs int
}

func newNameLocks() *nameLocks {
	return &nameLocks{locks: make(map[string]*nameLock)}
}

func (l *nameLocks) lock(queue domain.Queue, name string) (unlock func()) {
	key := string(queue) + "/" + name

	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &nameLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
