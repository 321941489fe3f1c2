package cart

import (
	"sync"

	"github.com/google/uuid"
)

// userLocks serializes cart mutations per user. Two concurrent requests for
// the same user queue behind one mutex; different users never contend. The
// map only grows with active users of this process, which is acceptable for
// a single-instance deployment.
type userLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Acquire locks the per-user mutex and returns the release func.
func (l *userLocks) Acquire(userID uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
