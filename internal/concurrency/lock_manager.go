package concurrency

import (
	"hash/maphash"
	"sync"
)

// DefaultStripes is the number of mutexes a LockManager spreads keys over
const DefaultStripes = 256

// LockManager serializes work per key with a fixed set of striped mutexes.
// Two keys may share a stripe, so callers must never hold two locks at once.
type LockManager struct {
	seed    maphash.Seed
	stripes []sync.Mutex
}

// NewLockManager creates a LockManager with DefaultStripes stripes
func NewLockManager() *LockManager {
	return NewLockManagerWithStripes(DefaultStripes)
}

// NewLockManagerWithStripes creates a LockManager with n stripes (at least one)
func NewLockManagerWithStripes(n int) *LockManager {
	if n < 1 {
		n = 1
	}
	return &LockManager{
		seed:    maphash.MakeSeed(),
		stripes: make([]sync.Mutex, n),
	}
}

// GetLock returns the mutex guarding key. The same key always maps to the same mutex.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	idx := maphash.String(lm.seed, key) % uint64(len(lm.stripes))
	return &lm.stripes[idx]
}

// ParticipantKey names the lock that serializes reward writes for one participant
func ParticipantKey(participantID string) string {
	return "participant:" + participantID
}
