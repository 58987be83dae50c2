package application

import (
	"context"
	"sync"

	"github.com/bnema/mafia-engine/internal/domain"
)

// keyLocker serialises load-mutate-persist cycles per session key.
type keyLocker struct {
	mu    sync.Mutex
	locks map[domain.SessionKey]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func newKeyLocker() *keyLocker {
	return &keyLocker{locks: map[domain.SessionKey]*keyLock{}}
}

// Lock blocks until key is free or ctx is done. The returned func releases the lock.
func (l *keyLocker) Lock(ctx context.Context, key domain.SessionKey) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.sem
			l.release(key, lock)
		})
	}, nil
}

func (l *keyLocker) release(key domain.SessionKey, lock *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *keyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
