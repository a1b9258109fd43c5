package services

import (
	"context"
	"sync"
)

type claimKey struct {
	userID int64
	adID   int64
}

// keyedLock hands out one lock per claim key and forgets it once nobody holds
// or waits for it.
type keyedLock struct {
	mu    sync.Mutex
	locks map[claimKey]*refLock
}

type refLock struct {
	held chan struct{}
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[claimKey]*refLock)}
}

// Lock blocks until key is free or ctx is done, and returns the matching
// unlock func.
func (k *keyedLock) Lock(ctx context.Context, key claimKey) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{held: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.held <- struct{}{}:
		return func() {
			<-l.held
			k.release(key, l)
		}, nil
	case <-ctx.Done():
		k.release(key, l)
		return nil, ctx.Err()
	}
}

func (k *keyedLock) release(key claimKey, l *refLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}
