package redislock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karangtaruna-pekunden/marketplace/pkg/redis"
)

const (
	defaultTTL      = 10 * time.Second
	defaultWait     = 3 * time.Second
	defaultInterval = 50 * time.Millisecond
)

// ErrNotAcquired is returned by Lock when the key stayed held for the whole wait window.
var ErrNotAcquired = errors.New("redislock: lock not acquired")

// Store defines the redis operations the locks rely on.
type Store interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Options tune lease duration and how long Lock keeps polling.
type Options struct {
	TTL          time.Duration
	Wait         time.Duration
	PollInterval time.Duration
}

// Locker hands out short-lived leases over arbitrary keys using SETNX + TTL.
type Locker struct {
	store    Store
	ttl      time.Duration
	wait     time.Duration
	interval time.Duration
}

// Lease is one successful acquisition; only its owner token may release the key.
type Lease struct {
	store Store
	key   string
	owner string
}

// NewLocker constructs a Locker; zero option values fall back to defaults.
func NewLocker(store Store, opts Options) (*Locker, error) {
	if store == nil {
		return nil, errors.New("redis store required for lock")
	}
	l := &Locker{store: store, ttl: opts.TTL, wait: opts.Wait, interval: opts.PollInterval}
	if l.ttl <= 0 {
		l.ttl = defaultTTL
	}
	if l.wait <= 0 {
		l.wait = defaultWait
	}
	if l.interval <= 0 {
		l.interval = defaultInterval
	}
	return l, nil
}

// TryLock makes a single acquisition attempt.
func (l *Locker) TryLock(ctx context.Context, key string) (*Lease, bool, error) {
	if key == "" {
		return nil, false, errors.New("lock key is required")
	}
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, key, owner, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Lease{store: l.store, key: key, owner: owner}, true, nil
}

// Lock polls TryLock until it succeeds, the wait window elapses, or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (*Lease, error) {
	deadline := time.Now().Add(l.wait)
	for {
		lease, ok, err := l.TryLock(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			return lease, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}
		timer := time.NewTimer(l.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Release frees the key only if the owner value still matches.
func (lease *Lease) Release(ctx context.Context) error {
	if lease == nil || lease.owner == "" {
		return nil
	}
	value, err := lease.store.Get(ctx, lease.key)
	if err != nil {
		if redis.IsNil(err) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != lease.owner {
		return nil
	}
	if err := lease.store.Del(ctx, lease.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	lease.owner = ""
	return nil
}

// Mutex binds a Locker to a single key and exposes Acquire/Release for loops that run
// one cycle at a time.
type Mutex struct {
	locker *Locker
	key    string

	mu    sync.Mutex
	lease *Lease
}

// NewMutex constructs a single-key lock.
func NewMutex(store Store, key string, ttl time.Duration) (*Mutex, error) {
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	locker, err := NewLocker(store, Options{TTL: ttl})
	if err != nil {
		return nil, err
	}
	return &Mutex{locker: locker, key: key}, nil
}

// Acquire tries to own the key for the configured TTL.
func (m *Mutex) Acquire(ctx context.Context) (bool, error) {
	lease, ok, err := m.locker.TryLock(ctx, m.key)
	if err != nil || !ok {
		return false, err
	}
	m.mu.Lock()
	m.lease = lease
	m.mu.Unlock()
	return true, nil
}

// Release frees the key if this mutex still owns it.
func (m *Mutex) Release(ctx context.Context) error {
	m.mu.Lock()
	lease := m.lease
	m.lease = nil
	m.mu.Unlock()
	return lease.Release(ctx)
}
