package memory

import (
	"context"
	"sync"
	"time"
)

type failureWindow struct {
	count   int
	resetAt time.Time
}

// LoginThrottle implements ports.LoginThrottle with fixed windows that open
// on the first failure for a username. Expired windows are swept at most once
// per window, so usernames that never return do not accumulate.
type LoginThrottle struct {
	mu          sync.Mutex
	failures    map[string]failureWindow
	maxFailures int
	window      time.Duration
	now         func() time.Time
	nextSweep   time.Time
}

func NewLoginThrottle(maxFailures int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		failures:    make(map[string]failureWindow),
		maxFailures: maxFailures,
		window:      window,
		now:         time.Now,
	}
}

func (t *LoginThrottle) Allow(_ context.Context, username string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, ok := t.failures[username]
	if !ok {
		return true, nil
	}
	if !t.now().Before(w.resetAt) {
		delete(t.failures, username)
		return true, nil
	}
	return w.count < t.maxFailures, nil
}

func (t *LoginThrottle) RecordFailure(_ context.Context, username string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweep(now)

	w, ok := t.failures[username]
	if !ok || !now.Before(w.resetAt) {
		w = failureWindow{resetAt: now.Add(t.window)}
	}
	w.count++
	t.failures[username] = w
	return nil
}

func (t *LoginThrottle) Reset(_ context.Context, username string) error {
	t.mu.Lock()
	delete(t.failures, username)
	t.mu.Unlock()
	return nil
}

// sweep drops every elapsed window. Callers hold t.mu.
func (t *LoginThrottle) sweep(now time.Time) {
	if now.Before(t.nextSweep) {
		return
	}
	for name, w := range t.failures {
		if !now.Before(w.resetAt) {
			delete(t.failures, name)
		}
	}
	t.nextSweep = now.Add(t.window)
}
