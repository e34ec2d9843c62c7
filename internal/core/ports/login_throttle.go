package ports

import "context"

// LoginThrottle counts failed logins per username within a time window.
type LoginThrottle interface {
	// Allow reports whether another login attempt for username may proceed.
	Allow(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
