package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_CreateResolveRevoke(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(0)

	sess, err := store.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, sess.Token, 36)
	assert.Equal(t, 4, strings.Count(sess.Token, "-"))
	assert.True(t, sess.ExpiresAt.IsZero())

	got, ok := store.Resolve(ctx, sess.Token)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	store.Revoke(ctx, sess.Token)
	_, ok = store.Resolve(ctx, sess.Token)
	assert.False(t, ok)

	// revoking twice or revoking garbage is harmless
	store.Revoke(ctx, sess.Token)
	store.Revoke(ctx, "never-issued")
	assert.Zero(t, store.Count(ctx))
}

func TestSessionStore_MultipleSessionsPerUser(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(0)

	s1, err := store.Create(ctx, "alice")
	require.NoError(t, err)
	s2, err := store.Create(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, s1.Token, s2.Token)
	assert.Equal(t, 2, store.Count(ctx))

	store.Revoke(ctx, s1.Token)
	_, ok := store.Resolve(ctx, s2.Token)
	assert.True(t, ok, "revoking one session must not affect another")
}

func TestSessionStore_TTL(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Minute)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess, err := store.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), sess.ExpiresAt)

	now = now.Add(59 * time.Second)
	_, ok := store.Resolve(ctx, sess.Token)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = store.Resolve(ctx, sess.Token)
	assert.False(t, ok)
	assert.Zero(t, store.Count(ctx), "expired session is dropped on resolve")
}

func TestSessionStore_NegativeTTLMeansNoExpiry(t *testing.T) {
	store := NewSessionStore(-time.Second)
	sess, err := store.Create(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, sess.ExpiresAt.IsZero())
}
