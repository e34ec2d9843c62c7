package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/infrastructure/hasher"
	"github.com/99minutos/auth-service/internal/infrastructure/memory"
)

type fixture struct {
	svc      *AuthService
	creds    *memory.CredentialStore
	sessions *memory.SessionStore
}

func newFixture(opts ...Option) fixture {
	creds := memory.NewCredentialStore()
	sessions := memory.NewSessionStore(0)
	svc := NewAuthService(creds, sessions, hasher.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop(), opts...)
	return fixture{svc: svc, creds: creds, sessions: sessions}
}

func register(t *testing.T, svc *AuthService, username, password string) *domain.AuthOutcome {
	t.Helper()
	out, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(t, err)
	return out
}

// failingHasher returns err from Hash and rejects every Verify.
type failingHasher struct{ err error }

func (h failingHasher) Hash(string) (string, error) { return "", h.err }
func (h failingHasher) Verify(string, string) bool { return false }

// stubThrottle records calls and answers Allow with allow/err.
type stubThrottle struct {
	allow    bool
	err      error
	failures int
	resets   int
}

func (s *stubThrottle) Allow(context.Context, string) (bool, error) { return s.allow, s.err }
func (s *stubThrottle) RecordFailure(context.Context, string) error {
	s.failures++
	return nil
}
func (s *stubThrottle) Reset(context.Context, string) error {
	s.resets++
	return nil
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newFixture()

	out := register(t, f.svc, "alice", "pass123")
	assert.True(t, out.Success)
	assert.Equal(t, domain.MsgRegistrationSuccessful, out.Message)
	assert.Equal(t, "alice", out.Username)
	require.NotNil(t, out.Token)

	cred, ok := f.creds.Get(context.Background(), "alice")
	require.True(t, ok)
	assert.NotEqual(t, "pass123", cred.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("pass123")))
	assert.Equal(t, domain.RoleUser, cred.Role)
	assert.Equal(t, "alice@example.com", cred.Email)

	sess, ok := f.sessions.Resolve(context.Background(), *out.Token)
	require.True(t, ok, "registration opens a session immediately")
	assert.Equal(t, "alice", sess.Username)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := register(t, f.svc, "bob", "firstpass")
	require.True(t, first.Success)
	firstCred, _ := f.creds.Get(ctx, "bob")

	second := register(t, f.svc, "bob", "secondpass")
	assert.False(t, second.Success)
	assert.Equal(t, domain.MsgUsernameExists, second.Message)
	assert.Nil(t, second.Token)

	cred, _ := f.creds.Get(ctx, "bob")
	assert.Equal(t, firstCred.PasswordHash, cred.PasswordHash, "first hash is retained")
	assert.Equal(t, 1, f.sessions.Count(ctx))
}

func TestAuthService_Register_AdminRole(t *testing.T) {
	f := newFixture()
	register(t, f.svc, "admin", "adminpass")

	cred, _ := f.creds.Get(context.Background(), "admin")
	assert.Equal(t, domain.RoleAdmin, cred.Role)

	register(t, f.svc, "Admin", "adminpass")
	cred, _ = f.creds.Get(context.Background(), "Admin")
	assert.Equal(t, domain.RoleUser, cred.Role, "admin identity is case-sensitive")
}

func TestAuthService_Register_CustomAdminUsername(t *testing.T) {
	f := newFixture(WithAdminUsername("root"))
	register(t, f.svc, "root", "rootpass")
	register(t, f.svc, "admin", "adminpass")

	root, _ := f.creds.Get(context.Background(), "root")
	admin, _ := f.creds.Get(context.Background(), "admin")
	assert.Equal(t, domain.RoleAdmin, root.Role)
	assert.Equal(t, domain.RoleUser, admin.Role)
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	creds := memory.NewCredentialStore()
	svc := NewAuthService(creds, memory.NewSessionStore(0), failingHasher{err: domain.ErrPasswordTooLong}, zerolog.Nop())

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
	assert.False(t, creds.Exists(context.Background(), "carol"))
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture()
	register(t, f.svc, "carol", "s3cret!")

	out, err := f.svc.Login(context.Background(), "carol", "s3cret!")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, domain.MsgLoginSuccessful, out.Message)
	require.NotNil(t, out.Token)
	assert.Len(t, *out.Token, 36)
	assert.Equal(t, 4, strings.Count(*out.Token, "-"))
}

func TestAuthService_Login_IndependentSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	register(t, f.svc, "dave", "goodpass")

	first, err := f.svc.Login(ctx, "dave", "goodpass")
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, "dave", "goodpass")
	require.NoError(t, err)

	assert.NotEqual(t, *first.Token, *second.Token)
	for _, tok := range []string{*first.Token, *second.Token} {
		p, err := f.svc.Authenticate(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "dave", p.Username)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	f := newFixture()
	register(t, f.svc, "erin", "goodpass")

	wrong, err := f.svc.Login(context.Background(), "erin", "badpass")
	require.NoError(t, err)
	unknown, err := f.svc.Login(context.Background(), "ghost", "whatever")
	require.NoError(t, err)

	for _, out := range []*domain.AuthOutcome{wrong, unknown} {
		assert.False(t, out.Success)
		assert.Equal(t, domain.MsgInvalidCredentials, out.Message)
		assert.Nil(t, out.Token)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	out := register(t, f.svc, "frank", "goodpass")

	assert.Equal(t, domain.MsgLoggedOut, f.svc.Logout(ctx, *out.Token))
	_, err := f.svc.Authenticate(ctx, *out.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// absent, unknown and already revoked tokens all get the same answer
	assert.Equal(t, domain.MsgLoggedOut, f.svc.Logout(ctx, ""))
	assert.Equal(t, domain.MsgLoggedOut, f.svc.Logout(ctx, "invalid-token-12345"))
	assert.Equal(t, domain.MsgLoggedOut, f.svc.Logout(ctx, *out.Token))
	assert.Zero(t, f.sessions.Count(ctx))
}

func TestAuthService_Logout_LeavesOtherSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	reg := register(t, f.svc, "gina", "goodpass")
	login, err := f.svc.Login(ctx, "gina", "goodpass")
	require.NoError(t, err)

	f.svc.Logout(ctx, *reg.Token)
	_, err = f.svc.Authenticate(ctx, *login.Token)
	assert.NoError(t, err)
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := register(t, f.svc, "admin", "adminpass")

	p, err := f.svc.Authenticate(ctx, *admin.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Username)
	assert.True(t, p.IsAdmin())

	_, err = f.svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.svc.Authenticate(ctx, "not-a-session")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_Authenticate_OrphanSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, "nobody")
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_Authenticate_ExpiredSession(t *testing.T) {
	creds := memory.NewCredentialStore()
	sessions := memory.NewSessionStore(time.Nanosecond)
	svc := NewAuthService(creds, sessions, hasher.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())

	out := register(t, svc, "henry", "goodpass")
	time.Sleep(time.Millisecond)

	_, err := svc.Authenticate(context.Background(), *out.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_ListUsernames(t *testing.T) {
	f := newFixture()
	register(t, f.svc, "zoe", "goodpass")
	register(t, f.svc, "admin", "adminpass")

	assert.Equal(t, []string{"admin", "zoe"}, f.svc.ListUsernames(context.Background()))
}

func TestAuthService_Login_Throttled(t *testing.T) {
	th := &stubThrottle{allow: false}
	f := newFixture(WithLoginThrottle(th))
	register(t, f.svc, "ivan", "goodpass")

	_, err := f.svc.Login(context.Background(), "ivan", "goodpass")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestAuthService_Login_ThrottleBookkeeping(t *testing.T) {
	th := &stubThrottle{allow: true}
	f := newFixture(WithLoginThrottle(th))
	register(t, f.svc, "judy", "goodpass")

	_, _ = f.svc.Login(context.Background(), "judy", "badpass")
	_, _ = f.svc.Login(context.Background(), "ghost", "badpass")
	assert.Equal(t, 2, th.failures, "unknown and known usernames are counted alike")

	out, err := f.svc.Login(context.Background(), "judy", "goodpass")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 1, th.resets)
}

func TestAuthService_Login_ThrottleFailsOpen(t *testing.T) {
	th := &stubThrottle{err: errors.New("backend down")}
	f := newFixture(WithLoginThrottle(th))
	register(t, f.svc, "kate", "goodpass")

	out, err := f.svc.Login(context.Background(), "kate", "goodpass")
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestAuthService_Login_WithRealThrottle(t *testing.T) {
	f := newFixture(WithLoginThrottle(memory.NewLoginThrottle(2, time.Hour)))
	ctx := context.Background()
	register(t, f.svc, "leo", "goodpass")

	for i := 0; i < 2; i++ {
		out, err := f.svc.Login(ctx, "leo", "badpass")
		require.NoError(t, err)
		require.False(t, out.Success)
	}

	_, err := f.svc.Login(ctx, "leo", "goodpass")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}
