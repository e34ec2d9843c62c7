package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/pkg/metrics"
)

// DefaultAdminUsername is the identity granted the admin role at registration.
const DefaultAdminUsername = "admin"

// timingPassword feeds the dummy hash compared against when a login names an
// unknown user, so both failure paths cost one bcrypt verify.
const timingPassword = "unknown-user-timing-equaliser"

// AuthService implements registration, login, logout and token resolution.
type AuthService struct {
	creds         ports.CredentialStore
	sessions      ports.SessionStore
	hasher        ports.PasswordHasher
	throttle      ports.LoginThrottle
	adminUsername string
	log           zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// Option customises an AuthService.
type Option func(*AuthService)

// WithLoginThrottle enables failed-login throttling. A nil throttle disables it.
func WithLoginThrottle(t ports.LoginThrottle) Option {
	return func(s *AuthService) { s.throttle = t }
}

// WithAdminUsername overrides the username that registers with the admin role.
func WithAdminUsername(username string) Option {
	return func(s *AuthService) {
		if username != "" {
			s.adminUsername = username
		}
	}
}

func NewAuthService(
	creds ports.CredentialStore,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		creds:         creds,
		sessions:      sessions,
		hasher:        hasher,
		adminUsername: DefaultAdminUsername,
		log:           log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a credential and an initial session. A taken username is
// a business failure, reported in the outcome rather than as an error.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthOutcome, error) {
	if s.creds.Exists(ctx, in.Username) {
		return s.duplicate(in.Username), nil
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("register %q: %w", in.Username, err)
	}

	cred := domain.Credential{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         s.roleFor(in.Username),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.creds.Register(ctx, cred); err != nil {
		// A concurrent registration won between Exists and Register.
		if errors.Is(err, domain.ErrUsernameTaken) {
			return s.duplicate(in.Username), nil
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("register %q: %w", in.Username, err)
	}

	sess, err := s.openSession(ctx, in.Username)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("register %q: %w", in.Username, err)
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info().Str("username", in.Username).Str("role", cred.Role).Msg("user registered")
	return domain.Succeeded(domain.MsgRegistrationSuccessful, in.Username, sess.Token), nil
}

// Login verifies the password and opens a new session. Unknown usernames and
// wrong passwords produce the same outcome.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.AuthOutcome, error) {
	if !s.allowAttempt(ctx, username) {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultThrottled).Inc()
		s.log.Warn().Str("username", username).Msg("login throttled")
		return nil, domain.ErrTooManyAttempts
	}

	cred, found := s.creds.Get(ctx, username)
	stored := cred.PasswordHash
	if !found {
		stored = s.dummy()
	}
	if !s.verify(password, stored) || !found {
		s.recordFailure(ctx, username)
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		s.log.Info().Str("username", username).Msg("login rejected")
		return domain.Failed(domain.MsgInvalidCredentials, username), nil
	}

	sess, err := s.openSession(ctx, username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("login %q: %w", username, err)
	}
	s.resetFailures(ctx, username)

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info().Str("username", username).Msg("user logged in")
	return domain.Succeeded(domain.MsgLoginSuccessful, username, sess.Token), nil
}

// Logout revokes token if it is live. The message never depends on whether
// anything was revoked.
func (s *AuthService) Logout(ctx context.Context, token string) string {
	revoked := false
	if token != "" {
		if sess, ok := s.sessions.Resolve(ctx, token); ok {
			s.sessions.Revoke(ctx, token)
			revoked = true
			s.log.Info().Str("username", sess.Username).Msg("session revoked")
		}
	}

	metrics.LogoutsTotal.WithLabelValues(strconv.FormatBool(revoked)).Inc()
	metrics.ActiveSessions.Set(float64(s.sessions.Count(ctx)))
	return domain.MsgLoggedOut
}

// Authenticate resolves token to its principal.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	sess, ok := s.sessions.Resolve(ctx, token)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	cred, ok := s.creds.Get(ctx, sess.Username)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Principal{Username: cred.Username, Role: cred.Role}, nil
}

func (s *AuthService) ListUsernames(ctx context.Context) []string {
	return s.creds.Usernames(ctx)
}

func (s *AuthService) duplicate(username string) *domain.AuthOutcome {
	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
	s.log.Info().Str("username", username).Msg("registration rejected: username exists")
	return domain.Failed(domain.MsgUsernameExists, username)
}

func (s *AuthService) roleFor(username string) string {
	if username == s.adminUsername {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func (s *AuthService) openSession(ctx context.Context, username string) (domain.Session, error) {
	sess, err := s.sessions.Create(ctx, username)
	if err != nil {
		return domain.Session{}, err
	}
	metrics.ActiveSessions.Set(float64(s.sessions.Count(ctx)))
	return sess, nil
}

func (s *AuthService) hash(password string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	}()
	return s.hasher.Hash(password)
}

func (s *AuthService) verify(password, hash string) bool {
	start := time.Now()
	defer func() {
		metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	}()
	return s.hasher.Verify(password, hash)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(timingPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("timing hash unavailable")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// allowAttempt fails open: a broken throttle backend must not lock everyone out.
func (s *AuthService) allowAttempt(ctx context.Context, username string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Allow(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, allowing attempt")
		return true
	}
	return ok
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle record failed")
	}
}

func (s *AuthService) resetFailures(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle reset failed")
	}
}
