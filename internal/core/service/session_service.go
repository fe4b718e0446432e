package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
	"github.com/retailflow/plm-console/internal/pkg/metrics"
)

// SessionState is the coarse state of the session store.
type SessionState string

const (
	SessionLoading       SessionState = "loading"
	SessionAuthenticated SessionState = "authenticated"
	SessionAnonymous     SessionState = "anonymous"
)

// SessionService owns the single current Session. Every login, reload and
// logout bumps a generation counter; a network result that arrives after the
// generation moved on is discarded with domain.ErrSessionSuperseded.
type SessionService struct {
	gateway ports.Gateway
	storage ports.SessionStorage
	log     zerolog.Logger

	mu      sync.RWMutex
	current *domain.Session
	gen     uint64
	loading bool
}

// NewSessionService returns a store in the loading state; call Restore to
// resolve it.
func NewSessionService(gateway ports.Gateway, storage ports.SessionStorage, log zerolog.Logger) *SessionService {
	return &SessionService{
		gateway: gateway,
		storage: storage,
		log:     log,
		loading: true,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the API and then loads the identity. It returns
// the session it installed and the generation that session belongs to.
func (s *SessionService) Login(ctx context.Context, username, secret string) (*domain.Session, uint64, error) {
	if username == "" || secret == "" {
		s.logoutQuietly(ctx)
		transition("login", "failed")
		return nil, 0, domain.ErrMissingCredentials
	}

	gen := s.begin(false)
	creds := &domain.Credentials{Username: username, Secret: secret}

	// 1. Credential check; the response body carries nothing we need.
	_, err := s.gateway.Call(ctx, ports.Request{
		Op:          "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Body:        loginRequest{Username: username, Password: secret},
		Credentials: creds,
	})
	if err != nil {
		if s.fail(ctx, gen) {
			transition("login", "failed")
			return nil, 0, fmt.Errorf("login: %w", err)
		}
		transition("login", "superseded")
		return nil, 0, domain.ErrSessionSuperseded
	}

	// 2. Identity under the same generation.
	sess, err := s.reload(ctx, gen, *creds)
	if err != nil {
		if errors.Is(err, domain.ErrSessionSuperseded) {
			transition("login", "superseded")
		} else {
			transition("login", "failed")
		}
		return nil, 0, fmt.Errorf("login: %w", err)
	}
	transition("login", "ok")
	return sess, gen, nil
}

// ReloadIdentity re-reads the identity for the given credentials and replaces
// the current session with it. Like Login it returns the installed generation.
func (s *SessionService) ReloadIdentity(ctx context.Context, username, secret string) (*domain.Session, uint64, error) {
	if username == "" || secret == "" {
		s.logoutQuietly(ctx)
		transition("reload", "failed")
		return nil, 0, domain.ErrMissingCredentials
	}

	gen := s.begin(false)
	sess, err := s.reload(ctx, gen, domain.Credentials{Username: username, Secret: secret})
	switch {
	case err == nil:
		transition("reload", "ok")
		return sess, gen, nil
	case errors.Is(err, domain.ErrSessionSuperseded):
		transition("reload", "superseded")
	default:
		transition("reload", "failed")
	}
	return nil, 0, err
}

// Logout clears the session and wipes persisted storage. Calling it while
// logged out is a no-op apart from the storage wipe.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.current = nil
	s.loading = false
	transition("logout", "ok")

	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("logout: clear storage: %w", err)
	}
	return nil
}

func (s *SessionService) logoutQuietly(ctx context.Context) {
	if err := s.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear session storage")
	}
}

// Restore resolves the startup state from persisted storage. With both
// entries present the identity is reloaded from the API; otherwise the store
// becomes anonymous without a network call and any partial entry is wiped.
func (s *SessionService) Restore(ctx context.Context) (*domain.Session, error) {
	gen := s.begin(true)

	username, secret, err := s.readPersisted(ctx)
	if err != nil || username == "" || secret == "" {
		s.fail(ctx, gen)
		if err != nil {
			transition("restore", "failed")
			return nil, fmt.Errorf("restore: %w", err)
		}
		transition("restore", "absent")
		return nil, nil
	}

	sess, err := s.reload(ctx, gen, domain.Credentials{Username: username, Secret: secret})
	switch {
	case err == nil:
		transition("restore", "ok")
	case errors.Is(err, domain.ErrSessionSuperseded):
		transition("restore", "superseded")
	default:
		transition("restore", "failed")
	}
	return sess, err
}

// Current returns a copy of the session, or nil while logged out or loading.
func (s *SessionService) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// State reports whether the store is loading, authenticated or anonymous.
func (s *SessionService) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// Snapshot returns the session together with its generation, read atomically.
func (s *SessionService) Snapshot() (*domain.Session, uint64, SessionState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone(), s.gen, s.stateLocked()
}

func (s *SessionService) stateLocked() SessionState {
	switch {
	case s.loading:
		return SessionLoading
	case s.current != nil:
		return SessionAuthenticated
	default:
		return SessionAnonymous
	}
}

// begin starts a new generation and returns it.
func (s *SessionService) begin(loading bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if loading {
		s.current = nil
		s.loading = true
	}
	return s.gen
}

// fail clears the session and storage if gen is still current. It reports
// whether the clear happened.
func (s *SessionService) fail(ctx context.Context, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.current = nil
	s.loading = false
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear session storage")
	}
	return true
}

func (s *SessionService) reload(ctx context.Context, gen uint64, creds domain.Credentials) (*domain.Session, error) {
	resp, err := s.gateway.Call(ctx, ports.Request{
		Op:          "identity",
		Method:      http.MethodGet,
		Path:        "/auth/users/me",
		Credentials: &creds,
	})

	var (
		username string
		roles    domain.RoleSet
	)
	if err == nil {
		username, roles, err = parseIdentity(string(resp.Body))
	}
	if err != nil {
		if !s.fail(ctx, gen) {
			return nil, domain.ErrSessionSuperseded
		}
		s.log.Info().Err(err).Str("username", creds.Username).Msg("identity reload failed")
		return nil, fmt.Errorf("reload identity: %w", err)
	}

	sess := &domain.Session{Username: username, Roles: roles, Secret: creds.Secret}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, domain.ErrSessionSuperseded
	}
	s.current = sess
	s.loading = false
	if err := s.persistLocked(ctx, sess); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to persist session")
	}

	s.log.Info().
		Str("username", username).
		Strs("roles", roles.Names()).
		Msg("session established")

	return sess.Clone(), nil
}

func (s *SessionService) persistLocked(ctx context.Context, sess *domain.Session) error {
	user, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, ports.SessionKeyUser, string(user)); err != nil {
		return err
	}
	return s.storage.Set(ctx, ports.SessionKeySecret, sess.Secret)
}

// readPersisted returns empty strings when either entry is missing or the
// user entry is malformed.
func (s *SessionService) readPersisted(ctx context.Context) (string, string, error) {
	rawUser, ok, err := s.storage.Get(ctx, ports.SessionKeyUser)
	if err != nil || !ok {
		return "", "", err
	}
	secret, ok, err := s.storage.Get(ctx, ports.SessionKeySecret)
	if err != nil || !ok {
		return "", "", err
	}

	var user domain.Session
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.log.Warn().Err(err).Msg("discarding malformed persisted user")
		return "", "", nil
	}
	return user.Username, secret, nil
}

func transition(event, result string) {
	metrics.SessionTransitionsTotal.WithLabelValues(event, result).Inc()
}
