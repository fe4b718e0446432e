package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/retailflow/plm-console/internal/api/middleware"
	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/service"
)

type stubProducts struct {
	listFn    func(ctx context.Context, sess *domain.Session, status domain.ProductStatus) ([]domain.Product, error)
	createFn  func(ctx context.Context, sess *domain.Session, draft domain.ProductDraft) (*domain.Product, error)
	advanceFn func(ctx context.Context, sess *domain.Session, p domain.Product, target domain.ProductStatus) error
}

func (s *stubProducts) List(ctx context.Context, sess *domain.Session, status domain.ProductStatus) ([]domain.Product, error) {
	return s.listFn(ctx, sess, status)
}

func (s *stubProducts) Create(ctx context.Context, sess *domain.Session, draft domain.ProductDraft) (*domain.Product, error) {
	return s.createFn(ctx, sess, draft)
}

func (s *stubProducts) RequestAdvance(ctx context.Context, sess *domain.Session, p domain.Product, target domain.ProductStatus) error {
	return s.advanceFn(ctx, sess, p, target)
}

type stubSessions struct {
	loginFn  func(ctx context.Context, username, secret string) (*domain.Session, error)
	reloadFn func(ctx context.Context, username, secret string) (*domain.Session, error)
	// overtake runs after a login or reload installed its session and before
	// the caller sees the result, standing in for a concurrent login.
	overtake func(s *stubSessions)
	logouts  int
	sess     *domain.Session
	gen      uint64
	state    service.SessionState
}

func (s *stubSessions) Login(ctx context.Context, username, secret string) (*domain.Session, uint64, error) {
	sess, err := s.loginFn(ctx, username, secret)
	s.gen++
	if err != nil {
		s.sess, s.state = nil, service.SessionAnonymous
		return nil, 0, err
	}
	s.sess, s.state = sess, service.SessionAuthenticated
	gen := s.gen
	if s.overtake != nil {
		s.overtake(s)
	}
	return sess, gen, nil
}

func (s *stubSessions) ReloadIdentity(ctx context.Context, username, secret string) (*domain.Session, uint64, error) {
	sess, err := s.reloadFn(ctx, username, secret)
	s.gen++
	if err != nil {
		s.sess, s.state = nil, service.SessionAnonymous
		return nil, 0, err
	}
	s.sess, s.state = sess, service.SessionAuthenticated
	gen := s.gen
	if s.overtake != nil {
		s.overtake(s)
	}
	return sess, gen, nil
}

func (s *stubSessions) Logout(context.Context) error {
	s.logouts++
	s.gen++
	s.sess, s.state = nil, service.SessionAnonymous
	return nil
}

func (s *stubSessions) Snapshot() (*domain.Session, uint64, service.SessionState) {
	return s.sess, s.gen, s.state
}

func session(roles ...string) *domain.Session {
	return &domain.Session{Username: "alice", Secret: "pw", Roles: domain.NewRoleSet(roles...)}
}

// newContext builds an echo context with the console validator and, when
// sess is non-nil, the session the Auth middleware would inject.
func newContext(method, target, body string, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(middleware.SessionKey, sess)
	}
	return c, rec
}

