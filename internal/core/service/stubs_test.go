package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub gateway
// ---------------------------------------------------------------------------

type stubGateway struct {
	mu    sync.Mutex
	calls []ports.Request
	call  func(ctx context.Context, req ports.Request) (*ports.Response, error)
}

func (g *stubGateway) Call(ctx context.Context, req ports.Request) (*ports.Response, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.call == nil {
		return &ports.Response{StatusCode: http.StatusOK, Header: http.Header{}}, nil
	}
	return g.call(ctx, req)
}

func (g *stubGateway) requests() []ports.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ports.Request(nil), g.calls...)
}

func textResponse(body string) *ports.Response {
	h := http.Header{}
	h.Set("Content-Type", "text/plain;charset=UTF-8")
	return &ports.Response{StatusCode: http.StatusOK, Header: h, Body: []byte(body)}
}

func jsonResponse(body string) *ports.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return &ports.Response{StatusCode: http.StatusOK, Header: h, Body: []byte(body)}
}

// identityAPI answers login with 200 and identity with body.
func identityAPI(body string) func(context.Context, ports.Request) (*ports.Response, error) {
	return func(_ context.Context, req ports.Request) (*ports.Response, error) {
		if req.Path == "/auth/users/me" {
			return textResponse(body), nil
		}
		return textResponse(""), nil
	}
}

// ---------------------------------------------------------------------------
// Stub storage
// ---------------------------------------------------------------------------

type stubStorage struct {
	mu      sync.Mutex
	entries  map[string]string
	cleared  int
	clearErr error
}

func newStubStorage(kv ...string) *stubStorage {
	s := &stubStorage{entries: make(map[string]string)}
	for i := 0; i+1 < len(kv); i += 2 {
		s.entries[kv[i]] = kv[i+1]
	}
	return s
}

func (s *stubStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *stubStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *stubStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.entries = make(map[string]string)
	return nil
}

func (s *stubStorage) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func adminSession() *domain.Session {
	return &domain.Session{
		Username: "alice",
		Roles:    domain.NewRoleSet(domain.RoleAdmin),
		Secret:   "pw",
	}
}

// ---------------------------------------------------------------------------
// Stub product service
// ---------------------------------------------------------------------------

type stubProducts struct {
	list    func(ctx context.Context, sess *domain.Session, status domain.ProductStatus) ([]domain.Product, error)
	create  func(ctx context.Context, sess *domain.Session, draft domain.ProductDraft) (*domain.Product, error)
	advance func(ctx context.Context, sess *domain.Session, p domain.Product, target domain.ProductStatus) error
}

func (s *stubProducts) List(ctx context.Context, sess *domain.Session, status domain.ProductStatus) ([]domain.Product, error) {
	return s.list(ctx, sess, status)
}

func (s *stubProducts) Create(ctx context.Context, sess *domain.Session, draft domain.ProductDraft) (*domain.Product, error) {
	return s.create(ctx, sess, draft)
}

func (s *stubProducts) RequestAdvance(ctx context.Context, sess *domain.Session, p domain.Product, target domain.ProductStatus) error {
	return s.advance(ctx, sess, p, target)
}
