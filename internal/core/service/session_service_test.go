package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
)

const aliceIdentity = "Authenticated user: alice with roles: [ROLE_ADMIN, ROLE_DESIGNER]"

func TestSessionService_LoginEndToEnd(t *testing.T) {
	gw := &stubGateway{call: identityAPI(aliceIdentity)}
	store := newStubStorage()
	svc := NewSessionService(gw, store, zerolog.Nop())

	sess, gen, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Username != "alice" || !sess.Roles.Has(domain.RoleAdmin) || !sess.Roles.Has(domain.RoleDesigner) || len(sess.Roles) != 2 {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if !domain.CanPerform(sess, domain.CapCreateProduct) {
		t.Fatal("expected create-product to be allowed")
	}
	if _, current, state := svc.Snapshot(); state != SessionAuthenticated || current != gen {
		t.Fatalf("expected authenticated at generation %d, got %s at %d", gen, state, current)
	}

	calls := gw.requests()
	if len(calls) != 2 {
		t.Fatalf("expected login + identity calls, got %d", len(calls))
	}
	if calls[0].Method != http.MethodPost || calls[0].Path != "/auth/login" {
		t.Fatalf("unexpected first call: %+v", calls[0])
	}
	if calls[1].Path != "/auth/users/me" || calls[1].Credentials == nil || calls[1].Credentials.Secret != "pw" {
		t.Fatalf("identity call must carry credentials: %+v", calls[1])
	}

	var persisted map[string]any
	if err := json.Unmarshal([]byte(store.entries[ports.SessionKeyUser]), &persisted); err != nil {
		t.Fatalf("persisted user is not json: %v", err)
	}
	if persisted["username"] != "alice" {
		t.Fatalf("unexpected persisted user: %v", persisted)
	}
	if _, leaked := persisted["secret"]; leaked {
		t.Fatal("secret must not be persisted with the user entry")
	}
	if store.entries[ports.SessionKeySecret] != "pw" {
		t.Fatalf("expected secret entry, got %q", store.entries[ports.SessionKeySecret])
	}
}

func TestSessionService_LoginRejected(t *testing.T) {
	gw := &stubGateway{call: func(context.Context, ports.Request) (*ports.Response, error) {
		return nil, &domain.RequestError{StatusCode: http.StatusUnauthorized, Message: "Invalid username or password."}
	}}
	store := newStubStorage()
	svc := NewSessionService(gw, store, zerolog.Nop())

	_, _, err := svc.Login(context.Background(), "alice", "wrong")
	var reqErr *domain.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 RequestError, got %v", err)
	}
	if svc.Current() != nil || svc.State() != SessionAnonymous {
		t.Fatal("failed login must leave the store anonymous")
	}
	if len(gw.requests()) != 1 {
		t.Fatal("identity must not be requested after a failed login")
	}
}

func TestSessionService_MissingCredentials(t *testing.T) {
	gw := &stubGateway{}
	svc := NewSessionService(gw, newStubStorage(), zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "alice", ""); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if _, _, err := svc.ReloadIdentity(context.Background(), "", "pw"); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if len(gw.requests()) != 0 {
		t.Fatal("no network call expected")
	}
}

func TestSessionService_FailedReloadClearsPriorSession(t *testing.T) {
	body := aliceIdentity
	gw := &stubGateway{call: func(_ context.Context, req ports.Request) (*ports.Response, error) {
		return textResponse(body), nil
	}}
	store := newStubStorage()
	svc := NewSessionService(gw, store, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	body = "<html>maintenance</html>"
	_, _, err := svc.ReloadIdentity(context.Background(), "alice", "pw")
	if !errors.Is(err, domain.ErrMissingUserMarker) {
		t.Fatalf("expected missing user marker, got %v", err)
	}
	if svc.Current() != nil {
		t.Fatal("stale session kept after failed reload")
	}
	if svc.State() != SessionAnonymous {
		t.Fatalf("expected anonymous, got %s", svc.State())
	}
	if store.len() != 0 {
		t.Fatal("storage must be wiped after failed reload")
	}
}

func TestSessionService_RestorePartialState(t *testing.T) {
	cases := []struct {
		name    string
		entries []string
	}{
		{"identity without secret", []string{ports.SessionKeyUser, `{"username":"alice","roles":["ROLE_ADMIN"]}`}},
		{"secret without identity", []string{ports.SessionKeySecret, "pw"}},
		{"malformed identity", []string{ports.SessionKeyUser, "{not json", ports.SessionKeySecret, "pw"}},
		{"nothing stored", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &stubGateway{}
			store := newStubStorage(tc.entries...)
			svc := NewSessionService(gw, store, zerolog.Nop())

			if svc.State() != SessionLoading {
				t.Fatalf("expected loading before restore, got %s", svc.State())
			}
			sess, err := svc.Restore(context.Background())
			if err != nil || sess != nil {
				t.Fatalf("expected anonymous restore, got %+v %v", sess, err)
			}
			if svc.State() != SessionAnonymous {
				t.Fatalf("expected anonymous, got %s", svc.State())
			}
			if len(gw.requests()) != 0 {
				t.Fatal("restore of partial state must not hit the network")
			}
			if store.len() != 0 {
				t.Fatal("partial entries must be wiped")
			}
		})
	}
}

func TestSessionService_RestoreReloadsIdentity(t *testing.T) {
	gw := &stubGateway{call: identityAPI("Authenticated user: alice with roles: [ROLE_APPROVER]")}
	store := newStubStorage(
		ports.SessionKeyUser, `{"username":"alice","roles":["ROLE_ADMIN"]}`,
		ports.SessionKeySecret, "pw",
	)
	svc := NewSessionService(gw, store, zerolog.Nop())

	sess, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sess.Roles.Has(domain.RoleApprover) || sess.Roles.Has(domain.RoleAdmin) {
		t.Fatalf("roles must come from the API, got %v", sess.Roles.Names())
	}
	calls := gw.requests()
	if len(calls) != 1 || calls[0].Path != "/auth/users/me" {
		t.Fatalf("expected one identity call, got %+v", calls)
	}
}

func TestSessionService_LogoutDuringInFlightReload(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	gw := &stubGateway{call: func(_ context.Context, req ports.Request) (*ports.Response, error) {
		close(entered)
		<-release
		return textResponse(aliceIdentity), nil
	}}
	store := newStubStorage()
	svc := NewSessionService(gw, store, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, _, err := svc.ReloadIdentity(context.Background(), "alice", "pw")
		done <- err
	}()

	<-entered
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, domain.ErrSessionSuperseded) {
		t.Fatalf("expected superseded reload, got %v", err)
	}
	if svc.Current() != nil {
		t.Fatal("logout must win over a late reload")
	}
	if store.len() != 0 {
		t.Fatal("late reload must not persist anything")
	}
}

func TestSessionService_LogoutIdempotent(t *testing.T) {
	store := newStubStorage()
	svc := NewSessionService(&stubGateway{call: identityAPI(aliceIdentity)}, store, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	_, genBefore, _ := svc.Snapshot()

	for i := 0; i < 2; i++ {
		if err := svc.Logout(context.Background()); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
	}
	sess, gen, state := svc.Snapshot()
	if sess != nil || state != SessionAnonymous {
		t.Fatalf("expected anonymous after logout, got %+v %s", sess, state)
	}
	if gen <= genBefore {
		t.Fatal("logout must advance the generation")
	}
	if store.cleared != 2 || store.len() != 0 {
		t.Fatalf("expected storage wiped on each logout, cleared=%d", store.cleared)
	}
}

func TestSessionService_CurrentReturnsCopy(t *testing.T) {
	svc := NewSessionService(&stubGateway{call: identityAPI(aliceIdentity)}, newStubStorage(), zerolog.Nop())
	if _, _, err := svc.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	got := svc.Current()
	delete(got.Roles, domain.RoleAdmin)
	if !svc.Current().Roles.Has(domain.RoleAdmin) {
		t.Fatal("mutating the returned session changed the store")
	}
}

func TestSessionService_LoginReportsItsOwnGeneration(t *testing.T) {
	gw := &stubGateway{call: func(_ context.Context, req ports.Request) (*ports.Response, error) {
		if req.Path == "/auth/users/me" && req.Credentials.Username == "bob" {
			return textResponse("Authenticated user: bob with roles: [ROLE_ADMIN]"), nil
		}
		return textResponse(aliceIdentity), nil
	}}
	svc := NewSessionService(gw, newStubStorage(), zerolog.Nop())

	alice, aliceGen, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("alice login: %v", err)
	}
	_, bobGen, err := svc.Login(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("bob login: %v", err)
	}

	if alice.Username != "alice" {
		t.Fatalf("alice's result changed: %+v", alice)
	}
	if bobGen <= aliceGen {
		t.Fatalf("later login must own a later generation: alice=%d bob=%d", aliceGen, bobGen)
	}
	current, gen, _ := svc.Snapshot()
	if current.Username != "bob" || gen != bobGen {
		t.Fatalf("expected bob at generation %d, got %s at %d", bobGen, current.Username, gen)
	}
}

func TestSessionService_MissingCredentialsLogsClearFailure(t *testing.T) {
	var buf bytes.Buffer
	store := newStubStorage()
	store.clearErr = errors.New("redis down")
	svc := NewSessionService(&stubGateway{}, store, zerolog.New(&buf))

	if _, _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if store.cleared != 1 {
		t.Fatalf("expected one storage clear, got %d", store.cleared)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"level":"warn"`)) || !bytes.Contains(buf.Bytes(), []byte("redis down")) {
		t.Fatalf("expected a warning naming the clear failure, got %q", buf.String())
	}
}
