package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/api/middleware"
	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/service"
)

// SessionManager is the part of the session store the console drives.
type SessionManager interface {
	Login(ctx context.Context, username, secret string) (*domain.Session, uint64, error)
	ReloadIdentity(ctx context.Context, username, secret string) (*domain.Session, uint64, error)
	Logout(ctx context.Context) error
	Snapshot() (*domain.Session, uint64, service.SessionState)
}

type SessionHandler struct {
	sessions SessionManager
	tokens   *middleware.Tokens
	guard    *service.InFlight
	board    *service.ProductBoard
	form     *service.ProductForm
	alerts   *service.Notifier
	log      zerolog.Logger
}

func NewSessionHandler(
	sessions SessionManager,
	tokens *middleware.Tokens,
	guard *service.InFlight,
	board *service.ProductBoard,
	form *service.ProductForm,
	alerts *service.Notifier,
	log zerolog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		tokens:   tokens,
		guard:    guard,
		board:    board,
		form:     form,
		alerts:   alerts,
		log:      log,
	}
}

// Login authenticates against the PLM API and returns a console token.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "PLM credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var (
		sess *domain.Session
		gen  uint64
	)
	err := h.guard.Do(service.ActionLogin, func() error {
		var err error
		sess, gen, err = h.sessions.Login(c.Request().Context(), req.Username, req.Password)
		return err
	})
	if err != nil {
		return err
	}
	if !h.isCurrent(gen) {
		return domain.ErrSessionSuperseded
	}

	// A new identity starts with a clean console.
	h.board.Close()
	h.form.Reset()
	h.alerts.Dismiss()

	return h.issue(c, sess, gen)
}

// Get reports the session state and what the current identity may do.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionView
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	sess, _, state := h.sessions.Snapshot()
	return c.JSON(http.StatusOK, newSessionView(sess, state))
}

// Refresh reloads the identity from the API. The session generation moves
// on, so a new token is returned.
//
// @Summary      Reload identity
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	reloaded, gen, err := h.sessions.ReloadIdentity(c.Request().Context(), sess.Username, sess.Secret)
	if err != nil {
		return err
	}
	if !h.isCurrent(gen) {
		return domain.ErrSessionSuperseded
	}
	return h.issue(c, reloaded, gen)
}

// Logout ends the session and clears all console state.
//
// @Summary      Log out
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Router       /session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	err := h.sessions.Logout(c.Request().Context())
	h.board.Close()
	h.form.Reset()
	h.alerts.Dismiss()
	if err != nil {
		h.log.Warn().Err(err).Msg("logout left persisted entries behind")
	}
	return c.NoContent(http.StatusNoContent)
}

// isCurrent reports whether gen is still the store's generation. A login or
// reload that finished after ours owns the session now.
func (h *SessionHandler) isCurrent(gen uint64) bool {
	_, current, state := h.sessions.Snapshot()
	return state == service.SessionAuthenticated && current == gen
}

// issue binds a token to the session this request installed. If the generation
// moves on afterwards the Auth middleware rejects the token.
func (h *SessionHandler) issue(c echo.Context, sess *domain.Session, gen uint64) error {
	token, exp, err := h.tokens.Issue(sess.Username, gen)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: exp,
		Session:   newSessionView(sess, service.SessionAuthenticated),
	})
}
