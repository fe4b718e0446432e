package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/service"
)

// SessionKey is the echo context key holding the *domain.Session.
const SessionKey = "session"

// ConsoleClaims bind a token to one session generation.
type ConsoleClaims struct {
	Username   string `json:"username"`
	Generation uint64 `json:"gen"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies console tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for username at generation gen.
func (t *Tokens) Issue(username string, gen uint64) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := ConsoleClaims{
		Username:   username,
		Generation: gen,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies the signature and expiry of raw.
func (t *Tokens) Parse(raw string) (*ConsoleClaims, error) {
	claims := &ConsoleClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Snapshotter exposes the current session and its generation.
type Snapshotter interface {
	Snapshot() (*domain.Session, uint64, service.SessionState)
}

// Auth validates the bearer token and injects the session it belongs to. A
// token whose generation is no longer current is rejected.
func Auth(tokens *Tokens, sessions Snapshotter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sess, gen, state := sessions.Snapshot()
			if state != service.SessionAuthenticated || gen != claims.Generation || sess.Username != claims.Username {
				return domain.ErrNotAuthenticated
			}

			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session injected by Auth, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(SessionKey).(*domain.Session)
	return sess
}
