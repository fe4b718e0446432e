package handler

import (
	"time"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/service"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionView struct {
	State        service.SessionState       `json:"state"`
	Username     string                     `json:"username,omitempty"`
	Roles        []string                   `json:"roles"`
	Capabilities map[domain.Capability]bool `json:"capabilities"`
}

func newSessionView(sess *domain.Session, state service.SessionState) sessionView {
	v := sessionView{State: state, Roles: []string{}, Capabilities: domain.Capabilities(sess)}
	if sess != nil {
		v.Username = sess.Username
		v.Roles = sess.Roles.Names()
	}
	return v
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Session   sessionView `json:"session"`
}

type productView struct {
	domain.Product
	StatusDescription string               `json:"statusDescription"`
	NextStatus        domain.ProductStatus `json:"nextStatus,omitempty"`
	CanAdvance        bool                 `json:"canAdvance"`
}

func newProductViews(products []domain.Product, sess *domain.Session) []productView {
	mayAdvance := domain.CanPerform(sess, domain.CapAdvanceStatus)
	out := make([]productView, 0, len(products))
	for _, p := range products {
		next, ok := domain.NextStatus(p.Status)
		out = append(out, productView{
			Product:           p,
			StatusDescription: p.Status.Description(),
			NextStatus:        next,
			CanAdvance:        ok && mayAdvance,
		})
	}
	return out
}

type productListResponse struct {
	Status   domain.ProductStatus `json:"status,omitempty"`
	Search   string               `json:"search,omitempty"`
	Total    int                  `json:"total"`
	Products []productView        `json:"products"`
}

type advanceResponse struct {
	ID   int64                `json:"id"`
	From domain.ProductStatus `json:"from"`
	To   domain.ProductStatus `json:"to"`
}

type alertResponse struct {
	Alert *service.Alert `json:"alert"`
}
