package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
	"github.com/retailflow/plm-console/internal/pkg/metrics"
)

type productService struct {
	gateway ports.Gateway
	audit   ports.AdvanceAuditRepository
	log     zerolog.Logger
}

// NewProductService returns a ProductService. audit may be nil, in which case
// advance requests are not recorded.
func NewProductService(gateway ports.Gateway, audit ports.AdvanceAuditRepository, log zerolog.Logger) ports.ProductService {
	return &productService{gateway: gateway, audit: audit, log: log}
}

func credentials(sess *domain.Session) (*domain.Credentials, error) {
	if !sess.Valid() {
		return nil, domain.ErrNotAuthenticated
	}
	c := sess.Credentials()
	return &c, nil
}

// List fetches the product list, filtered server-side when status is set.
func (s *productService) List(ctx context.Context, sess *domain.Session, status domain.ProductStatus) ([]domain.Product, error) {
	creds, err := credentials(sess)
	if err != nil {
		return nil, err
	}

	path, op := "/products", "list_products"
	if status != "" {
		path, op = "/products/status/"+url.PathEscape(string(status)), "list_products_by_status"
	}

	resp, err := s.gateway.Call(ctx, ports.Request{
		Op:          op,
		Method:      http.MethodGet,
		Path:        path,
		Credentials: creds,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if !resp.IsJSON() {
		if len(bytes.TrimSpace(resp.Body)) == 0 {
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("list products: %w", domain.ErrUnexpectedPayload)
	}

	var products []domain.Product
	if err := resp.Decode(&products); err != nil {
		return nil, fmt.Errorf("list products: %w: %v", domain.ErrUnexpectedPayload, err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// Create posts the draft. The API answers with the stored product; a 2xx
// without a JSON body yields the draft's fields.
func (s *productService) Create(ctx context.Context, sess *domain.Session, draft domain.ProductDraft) (*domain.Product, error) {
	creds, err := credentials(sess)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.Call(ctx, ports.Request{
		Op:          "create_product",
		Method:      http.MethodPost,
		Path:        "/products",
		Body:        draft,
		Credentials: creds,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	created := &domain.Product{
		ProductID:   draft.ProductID,
		Name:        draft.Name,
		Description: draft.Description,
		Category:    draft.Category,
		Season:      draft.Season,
		Status:      domain.StatusDesign,
	}
	if resp.IsJSON() && len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := resp.Decode(created); err != nil {
			s.log.Warn().Err(err).Str("sku", draft.ProductID).Msg("create response was not a product")
		}
	}

	metrics.ProductsCreatedTotal.WithLabelValues(draft.Category).Inc()
	s.log.Info().
		Str("sku", draft.ProductID).
		Str("category", draft.Category).
		Str("username", sess.Username).
		Msg("product created")

	return created, nil
}

type statusUpdate struct {
	Status domain.ProductStatus `json:"status"`
}

// RequestAdvance sends the status change. The transition is not re-checked
// here; errors from the API are returned verbatim.
func (s *productService) RequestAdvance(ctx context.Context, sess *domain.Session, product domain.Product, target domain.ProductStatus) error {
	creds, err := credentials(sess)
	if err != nil {
		return err
	}

	requestedAt := time.Now().UTC()
	_, err = s.gateway.Call(ctx, ports.Request{
		Op:          "advance_status",
		Method:      http.MethodPut,
		Path:        "/products/" + strconv.FormatInt(product.ID, 10) + "/status",
		Body:        statusUpdate{Status: target},
		Credentials: creds,
	})

	// Audit trail (non-fatal on failure).
	if s.audit != nil {
		rec := ports.AdvanceRecord{
			ProductID:   product.ID,
			SKU:         product.ProductID,
			From:        product.Status,
			To:          target,
			Username:    sess.Username,
			Succeeded:   err == nil,
			RequestedAt: requestedAt,
		}
		if err != nil {
			rec.Error = err.Error()
		}
		if auditErr := s.audit.InsertAdvance(ctx, rec); auditErr != nil {
			s.log.Warn().Err(auditErr).Int64("product_id", product.ID).Msg("failed to record status advance")
		}
	}

	if err != nil {
		metrics.StatusAdvancesTotal.WithLabelValues(string(target), "rejected").Inc()
		return fmt.Errorf("advance status: %w", err)
	}

	metrics.StatusAdvancesTotal.WithLabelValues(string(target), "ok").Inc()
	s.log.Info().
		Int64("product_id", product.ID).
		Str("from", string(product.Status)).
		Str("to", string(target)).
		Str("username", sess.Username).
		Msg("status advance requested")

	return nil
}
