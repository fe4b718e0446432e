package ports

import (
	"context"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// ProductService wraps the product endpoints of the PLM API. Every method takes
// the caller's session explicitly.
type ProductService interface {
	// List returns all products, or only those in status when it is non-empty.
	List(ctx context.Context, sess *domain.Session, status domain.ProductStatus) ([]domain.Product, error)
	Create(ctx context.Context, sess *domain.Session, draft domain.ProductDraft) (*domain.Product, error)
	// RequestAdvance asks the API to move product to target. Legality of the
	// transition is the caller's responsibility.
	RequestAdvance(ctx context.Context, sess *domain.Session, product domain.Product, target domain.ProductStatus) error
}
