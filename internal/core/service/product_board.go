package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
)

// ProductBoard holds the product list currently in view. Only the result of
// the most recent Refresh is applied; an older response that arrives late is
// dropped with domain.ErrStaleResult.
type ProductBoard struct {
	products ports.ProductService
	log      zerolog.Logger

	mu     sync.RWMutex
	seq    uint64
	status domain.ProductStatus
	items  []domain.Product
}

func NewProductBoard(products ports.ProductService, log zerolog.Logger) *ProductBoard {
	return &ProductBoard{products: products, log: log}
}

// Refresh reloads the list for status (empty means all). On failure the view
// is emptied and the error returned.
func (b *ProductBoard) Refresh(ctx context.Context, sess *domain.Session, status domain.ProductStatus) ([]domain.Product, error) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.mu.Unlock()

	items, err := b.products.List(ctx, sess, status)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.seq {
		b.log.Debug().Uint64("seq", seq).Msg("discarding stale product list")
		return nil, domain.ErrStaleResult
	}
	b.status = status
	if err != nil {
		b.items = nil
		return nil, err
	}
	b.items = items
	return append([]domain.Product(nil), items...), nil
}

// Visible returns the in-view products matching term.
func (b *ProductBoard) Visible(term string) []domain.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return FilterProducts(b.items, term)
}

// Status is the filter of the list in view.
func (b *ProductBoard) Status() domain.ProductStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// Find looks id up in the current view.
func (b *ProductBoard) Find(id int64) (domain.Product, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, p := range b.items {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotInView
}

// Close drops the view; results of refreshes still in flight are ignored.
// A later Refresh opens a new view.
func (b *ProductBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.status = ""
	b.items = nil
}
