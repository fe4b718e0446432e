package service

import (
	"strings"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// FilterProducts keeps products whose name or description contains term,
// ignoring case. An empty term keeps everything. The input is never modified.
func FilterProducts(products []domain.Product, term string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	needle := strings.ToLower(term)
	for _, p := range products {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}
