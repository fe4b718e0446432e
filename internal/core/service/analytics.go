package service

import (
	"context"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
)

const notAvailable = "N/A"

var (
	statusColors   = []string{"#4f46e5", "#7c3aed", "#10b981", "#f59e0b", "#3b82f6", "#6b7280"}
	categoryColors = []string{"#db2777", "#0891b2", "#16a34a"}
)

// Slice is one segment of a breakdown chart.
type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Analytics aggregates the product list for the dashboard.
type Analytics struct {
	TotalProducts int     `json:"totalProducts"`
	StatusData    []Slice `json:"statusData"`
	CategoryData  []Slice `json:"categoryData"`
	TopStatus     string  `json:"topStatus"`
	TopCategory   string  `json:"topCategory"`
}

// Summarize counts products by status and by category. Slices keep the order
// in which labels first appear; on a tie for the top item the later label wins.
func Summarize(products []domain.Product) Analytics {
	statuses := newCounter()
	categories := newCounter()
	for _, p := range products {
		statuses.add(string(p.Status))
		category := p.Category
		if category == "" {
			category = notAvailable
		}
		categories.add(category)
	}

	return Analytics{
		TotalProducts: len(products),
		StatusData:    statuses.slices(statusColors),
		CategoryData:  categories.slices(categoryColors),
		TopStatus:     statuses.top(),
		TopCategory:   categories.top(),
	}
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) slices(palette []string) []Slice {
	out := make([]Slice, 0, len(c.order))
	for i, label := range c.order {
		out = append(out, Slice{Label: label, Value: c.counts[label], Color: palette[i%len(palette)]})
	}
	return out
}

func (c *counter) top() string {
	if len(c.order) == 0 {
		return notAvailable
	}
	best := c.order[0]
	for _, label := range c.order[1:] {
		if c.counts[label] >= c.counts[best] {
			best = label
		}
	}
	return best
}

// AnalyticsService loads the unfiltered product list and summarizes it.
type AnalyticsService struct {
	products ports.ProductService
}

func NewAnalyticsService(products ports.ProductService) *AnalyticsService {
	return &AnalyticsService{products: products}
}

func (s *AnalyticsService) Load(ctx context.Context, sess *domain.Session) (Analytics, error) {
	products, err := s.products.List(ctx, sess, "")
	if err != nil {
		return Analytics{}, err
	}
	return Summarize(products), nil
}
