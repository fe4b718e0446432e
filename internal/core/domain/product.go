package domain

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// ProductStatus represents the lifecycle stage of a product.
type ProductStatus string

const (
	StatusDesign       ProductStatus = "DESIGN"
	StatusPrototype    ProductStatus = "PROTOTYPE"
	StatusApproved     ProductStatus = "APPROVED"
	StatusProduction   ProductStatus = "PRODUCTION"
	StatusMarket       ProductStatus = "MARKET"
	StatusDiscontinued ProductStatus = "DISCONTINUED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []ProductStatus{
	StatusDesign,
	StatusPrototype,
	StatusApproved,
	StatusProduction,
	StatusMarket,
	StatusDiscontinued,
}

// successors maps each status to the only status it may advance to.
// DISCONTINUED is terminal and has no entry.
var successors = map[ProductStatus]ProductStatus{
	StatusDesign:     StatusPrototype,
	StatusPrototype:  StatusApproved,
	StatusApproved:   StatusProduction,
	StatusProduction: StatusMarket,
	StatusMarket:     StatusDiscontinued,
}

var descriptions = map[ProductStatus]string{
	StatusDesign:       "Design Phase",
	StatusPrototype:    "Prototype Development",
	StatusApproved:     "Approved for Production",
	StatusProduction:   "In Production",
	StatusMarket:       "Available in Market",
	StatusDiscontinued: "Discontinued",
}

// NextStatus returns the successor of current. The second result is false for
// DISCONTINUED and for any value outside the lifecycle.
func NextStatus(current ProductStatus) (ProductStatus, bool) {
	next, ok := successors[current]
	return next, ok
}

// IsValid reports whether s is one of the six lifecycle statuses.
func (s ProductStatus) IsValid() bool {
	_, ok := descriptions[s]
	return ok
}

// Description returns the human-readable stage name.
func (s ProductStatus) Description() string {
	return descriptions[s]
}

// ParseProductStatus accepts any letter case, matching the server.
func ParseProductStatus(raw string) (ProductStatus, error) {
	s := ProductStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Categories offered by the create form.
const (
	CategoryApparel     = "Apparel"
	CategoryFootwear    = "Footwear"
	CategoryAccessories = "Accessories"
)

// Product is owned by the PLM API; the client only reads it and requests changes.
type Product struct {
	ID          int64         `json:"id"`
	ProductID   string        `json:"productId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	Season      string        `json:"season,omitempty"`
	Status      ProductStatus `json:"status"`
	CreatedAt   Timestamp     `json:"createdAt"`
	UpdatedAt   Timestamp     `json:"updatedAt"`
}

// ProductDraft is the payload of the create form. The image field of the form
// is never sent.
type ProductDraft struct {
	ProductID   string `json:"productId"   validate:"required"`
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"    validate:"required,oneof=Apparel Footwear Accessories"`
	Season      string `json:"season"`
}

// NewProductDraft returns an empty draft with the form's default category.
func NewProductDraft() ProductDraft {
	return ProductDraft{Category: CategoryApparel}
}

// Timestamp decodes both RFC 3339 values and the zone-less LocalDateTime
// rendering the API emits (e.g. 2025-06-01T10:00:00.123456).
type Timestamp struct {
	time.Time
}

const localDateTime = "2006-01-02T15:04:05.999999999"

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	raw := strings.Trim(string(b), `"`)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(localDateTime, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}
