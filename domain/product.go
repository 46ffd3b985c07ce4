package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are persisted as JSON numbers, matching existing snapshots.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry. Category holds the slug of a Category; the
// reference may dangle and readers must tolerate that.
type Product struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Price          decimal.Decimal   `json:"price"`
	OriginalPrice  *decimal.Decimal  `json:"originalPrice,omitempty"`
	Image          string            `json:"image"`
	Images         []string          `json:"images"`
	Description    string            `json:"description"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	InStock        bool              `json:"inStock"`
	Rating         float64           `json:"rating"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	Extra     Extras `json:"-"`
	nullSpecs map[string]struct{}
}

func ProductID(p Product) int { return p.ID }

// Validate checks the fields required before any persistence round trip.
func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(p.Name) == "" {
		return Invalidf("product name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return Invalidf("product category is required")
	}
	if p.Price.IsNegative() {
		return Invalidf("product price must not be negative")
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return Invalidf("product original price must not be negative")
	}
	return nil
}

// AllImages returns the primary image followed by the gallery, skipping blanks.
func (p *Product) AllImages() []string {
	out := make([]string, 0, len(p.Images)+1)
	if p.Image != "" {
		out = append(out, p.Image)
	}
	for _, img := range p.Images {
		if img != "" {
			out = append(out, img)
		}
	}
	return out
}

// Touch stamps UpdatedAt with now, keeping it strictly after the previous
// value, and fills CreatedAt on first use.
func (p *Product) Touch(now time.Time) {
	p.UpdatedAt = advance(p.UpdatedAt, now)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
}

// Normalize replaces nil collections with empty ones.
func (p *Product) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Specifications == nil {
		p.Specifications = map[string]string{}
	}
}

// ProductPatch carries the fields of a partial update. Nil fields are left
// untouched; ClearOriginalPrice removes the discount price.
type ProductPatch struct {
	Name               *string
	Category           *string
	Price              *decimal.Decimal
	OriginalPrice      *decimal.Decimal
	ClearOriginalPrice bool
	Image              *string
	Images             *[]string
	Description        *string
	Features           *[]string
	Specifications     *map[string]string
	InStock            *bool
	Rating             *float64
}

// Validate checks the fields the patch sets, so an update that can never
// succeed is rejected before the document is loaded.
func (patch ProductPatch) Validate() error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return Invalidf("product name is required")
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return Invalidf("product category is required")
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return Invalidf("product price must not be negative")
	}
	if !patch.ClearOriginalPrice && patch.OriginalPrice != nil && patch.OriginalPrice.IsNegative() {
		return Invalidf("product original price must not be negative")
	}
	return nil
}

// Apply merges the patch over p. The id and timestamps are never touched.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ClearOriginalPrice {
		p.OriginalPrice = nil
	} else if patch.OriginalPrice != nil {
		v := *patch.OriginalPrice
		p.OriginalPrice = &v
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Images != nil {
		p.Images = append([]string{}, (*patch.Images)...)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Features != nil {
		p.Features = append([]string{}, (*patch.Features)...)
	}
	if patch.Specifications != nil {
		specs := make(map[string]string, len(*patch.Specifications))
		for k, v := range *patch.Specifications {
			specs[k] = v
		}
		p.Specifications = specs
		p.nullSpecs = nil
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
}

// advance returns now truncated to milliseconds, bumped past prev when the
// clock has not moved.
func advance(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Millisecond)
	if !prev.IsZero() && !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}
