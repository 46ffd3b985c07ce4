package transport

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fastygo/storefront/domain"
)

// NullableDecimal tells an explicit null apart from an absent member.
type NullableDecimal struct {
	Set   bool
	Value *decimal.Decimal
}

func (n *NullableDecimal) UnmarshalJSON(raw []byte) error {
	n.Set = true
	if string(raw) == "null" {
		n.Value = nil
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return err
	}
	n.Value = &d
	return nil
}

// Null reports whether the member was sent as null.
func (n NullableDecimal) Null() bool {
	return n.Set && n.Value == nil
}

// ProductRequest is accepted by both create and update. On update only the
// fields present in the payload change.
type ProductRequest struct {
	Name               *string            `json:"name"`
	Category           *string            `json:"category"`
	Price              *decimal.Decimal   `json:"price"`
	OriginalPrice      NullableDecimal    `json:"originalPrice"`
	ClearOriginalPrice bool               `json:"clearOriginalPrice"`
	Image              *string            `json:"image"`
	Images             *[]string          `json:"images"`
	Description        *string            `json:"description"`
	Features           *[]string          `json:"features"`
	Specifications     *map[string]string `json:"specifications"`
	InStock            *bool              `json:"inStock"`
	Rating             *float64           `json:"rating"`
}

func (r ProductRequest) Patch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:               trimmed(r.Name),
		Category:           trimmed(r.Category),
		Price:              r.Price,
		OriginalPrice:      r.OriginalPrice.Value,
		ClearOriginalPrice: r.ClearOriginalPrice || r.OriginalPrice.Null(),
		Image:              r.Image,
		Images:             r.Images,
		Description:        r.Description,
		Features:           r.Features,
		Specifications:     r.Specifications,
		InStock:            r.InStock,
		Rating:             r.Rating,
	}
}

func (r ProductRequest) Product() domain.Product {
	var p domain.Product
	r.Patch().Apply(&p)
	return p
}

type CategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
}

func (r CategoryRequest) Patch() domain.CategoryPatch {
	return domain.CategoryPatch{
		Name:        trimmed(r.Name),
		Slug:        trimmed(r.Slug),
		Image:       r.Image,
		Description: r.Description,
	}
}

func (r CategoryRequest) Category() domain.Category {
	var c domain.Category
	r.Patch().Apply(&c)
	return c
}

type SlideRequest struct {
	Title      *string `json:"title"`
	Subtitle   *string `json:"subtitle"`
	Image      *string `json:"image"`
	ButtonText *string `json:"buttonText"`
	ButtonLink *string `json:"buttonLink"`
}

func (r SlideRequest) Patch() domain.SlidePatch {
	return domain.SlidePatch{
		Title:      trimmed(r.Title),
		Subtitle:   r.Subtitle,
		Image:      r.Image,
		ButtonText: r.ButtonText,
		ButtonLink: r.ButtonLink,
	}
}

func (r SlideRequest) Slide() domain.Slide {
	var s domain.Slide
	r.Patch().Apply(&s)
	return s
}

type MoveRequest struct {
	Direction domain.Direction `json:"direction"`
}

type SiteInfoRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Logo        *string             `json:"logo"`
	Contact     *ContactInfoRequest `json:"contact"`
}

type ContactInfoRequest struct {
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

func (r SiteInfoRequest) Patch() domain.SiteInfoPatch {
	patch := domain.SiteInfoPatch{
		Title:       trimmed(r.Title),
		Description: r.Description,
		Logo:        r.Logo,
	}
	if r.Contact != nil {
		patch.Contact = &domain.ContactInfoPatch{
			Phone:   r.Contact.Phone,
			Email:   r.Contact.Email,
			Address: r.Contact.Address,
		}
	}
	return patch
}

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Message string   `json:"message"`
	Images  []string `json:"images"`
}

func (r ContactRequest) Submission() domain.ContactSubmission {
	return domain.ContactSubmission{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   strings.TrimSpace(r.Phone),
		Message: r.Message,
		Images:  r.Images,
	}
}

type StatusRequest struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
