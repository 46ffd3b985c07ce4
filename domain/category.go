package domain

import "strings"

// Category groups products; Slug is the value products reference.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Image       string `json:"image"`
	Description string `json:"description"`

	Extra Extras `json:"-"`
}

func CategoryID(c Category) int { return c.ID }

func (c *Category) Validate() error {
	if c == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(c.Name) == "" {
		return Invalidf("category name is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		return Invalidf("category description is required")
	}
	return nil
}

type CategoryPatch struct {
	Name        *string
	Slug        *string
	Image       *string
	Description *string
}

// Validate checks the fields the patch sets. An empty slug is allowed and
// means the slug is derived from the name.
func (patch CategoryPatch) Validate() error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return Invalidf("category name is required")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return Invalidf("category description is required")
	}
	return nil
}

func (patch CategoryPatch) Apply(c *Category) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Slug != nil {
		c.Slug = *patch.Slug
	}
	if patch.Image != nil {
		c.Image = *patch.Image
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
}
