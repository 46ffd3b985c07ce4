package domain

import "strings"

// Slide is one hero slider entry. Its position in SiteDocument.Slider is the
// display order.
type Slide struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Image      string `json:"image"`
	ButtonText string `json:"buttonText"`
	ButtonLink string `json:"buttonLink"`

	Extra Extras `json:"-"`
}

func SlideID(s Slide) int { return s.ID }

func (s *Slide) Validate() error {
	if s == nil {
		return ErrInvalidPayload
	}
	switch {
	case strings.TrimSpace(s.Title) == "":
		return Invalidf("slide title is required")
	case strings.TrimSpace(s.Subtitle) == "":
		return Invalidf("slide subtitle is required")
	case strings.TrimSpace(s.ButtonText) == "":
		return Invalidf("slide button text is required")
	case strings.TrimSpace(s.ButtonLink) == "":
		return Invalidf("slide button link is required")
	}
	return nil
}

type SlidePatch struct {
	Title      *string
	Subtitle   *string
	Image      *string
	ButtonText *string
	ButtonLink *string
}

func (patch SlidePatch) Validate() error {
	required := []struct {
		value *string
		field string
	}{
		{patch.Title, "title"},
		{patch.Subtitle, "subtitle"},
		{patch.ButtonText, "button text"},
		{patch.ButtonLink, "button link"},
	}
	for _, r := range required {
		if r.value != nil && strings.TrimSpace(*r.value) == "" {
			return Invalidf("slide %s is required", r.field)
		}
	}
	return nil
}

func (patch SlidePatch) Apply(s *Slide) {
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		s.Subtitle = *patch.Subtitle
	}
	if patch.Image != nil {
		s.Image = *patch.Image
	}
	if patch.ButtonText != nil {
		s.ButtonText = *patch.ButtonText
	}
	if patch.ButtonLink != nil {
		s.ButtonLink = *patch.ButtonLink
	}
}

// Direction moves a slide one position towards the front or the back.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}
