package transport

import "github.com/fastygo/storefront/domain"

// PublicSite is the site document as shown to visitors: no admin account
// and no contact submissions.
type PublicSite struct {
	SiteInfo    domain.SiteInfo          `json:"siteInfo"`
	Slider      []domain.Slide           `json:"slider"`
	Categories  []domain.Category        `json:"categories"`
	Featured    []domain.Product         `json:"featured"`
	ContactForm domain.ContactFormConfig `json:"contactForm"`
}

func NewPublicSite(doc *domain.SiteDocument, featured []domain.Product) PublicSite {
	if featured == nil {
		featured = []domain.Product{}
	}
	return PublicSite{
		SiteInfo:    doc.SiteInfo,
		Slider:      doc.Slider,
		Categories:  doc.Categories,
		Featured:    featured,
		ContactForm: doc.ContactForm,
	}
}
