package domain

import "encoding/json"

// SiteDocument is the root aggregate holding every piece of storefront state.
// It is always read and persisted as a whole.
type SiteDocument struct {
	SiteInfo    SiteInfo            `json:"siteInfo"`
	Admin       AdminCredentials    `json:"admin"`
	Slider      []Slide             `json:"slider"`
	Categories  []Category          `json:"categories"`
	Products    []Product           `json:"products"`
	ContactForm ContactFormConfig   `json:"contactForm"`
	Submissions []ContactSubmission `json:"contactFormSubmissions"`

	Extra Extras `json:"-"`
}

// SiteInfo describes the storefront itself.
type SiteInfo struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Logo        string      `json:"logo"`
	Contact     ContactInfo `json:"contact"`

	Extra Extras `json:"-"`
}

type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`

	Extra Extras `json:"-"`
}

// AdminCredentials holds the single admin account. The password is stored in
// plain text, matching the persisted document format.
type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`

	Extra Extras `json:"-"`
}

// ContactFormConfig is the field schema rendered by the public contact form.
type ContactFormConfig struct {
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle"`
	Fields   []ContactFormField `json:"fields"`

	Extra Extras `json:"-"`
}

type ContactFormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`

	Extra Extras `json:"-"`
}

// DefaultDocument returns the bootstrap document served when no snapshot
// exists yet. Collections are empty but never nil so they encode as [].
func DefaultDocument() *SiteDocument {
	return &SiteDocument{
		SiteInfo: SiteInfo{
			Title:       "FliesenExpress24",
			Description: "Hochwertige Fliesen und Keramikprodukte",
			Logo:        "/logo.png",
			Contact: ContactInfo{
				Phone:   "+49 30 555 0123",
				Email:   "info@fliesenexpress24.de",
				Address: "Berlin, Deutschland",
			},
		},
		Admin: AdminCredentials{
			Username: "admin",
			Password: "admin123",
			Email:    "admin@fliesenexpress24.de",
			Name:     "Administrator",
		},
		Slider:     []Slide{},
		Categories: []Category{},
		Products:   []Product{},
		ContactForm: ContactFormConfig{
			Title:    "Kontakt aufnehmen",
			Subtitle: "Kontaktieren Sie uns für Ihre Fragen",
			Fields: []ContactFormField{
				{Name: "name", Label: "Vor- und Nachname", Type: "text", Required: true},
				{Name: "email", Label: "E-Mail", Type: "email", Required: true},
				{Name: "phone", Label: "Telefon", Type: "tel", Required: false},
				{Name: "subject", Label: "Betreff", Type: "text", Required: true},
				{Name: "message", Label: "Nachricht", Type: "textarea", Required: true},
			},
		},
		Submissions: []ContactSubmission{},
	}
}

// Normalize replaces nil collections with empty ones so documents decoded
// from older snapshots behave like freshly created ones.
func (d *SiteDocument) Normalize() {
	if d == nil {
		return
	}
	if d.Slider == nil {
		d.Slider = []Slide{}
	}
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Submissions == nil {
		d.Submissions = []ContactSubmission{}
	}
	for i := range d.Products {
		d.Products[i].Normalize()
	}
	for i := range d.Submissions {
		if d.Submissions[i].Images == nil {
			d.Submissions[i].Images = []string{}
		}
	}
}

// Clone returns a deep copy of the document.
func (d *SiteDocument) Clone() (*SiteDocument, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(raw)
}

// EncodeDocument serializes the document in its persisted form.
func EncodeDocument(d *SiteDocument) ([]byte, error) {
	if d == nil {
		return nil, ErrInvalidPayload
	}
	return json.MarshalIndent(d, "", "  ")
}

// DecodeDocument parses a persisted snapshot. A body that is not a JSON
// object yields an ErrCodeMalformed error.
func DecodeDocument(raw []byte) (*SiteDocument, error) {
	var doc SiteDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, WrapError(ErrCodeMalformed, "malformed site document", err)
	}
	doc.Normalize()
	return &doc, nil
}
