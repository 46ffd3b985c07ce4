package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extras holds object members that have no typed field. They are written
// back unchanged, so documents produced by other writers survive a
// load/save cycle intact.
type Extras map[string]json.RawMessage

var knownKeys sync.Map // reflect.Type -> map[string]struct{}

// fieldKeys returns the lowercased JSON member names declared by t.
func fieldKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownKeys.Load(t); ok {
		return cached.(map[string]struct{})
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys[strings.ToLower(name)] = struct{}{}
	}
	knownKeys.Store(t, keys)
	return keys
}

// decodeObject unmarshals raw into typed, a pointer to a struct without
// JSON methods, and returns the members typed does not declare.
func decodeObject(raw []byte, typed any) (Extras, error) {
	if err := json.Unmarshal(raw, typed); err != nil {
		return nil, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, err
	}
	known := fieldKeys(reflect.TypeOf(typed).Elem())
	var extras Extras
	for k, v := range members {
		// encoding/json matches names case-insensitively, so a folded match
		// has already been absorbed by a typed field.
		if _, ok := known[strings.ToLower(k)]; ok {
			continue
		}
		if extras == nil {
			extras = make(Extras)
		}
		extras[k] = v
	}
	return extras, nil
}

// encodeObject marshals typed and adds extras whose names are still free.
// overrides replace typed members outright.
func encodeObject(typed any, extras, overrides Extras) ([]byte, error) {
	raw, err := json.Marshal(typed)
	if err != nil || (len(extras) == 0 && len(overrides) == 0) {
		return raw, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, err
	}
	for k, v := range extras {
		if _, taken := members[k]; !taken {
			members[k] = v
		}
	}
	for k, v := range overrides {
		members[k] = v
	}
	return json.Marshal(members)
}

func (d SiteDocument) MarshalJSON() ([]byte, error) {
	type plain SiteDocument
	return encodeObject(plain(d), d.Extra, nil)
}

func (d *SiteDocument) UnmarshalJSON(raw []byte) error {
	type plain SiteDocument
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*d = SiteDocument(v)
	d.Extra = extras
	return nil
}

func (s SiteInfo) MarshalJSON() ([]byte, error) {
	type plain SiteInfo
	return encodeObject(plain(s), s.Extra, nil)
}

func (s *SiteInfo) UnmarshalJSON(raw []byte) error {
	type plain SiteInfo
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*s = SiteInfo(v)
	s.Extra = extras
	return nil
}

func (c ContactInfo) MarshalJSON() ([]byte, error) {
	type plain ContactInfo
	return encodeObject(plain(c), c.Extra, nil)
}

func (c *ContactInfo) UnmarshalJSON(raw []byte) error {
	type plain ContactInfo
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*c = ContactInfo(v)
	c.Extra = extras
	return nil
}

func (a AdminCredentials) MarshalJSON() ([]byte, error) {
	type plain AdminCredentials
	return encodeObject(plain(a), a.Extra, nil)
}

func (a *AdminCredentials) UnmarshalJSON(raw []byte) error {
	type plain AdminCredentials
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*a = AdminCredentials(v)
	a.Extra = extras
	return nil
}

func (f ContactFormConfig) MarshalJSON() ([]byte, error) {
	type plain ContactFormConfig
	return encodeObject(plain(f), f.Extra, nil)
}

func (f *ContactFormConfig) UnmarshalJSON(raw []byte) error {
	type plain ContactFormConfig
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*f = ContactFormConfig(v)
	f.Extra = extras
	return nil
}

func (f ContactFormField) MarshalJSON() ([]byte, error) {
	type plain ContactFormField
	return encodeObject(plain(f), f.Extra, nil)
}

func (f *ContactFormField) UnmarshalJSON(raw []byte) error {
	type plain ContactFormField
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*f = ContactFormField(v)
	f.Extra = extras
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	type plain Category
	return encodeObject(plain(c), c.Extra, nil)
}

func (c *Category) UnmarshalJSON(raw []byte) error {
	type plain Category
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*c = Category(v)
	c.Extra = extras
	return nil
}

func (s Slide) MarshalJSON() ([]byte, error) {
	type plain Slide
	return encodeObject(plain(s), s.Extra, nil)
}

func (s *Slide) UnmarshalJSON(raw []byte) error {
	type plain Slide
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*s = Slide(v)
	s.Extra = extras
	return nil
}

func (s ContactSubmission) MarshalJSON() ([]byte, error) {
	type plain ContactSubmission
	return encodeObject(plain(s), s.Extra, nil)
}

func (s *ContactSubmission) UnmarshalJSON(raw []byte) error {
	type plain ContactSubmission
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*s = ContactSubmission(v)
	s.Extra = extras
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	var overrides Extras
	if len(p.nullSpecs) > 0 {
		specs := make(map[string]*string, len(p.Specifications))
		for k, v := range p.Specifications {
			if _, null := p.nullSpecs[k]; null && v == "" {
				specs[k] = nil
				continue
			}
			v := v
			specs[k] = &v
		}
		raw, err := json.Marshal(specs)
		if err != nil {
			return nil, err
		}
		overrides = Extras{"specifications": raw}
	}
	return encodeObject(plain(p), p.Extra, overrides)
}

// UnmarshalJSON remembers specification values stored as null so they are
// written back as null while they stay empty.
func (p *Product) UnmarshalJSON(raw []byte) error {
	type plain Product
	var v plain
	extras, err := decodeObject(raw, &v)
	if err != nil {
		return err
	}
	*p = Product(v)
	p.Extra = extras
	p.nullSpecs = nil

	var shape struct {
		Specifications map[string]*string `json:"specifications"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return err
	}
	for k, val := range shape.Specifications {
		if val != nil {
			continue
		}
		if p.nullSpecs == nil {
			p.nullSpecs = make(map[string]struct{})
		}
		p.nullSpecs[k] = struct{}{}
	}
	return nil
}
