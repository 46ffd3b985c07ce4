package domain

// SiteInfoPatch updates the singleton SiteInfo. Contact is merged one level
// deep: only the contact fields that are set change.
type SiteInfoPatch struct {
	Title       *string
	Description *string
	Logo        *string
	Contact     *ContactInfoPatch
}

type ContactInfoPatch struct {
	Phone   *string
	Email   *string
	Address *string
}

func (patch SiteInfoPatch) Apply(info *SiteInfo) {
	if patch.Title != nil {
		info.Title = *patch.Title
	}
	if patch.Description != nil {
		info.Description = *patch.Description
	}
	if patch.Logo != nil {
		info.Logo = *patch.Logo
	}
	if c := patch.Contact; c != nil {
		if c.Phone != nil {
			info.Contact.Phone = *c.Phone
		}
		if c.Email != nil {
			info.Contact.Email = *c.Email
		}
		if c.Address != nil {
			info.Contact.Address = *c.Address
		}
	}
}
