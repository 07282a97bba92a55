package models

// SiteSettings is the site-wide configuration record consumed by layout
// chrome. It is always replaced wholesale, never partially merged.
type SiteSettings struct {
	Name         string `json:"name"`
	LogoURL      string `json:"logo_url"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	Currency     string `json:"currency,omitempty"`
}
