package models

// Sport представляет вид спорта.
type Sport struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// Clone returns a copy that shares no pointers with s.
func (s Sport) Clone() Sport {
	c := s
	if s.LogoKey != nil {
		key := *s.LogoKey
		c.LogoKey = &key
	}
	if s.LogoURL != nil {
		url := *s.LogoURL
		c.LogoURL = &url
	}
	return c
}
