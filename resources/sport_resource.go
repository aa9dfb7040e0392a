package resources

import "github.com/Dosada05/sports-api/models"

// SportRootKey is the envelope key for sports, in requests and responses.
const SportRootKey = "sports"

type SportResource struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url,omitempty"`
}

func (SportResource) RootKey() string { return SportRootKey }

func NewSportResource(s models.Sport) SportResource {
	return SportResource{
		ID:      s.ID,
		Name:    s.Name,
		LogoURL: s.LogoURL,
	}
}

func NewSportResources(sports []models.Sport) []SportResource {
	out := make([]SportResource, len(sports))
	for i, s := range sports {
		out[i] = NewSportResource(s)
	}
	return out
}

// SerializeSport renders one sport as {"sports": {...}}.
func SerializeSport(s models.Sport) Document {
	return Serialize(NewSportResource(s))
}

// SerializeSports renders a list as {"sports": [...]}.
func SerializeSports(sports []models.Sport) Document {
	return SerializeCollection(NewSportResources(sports))
}
