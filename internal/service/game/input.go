package game

import (
	"strings"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

// Payload is a raw game record as submitted by a client or produced by the
// BGG adapter. Field names follow the wire format of the original API.
type Payload struct {
	BGGID        *int64   `json:"bggId,omitempty"`
	Name         []string `json:"name"`
	Slug         string   `json:"slug,omitempty"`
	Published    int      `json:"published"`
	MinPlayers   int      `json:"minPlayers"`
	MaxPlayers   int      `json:"maxPlayers"`
	MinPlayerAge int      `json:"minPlayerAge"`
	PlayTime     int      `json:"playTime"`
	MinPlayTime  int      `json:"minPlayTime"`
	MaxPlayTime  int      `json:"maxPlayTime"`
	Description  string   `json:"description"`
	Thumbnail    string   `json:"thumbnail"`
	Image        string   `json:"image"`
	Complexity   float64  `json:"complexity"`
	Category     []string `json:"category"`
	Mechanic     []string `json:"mechanic"`
	Designer     []string `json:"designer"`
	Artist       []string `json:"artist"`
	Publisher    []string `json:"publisher"`
}

// Validate checks the payload's required scalar fields. It collects every
// problem rather than stopping at the first.
func (p *Payload) Validate() error {
	var errs []domain.FieldError

	if p.PrimaryName() == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "at least one name is required"})
	}
	if p.MinPlayers <= 0 && p.MaxPlayers <= 0 {
		errs = append(errs, domain.FieldError{Field: "minPlayers", Message: "at least one players bound is required"})
	}
	if p.MinPlayers < 0 || p.MaxPlayers < 0 {
		errs = append(errs, domain.FieldError{Field: "maxPlayers", Message: "players bounds must not be negative"})
	}
	if p.Complexity < 0 {
		errs = append(errs, domain.FieldError{Field: "complexity", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// PrimaryName returns the first non-blank name, or "".
func (p *Payload) PrimaryName() string {
	for _, name := range p.Name {
		if strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// values returns the raw value list for one metadata kind.
func (p *Payload) values(kind domain.MetadataKind) []string {
	switch kind {
	case domain.MetadataKindName:
		return p.Name
	case domain.MetadataKindCategory:
		return p.Category
	case domain.MetadataKindMechanic:
		return p.Mechanic
	case domain.MetadataKindDesigner:
		return p.Designer
	case domain.MetadataKindArtist:
		return p.Artist
	case domain.MetadataKindPublisher:
		return p.Publisher
	}
	return nil
}
