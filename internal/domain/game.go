package domain

import (
	"time"

	"github.com/google/uuid"
)

// Game is a catalog game record: scalar attributes plus one resolved metadata
// list per kind. The identity (ID) is immutable once created.
type Game struct {
	ID           uuid.UUID
	BGGID        *int64
	Slug         string
	Published    int
	MinPlayers   int
	MaxPlayers   int
	MinPlayerAge int
	PlayTime     int
	MinPlayTime  int
	MaxPlayTime  int
	Description  string
	Thumbnail    string
	Image        string
	Complexity   float64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Names      []MetadataEntry
	Categories []MetadataEntry
	Mechanics  []MetadataEntry
	Designers  []MetadataEntry
	Artists    []MetadataEntry
	Publishers []MetadataEntry
}

// PrimaryName returns the first name association, or "" when none resolved yet.
func (g *Game) PrimaryName() string {
	if len(g.Names) == 0 {
		return ""
	}
	return g.Names[0].Value
}

// Entries returns the metadata list for the given kind.
func (g *Game) Entries(kind MetadataKind) []MetadataEntry {
	switch kind {
	case MetadataKindName:
		return g.Names
	case MetadataKindCategory:
		return g.Categories
	case MetadataKindMechanic:
		return g.Mechanics
	case MetadataKindDesigner:
		return g.Designers
	case MetadataKindArtist:
		return g.Artists
	case MetadataKindPublisher:
		return g.Publishers
	}
	return nil
}

// SetEntries replaces the metadata list for the given kind.
func (g *Game) SetEntries(kind MetadataKind, entries []MetadataEntry) {
	switch kind {
	case MetadataKindName:
		g.Names = entries
	case MetadataKindCategory:
		g.Categories = entries
	case MetadataKindMechanic:
		g.Mechanics = entries
	case MetadataKindDesigner:
		g.Designers = entries
	case MetadataKindArtist:
		g.Artists = entries
	case MetadataKindPublisher:
		g.Publishers = entries
	}
}

// LookupMatch is the bulk id/slug lookup result row.
type LookupMatch struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
}
