package domain

import (
	"time"

	"github.com/google/uuid"
)

// MetadataKind identifies one of the many-valued, catalog-backed attributes
// a game can carry.
type MetadataKind string

const (
	MetadataKindName      MetadataKind = "name"
	MetadataKindCategory  MetadataKind = "category"
	MetadataKindMechanic  MetadataKind = "mechanic"
	MetadataKindDesigner  MetadataKind = "designer"
	MetadataKindArtist    MetadataKind = "artist"
	MetadataKindPublisher MetadataKind = "publisher"
)

// MetadataKinds lists every kind in the order game records present them.
var MetadataKinds = []MetadataKind{
	MetadataKindName,
	MetadataKindCategory,
	MetadataKindMechanic,
	MetadataKindDesigner,
	MetadataKindArtist,
	MetadataKindPublisher,
}

func (k MetadataKind) String() string { return string(k) }

func (k MetadataKind) IsValid() bool {
	switch k {
	case MetadataKindName, MetadataKindCategory, MetadataKindMechanic,
		MetadataKindDesigner, MetadataKindArtist, MetadataKindPublisher:
		return true
	}
	return false
}

// MetadataEntry is a catalog row shared across games. Value keeps the casing
// it was first seen with; ValueNormalized is the uniqueness key within Kind.
type MetadataEntry struct {
	ID              uuid.UUID
	Kind            MetadataKind
	Value           string
	ValueNormalized string
	CreatedAt       time.Time
}
