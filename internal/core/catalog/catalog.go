/*
Package catalog manages the reference data of FillyTrackr: the brands,
colors, types, and subtypes that identify a filament variant.

# Core Responsibility

  - Taxonomy: Immutable-once-created lookup entities referenced by id.
  - Uniqueness: Names are unique per kind, case-insensitively (Unicode
    casefold, not plain lowercasing).
  - Enrichment: Serves the id->name lookup maps the inventory grouping
    engine uses, through a Redis read-through cache invalidated on create.

Entities are never updated or deleted; stale references degrade to the
"Unknown" sentinel on the inventory side rather than failing.
*/
package catalog

import (
	"time"

	"fillytrackr/internal/platform/apperr"
)

// Kind discriminates the four reference entity tables.
type Kind string

const (
	KindBrand   Kind = "brand"
	KindColor   Kind = "color"
	KindType    Kind = "type"
	KindSubtype Kind = "subtype"
)

// Kinds lists all valid kinds in canonical order.
var Kinds = []Kind{KindBrand, KindColor, KindType, KindSubtype}

// ParseKind converts a URL segment into a [Kind].
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindBrand, KindColor, KindType, KindSubtype:
		return Kind(raw), nil
	}
	return "", apperr.ValidationError("Unknown catalog kind: " + raw)
}

// Display returns the capitalized kind name used in error messages.
func (k Kind) Display() string {
	switch k {
	case KindBrand:
		return "Brand"
	case KindColor:
		return "Color"
	case KindType:
		return "Type"
	case KindSubtype:
		return "Subtype"
	}
	return "Reference"
}

// Entity is a single reference catalog entry.
//
// HexCode is only ever populated for [KindColor]; other kinds reject it at
// creation time.
type Entity struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	HexCode   *string   `json:"hex_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Lookups bundles the id->name maps for all four kinds plus the color hex
// map, resolved in one pass for grouped inventory queries.
type Lookups struct {
	Brands   map[int]string
	Colors   map[int]string
	Types    map[int]string
	Subtypes map[int]string
	ColorHex map[int]string
}

// ByKind returns the name map for the given kind.
func (l Lookups) ByKind(kind Kind) map[int]string {
	switch kind {
	case KindBrand:
		return l.Brands
	case KindColor:
		return l.Colors
	case KindType:
		return l.Types
	case KindSubtype:
		return l.Subtypes
	}
	return nil
}

// # Field Identifiers

// Global field names for validation in the catalog domain.
const (
	FieldName    = "name"
	FieldHexCode = "hex_code"
)
