// Copyright (c) 2026 FillyTrackr. All rights reserved.

package catalog

import "context"

// # Reference Catalog Data Access

// LookupEntry is the minimal projection cached for id->name resolution.
type LookupEntry struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Hex  *string `json:"hex,omitempty"`
}

// Repository defines the data access contract for reference entities.
type Repository interface {

	/*
		Create persists a new reference entity of the given kind.

		Description: Fills the entity's ID and CreatedAt from the database.
		A case-insensitive name collision surfaces as apperr.Conflict.

		Parameters:
		  - context: context.Context
		  - kind: Kind (Target table)
		  - entity: *Entity (Name and, for colors, HexCode set)
		  - nameFold: string (Casefolded name for the uniqueness index)

		Returns:
		  - error: Constraint violations or storage failures
	*/
	Create(context context.Context, kind Kind, entity *Entity, nameFold string) error

	/*
		List returns every entity of a kind, ordered by id ascending.

		Parameters:
		  - context: context.Context
		  - kind: Kind

		Returns:
		  - []*Entity: Full catalog of the kind
		  - error: Storage failures
	*/
	List(context context.Context, kind Kind) ([]*Entity, error)

	/*
		LookupEntries returns the id/name projection of a kind for caching.

		Parameters:
		  - context: context.Context
		  - kind: Kind

		Returns:
		  - []LookupEntry: Id, name and (colors only) hex code
		  - error: Storage failures
	*/
	LookupEntries(context context.Context, kind Kind) ([]LookupEntry, error)

	/*
		MissingComboKind checks that all four referenced ids exist.

		Parameters:
		  - context: context.Context
		  - brandID, colorID, typeID, subtypeID: int

		Returns:
		  - Kind: The first kind whose id does not exist, or "" when all do
		  - error: Storage failures
	*/
	MissingComboKind(context context.Context, brandID, colorID, typeID, subtypeID int) (Kind, error)
}
