// Copyright (c) 2026 FillyTrackr. All rights reserved.

package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fillytrackr/internal/platform/database/schema"
	"fillytrackr/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// tableFor maps a kind to its qualified table name.
func tableFor(kind Kind) string {
	switch kind {
	case KindBrand:
		return schema.CatalogBrand.Table
	case KindColor:
		return schema.CatalogColor.Table
	case KindType:
		return schema.CatalogType.Table
	case KindSubtype:
		return schema.CatalogSubtype.Table
	}
	return ""
}

/*
Create persists a new reference entity of the given kind.

Description: Inserts the display name alongside its casefolded form and
binds the generated id and creation timestamp back into the entity. Only
the color table carries a hex code column.

Parameters:
  - context: context.Context
  - kind: Kind
  - entity: *Entity
  - nameFold: string

Returns:
  - error: apperr.Conflict on duplicate casefolded name, or execution errors
*/
func (repository *PostgresRepository) Create(context context.Context, kind Kind, entity *Entity, nameFold string) error {

	// Colors carry the optional hex code column
	if kind == KindColor {
		query := fmt.Sprintf(`
			INSERT INTO %s (name, name_fold, hex_code, created_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, created_at
		`, schema.CatalogColor.Table)

		err := repository.db.QueryRow(context, query, entity.Name, nameFold, entity.HexCode).Scan(&entity.ID, &entity.CreatedAt)
		return dberr.Wrap(err, "create_"+string(kind))
	}

	// Remaining kinds share the plain name shape
	query := fmt.Sprintf(`
		INSERT INTO %s (name, name_fold, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, tableFor(kind))

	err := repository.db.QueryRow(context, query, entity.Name, nameFold).Scan(&entity.ID, &entity.CreatedAt)
	return dberr.Wrap(err, "create_"+string(kind))
}

/*
List returns every entity of a kind ordered by primary key.

Parameters:
  - context: context.Context
  - kind: Kind

Returns:
  - []*Entity: Hydrated catalog entries
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) List(context context.Context, kind Kind) ([]*Entity, error) {

	// Colors include the hex code projection
	hexColumn := "NULL"
	if kind == KindColor {
		hexColumn = schema.CatalogColor.HexCode
	}

	query := fmt.Sprintf(`
		SELECT id, name, %s, created_at
		FROM %s
		ORDER BY id ASC
	`, hexColumn, tableFor(kind))

	// Execute retrieval against connection pool
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_"+string(kind))
	}
	defer rows.Close()

	// Iterate results and hydrate entity slice
	entities := make([]*Entity, 0)
	for rows.Next() {
		e := &Entity{}
		if err := rows.Scan(&e.ID, &e.Name, &e.HexCode, &e.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_"+string(kind))
		}
		entities = append(entities, e)
	}

	return entities, nil
}

/*
LookupEntries returns the id/name projection of a kind.

Description: This is the shape persisted into the Redis lookup cache;
it deliberately omits timestamps to keep cache payloads small.

Parameters:
  - context: context.Context
  - kind: Kind

Returns:
  - []LookupEntry: Resolution entries
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) LookupEntries(context context.Context, kind Kind) ([]LookupEntry, error) {

	hexColumn := "NULL"
	if kind == KindColor {
		hexColumn = schema.CatalogColor.HexCode
	}

	query := fmt.Sprintf(`
		SELECT id, name, %s
		FROM %s
		ORDER BY id ASC
	`, hexColumn, tableFor(kind))

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "lookup_"+string(kind))
	}
	defer rows.Close()

	entries := make([]LookupEntry, 0)
	for rows.Next() {
		var e LookupEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Hex); err != nil {
			return nil, dberr.Wrap(err, "scan_lookup_"+string(kind))
		}
		entries = append(entries, e)
	}

	return entries, nil
}

/*
MissingComboKind verifies all four referenced catalog ids in one round trip.

Description: Runs four EXISTS probes in a single query. Called before a
roll insert so the API can name the missing reference instead of bubbling
a foreign key violation.

Parameters:
  - context: context.Context
  - brandID, colorID, typeID, subtypeID: int

Returns:
  - Kind: First missing kind in canonical order, "" when the combo resolves
  - error: Database execution errors
*/
func (repository *PostgresRepository) MissingComboKind(context context.Context, brandID, colorID, typeID, subtypeID int) (Kind, error) {

	query := fmt.Sprintf(`
		SELECT
			EXISTS (SELECT 1 FROM %s WHERE id = $1),
			EXISTS (SELECT 1 FROM %s WHERE id = $2),
			EXISTS (SELECT 1 FROM %s WHERE id = $3),
			EXISTS (SELECT 1 FROM %s WHERE id = $4)
	`, schema.CatalogBrand.Table, schema.CatalogColor.Table, schema.CatalogType.Table, schema.CatalogSubtype.Table)

	var hasBrand, hasColor, hasType, hasSubtype bool
	err := repository.db.QueryRow(context, query, brandID, colorID, typeID, subtypeID).Scan(&hasBrand, &hasColor, &hasType, &hasSubtype)
	if err != nil {
		return "", dberr.Wrap(err, "verify_combo")
	}

	switch {
	case !hasBrand:
		return KindBrand, nil
	case !hasColor:
		return KindColor, nil
	case !hasType:
		return KindType, nil
	case !hasSubtype:
		return KindSubtype, nil
	}
	return "", nil
}
