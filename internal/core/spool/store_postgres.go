// Copyright (c) 2026 FillyTrackr. All rights reserved.

package spool

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fillytrackr/internal/platform/apperr"
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

// rollColumns is the canonical projection shared by every SELECT.
var rollColumns = strings.Join(schema.InventoryRoll.Columns(), ", ")

// scanRoll hydrates one roll from a row in rollColumns order.
func scanRoll(row pgx.Row) (*Roll, error) {
	roll := &Roll{}
	err := row.Scan(
		&roll.ID, &roll.BrandID, &roll.ColorID, &roll.TypeID, &roll.SubtypeID,
		&roll.WeightGrams, &roll.OriginalWeightGrams, &roll.Opened, &roll.InUse,
		&roll.CreatedAt, &roll.UpdatedAt,
	)
	return roll, err
}

// buildWhere translates criteria into a SQL predicate. The semantics mirror
// [Criteria.Matches] exactly; divergence between the two is a bug.
func buildWhere(criteria Criteria) (string, []any) {
	conditions := make([]string, 0, 7)
	args := make([]any, 0, 4)

	appendID := func(column string, id *int) {
		if id == nil {
			return
		}
		args = append(args, *id)
		conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
	}

	appendID(schema.InventoryRoll.BrandID, criteria.BrandID)
	appendID(schema.InventoryRoll.ColorID, criteria.ColorID)
	appendID(schema.InventoryRoll.TypeID, criteria.TypeID)
	appendID(schema.InventoryRoll.SubtypeID, criteria.SubtypeID)

	if criteria.OpenedOnly {
		conditions = append(conditions, schema.InventoryRoll.Opened+" = TRUE")
	}
	if criteria.InUseOnly {
		conditions = append(conditions, schema.InventoryRoll.InUse+" = TRUE")
	}
	if !criteria.IncludeZeroWeight {
		conditions = append(conditions, schema.InventoryRoll.WeightGrams+" > 0")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

/*
FindByID returns the roll with the given id.

Parameters:
  - context: context.Context
  - id: int

Returns:
  - *Roll: Hydrated roll
  - error: apperr.NotFound via dberr on missing rows
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Roll, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`, rollColumns, schema.InventoryRoll.Table, schema.InventoryRoll.ID)

	roll, err := scanRoll(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_roll")
	}
	return roll, nil
}

/*
InsertMany persists a batch of new rolls via the pgx pipeline.

Description: Queues one INSERT per roll and binds the generated ids back in
queue order. Timestamps come from the entities, not NOW(), so the service
clock stays the single time source.

Parameters:
  - context: context.Context
  - rolls: []*Roll

Returns:
  - error: Constraint violations or batch failures
*/
func (repository *PostgresRepository) InsertMany(context context.Context, rolls []*Roll) error {

	// Pre-condition verification
	if len(rolls) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (brand_id, color_id, type_id, subtype_id,
		                weight_grams, original_weight_grams, opened, in_use,
		                created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, schema.InventoryRoll.Table)

	// Batch queue construction
	batch := &pgx.Batch{}
	for _, roll := range rolls {
		batch.Queue(query,
			roll.BrandID, roll.ColorID, roll.TypeID, roll.SubtypeID,
			roll.WeightGrams, roll.OriginalWeightGrams, roll.Opened, roll.InUse,
			roll.CreatedAt, roll.UpdatedAt,
		)
	}

	// Send batch and close pipeline
	result := repository.db.SendBatch(context, batch)
	defer result.Close()

	// Bind generated ids in queue order
	for _, roll := range rolls {
		if err := result.QueryRow().Scan(&roll.ID); err != nil {
			return dberr.Wrap(err, "insert_rolls")
		}
	}

	return nil
}

/*
Update persists a mutated roll with an optimistic compare-and-swap.

Description: The UPDATE matches on both id and the updated_at the caller
read. Zero affected rows means either the roll vanished or a concurrent
mutation moved updated_at; a follow-up existence probe distinguishes the
two so the caller gets NotFound versus the retryable Conflict.

Parameters:
  - context: context.Context
  - roll: *Roll
  - expectedUpdatedAt: time.Time

Returns:
  - error: apperr.NotFound, apperr.Conflict, or execution errors
*/
func (repository *PostgresRepository) Update(context context.Context, roll *Roll, expectedUpdatedAt time.Time) error {

	query := fmt.Sprintf(`
		UPDATE %s
		SET weight_grams = $3, opened = $4, in_use = $5, updated_at = $6
		WHERE %s = $1 AND %s = $2
	`, schema.InventoryRoll.Table, schema.InventoryRoll.ID, schema.InventoryRoll.UpdatedAt)

	cmd, err := repository.db.Exec(context, query,
		roll.ID, expectedUpdatedAt,
		roll.WeightGrams, roll.Opened, roll.InUse, roll.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_roll")
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a vanished row from a lost race
	existsQuery := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.InventoryRoll.Table, schema.InventoryRoll.ID)

	var exists bool
	if err := repository.db.QueryRow(context, existsQuery, roll.ID).Scan(&exists); err != nil {
		return dberr.Wrap(err, "update_roll_probe")
	}
	if !exists {
		return apperr.NotFound("Roll")
	}
	return apperr.Conflict("Roll was modified concurrently")
}

/*
List returns a page of rolls matching the criteria, newest activity first.

Parameters:
  - context: context.Context
  - criteria: Criteria
  - limit, offset: int

Returns:
  - []*Roll: Page of matching rolls
  - int: Total matching count
  - error: Database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, criteria Criteria, limit, offset int) ([]*Roll, int, error) {

	where, args := buildWhere(criteria)

	// Retrieve total count for pagination metadata
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s%s`, schema.InventoryRoll.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_rolls")
	}

	// Append ordering and pagination bounds
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s%s
		ORDER BY %s DESC, %s DESC, %s DESC
		LIMIT $%d OFFSET $%d
	`, rollColumns, schema.InventoryRoll.Table, where,
		schema.InventoryRoll.UpdatedAt, schema.InventoryRoll.CreatedAt, schema.InventoryRoll.ID,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_rolls")
	}
	defer rows.Close()

	// Hydrate result set
	rolls := make([]*Roll, 0)
	for rows.Next() {
		roll, err := scanRoll(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_roll")
		}
		rolls = append(rolls, roll)
	}

	return rolls, total, nil
}

/*
ListAll returns every matching roll ordered oldest first.

Description: Creation order in, so grouped views come out in first-seen
order of each combo's earliest roll.

Parameters:
  - context: context.Context
  - criteria: Criteria

Returns:
  - []*Roll: All matching rolls
  - error: Database execution errors
*/
func (repository *PostgresRepository) ListAll(context context.Context, criteria Criteria) ([]*Roll, error) {

	where, args := buildWhere(criteria)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s%s
		ORDER BY %s ASC, %s ASC
	`, rollColumns, schema.InventoryRoll.Table, where,
		schema.InventoryRoll.CreatedAt, schema.InventoryRoll.ID)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_all_rolls")
	}
	defer rows.Close()

	rolls := make([]*Roll, 0)
	for rows.Next() {
		roll, err := scanRoll(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_roll")
		}
		rolls = append(rolls, roll)
	}

	return rolls, nil
}
