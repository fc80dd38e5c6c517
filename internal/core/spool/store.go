// Copyright (c) 2026 FillyTrackr. All rights reserved.

package spool

import (
	"context"
	"time"
)

// # Roll Data Access

// Repository defines the data access contract for rolls.
//
// Update is a compare-and-swap: the write applies only when the stored
// updated_at still equals the value the caller read. A lost race surfaces
// as apperr.Conflict and the caller decides whether to retry.
type Repository interface {

	/*
		FindByID returns the roll with the given id.

		Parameters:
		  - context: context.Context
		  - id: int

		Returns:
		  - *Roll: Hydrated roll
		  - error: apperr.NotFound if missing, storage failures otherwise
	*/
	FindByID(context context.Context, id int) (*Roll, error)

	/*
		InsertMany persists a batch of new rolls in one pipeline.

		Description: Ids are generated by the database and bound back into
		the given rolls; timestamps are taken from the entities as set by
		the service clock.

		Parameters:
		  - context: context.Context
		  - rolls: []*Roll

		Returns:
		  - error: Constraint violations or batch failures
	*/
	InsertMany(context context.Context, rolls []*Roll) error

	/*
		Update persists a mutated roll iff it has not changed underneath.

		Parameters:
		  - context: context.Context
		  - roll: *Roll (Mutated entity carrying the new updated_at)
		  - expectedUpdatedAt: time.Time (Concurrency token from the read)

		Returns:
		  - error: apperr.NotFound if the id vanished, apperr.Conflict if a
		    concurrent mutation won the race, storage failures otherwise
	*/
	Update(context context.Context, roll *Roll, expectedUpdatedAt time.Time) error

	/*
		List returns a page of rolls matching the criteria.

		Description: Ordered by updated_at descending with creation time and
		id as tie-breaks, newest activity first.

		Parameters:
		  - context: context.Context
		  - criteria: Criteria
		  - limit, offset: int

		Returns:
		  - []*Roll: Page of matching rolls
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, criteria Criteria, limit, offset int) ([]*Roll, int, error)

	/*
		ListAll returns every roll matching the criteria, unpaginated.

		Description: Ordered ascending by creation time then id, the order
		the aggregation engine consumes. The whole-population size of a
		household inventory makes an unpaginated scan acceptable.

		Parameters:
		  - context: context.Context
		  - criteria: Criteria

		Returns:
		  - []*Roll: All matching rolls
		  - error: Storage failures
	*/
	ListAll(context context.Context, criteria Criteria) ([]*Roll, error)
}
