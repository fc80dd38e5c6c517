package spool

import (
	"context"
	"log/slog"
	"time"

	"fillytrackr/internal/core/catalog"
	"fillytrackr/internal/platform/validate"
	"fillytrackr/pkg/pointer"
)

// CatalogDirectory is the slice of the reference catalog the lifecycle
// engine needs: combo resolution and name enrichment.
type CatalogDirectory interface {
	VerifyCombo(context context.Context, brandID, colorID, typeID, subtypeID int) error
	Lookups(context context.Context) (catalog.Lookups, error)
}

// Service implements the roll lifecycle and query operations.
//
// Every mutation is a read-modify-write on a single roll, committed through
// the repository's compare-and-swap. The service never retries a lost race
// itself; the conflict propagates and the caller decides.
type Service struct {
	repo    Repository
	catalog CatalogDirectory
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires a spool service using the wall clock.
func NewService(repo Repository, catalog CatalogDirectory, logger *slog.Logger) *Service {
	// Truncate to the precision postgres stores, so timestamps written and
	// read back compare equal in the CAS predicate.
	return NewServiceWithClock(repo, catalog, logger, func() time.Time {
		return time.Now().UTC().Truncate(time.Microsecond)
	})
}

// NewServiceWithClock wires a spool service with an injected time source.
func NewServiceWithClock(repo Repository, catalog CatalogDirectory, logger *slog.Logger, clock func() time.Time) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		now:     clock,
	}
}

// CreateRollsInput is the payload for adding new rolls of one combo.
type CreateRollsInput struct {
	Combo
	OriginalWeightGrams float64 `json:"original_weight_grams"`
	Count               int     `json:"count"`
}

/*
CreateRolls adds count identical unopened rolls for a combo.

Description: Validates the weight and count, resolves all four catalog
references, and inserts the batch. Every created roll starts pristine:
unopened, not in use, weight equal to original.

Parameters:
  - context: context.Context
  - input: CreateRollsInput

Returns:
  - []*Roll: The created rolls with their generated ids
  - error: ValidationError on bad input, apperr.NotFound on a dangling
    catalog reference
*/
func (service *Service) CreateRolls(context context.Context, input CreateRollsInput) ([]*Roll, error) {

	validator := &validate.Validator{}
	if err := validator.
		PositiveGrams(FieldOriginalWeight, input.OriginalWeightGrams).
		Range(FieldCount, input.Count, 1, 100).
		Err(); err != nil {
		return nil, err
	}

	if err := service.catalog.VerifyCombo(context, input.BrandID, input.ColorID, input.TypeID, input.SubtypeID); err != nil {
		return nil, err
	}

	now := service.now()
	rolls := make([]*Roll, 0, input.Count)
	for i := 0; i < input.Count; i++ {
		rolls = append(rolls, &Roll{
			Combo:               input.Combo,
			WeightGrams:         input.OriginalWeightGrams,
			OriginalWeightGrams: input.OriginalWeightGrams,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}

	if err := service.repo.InsertMany(context, rolls); err != nil {
		return nil, err
	}

	service.logger.Info("rolls created",
		"combo", service.comboLabel(context, input.Combo),
		"count", input.Count,
		"original_weight_grams", input.OriginalWeightGrams,
	)
	return rolls, nil
}

/*
DuplicateRoll adds one new unopened roll copying an existing roll's combo.

Description: The new roll takes the supplied original weight when given,
otherwise the source's original weight. Opened, in-use and remaining weight
state is never copied; a duplicate is a fresh physical spool.

Parameters:
  - context: context.Context
  - sourceID: int
  - originalWeightGrams: *float64 (Optional override)

Returns:
  - *Roll: The created roll
  - error: apperr.NotFound on unknown source, ValidationError on a
    non-positive override
*/
func (service *Service) DuplicateRoll(context context.Context, sourceID int, originalWeightGrams *float64) (*Roll, error) {

	source, err := service.repo.FindByID(context, sourceID)
	if err != nil {
		return nil, err
	}

	if originalWeightGrams != nil {
		validator := &validate.Validator{}
		if err := validator.PositiveGrams(FieldOriginalWeight, *originalWeightGrams).Err(); err != nil {
			return nil, err
		}
	}
	weight := pointer.Fallback(originalWeightGrams, source.OriginalWeightGrams)

	now := service.now()
	roll := &Roll{
		Combo:               source.Combo,
		WeightGrams:         weight,
		OriginalWeightGrams: weight,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := service.repo.InsertMany(context, []*Roll{roll}); err != nil {
		return nil, err
	}

	service.logger.Info("roll duplicated", "source_id", sourceID, "id", roll.ID)
	return roll, nil
}

/*
OpenRoll transitions a roll to opened.

Description: Idempotent: opening an already-opened roll changes nothing and
writes nothing. The weight stays at the original until the first weigh.

Parameters:
  - context: context.Context
  - id: int

Returns:
  - *Roll: The roll after the transition
  - error: apperr.NotFound, or apperr.Conflict on a lost write race
*/
func (service *Service) OpenRoll(context context.Context, id int) (*Roll, error) {

	roll, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	expected := roll.UpdatedAt
	if !roll.MarkOpened(service.now()) {
		return roll, nil
	}

	if err := service.repo.Update(context, roll, expected); err != nil {
		return nil, err
	}

	service.logger.Info("roll opened", "id", id)
	return roll, nil
}

/*
UpdateWeight applies a weight change to a roll.

Description: Accepts exactly one variant: an absolute new weight or a
decrement. Weighing an unopened roll deliberately opens it first and applies
the change in the same commit; recording a weight implies the seal is off.
The result must stay within [0, original] and may never exceed the current
weight once opened.

Parameters:
  - context: context.Context
  - id: int
  - change: WeightChange

Returns:
  - *Roll: The roll after the change
  - error: ValidationError on variant or bound violations (roll unchanged),
    apperr.NotFound, or apperr.Conflict on a lost write race
*/
func (service *Service) UpdateWeight(context context.Context, id int, change WeightChange) (*Roll, error) {

	roll, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	target, err := change.Resolve(roll.WeightGrams)
	if err != nil {
		return nil, err
	}

	expected := roll.UpdatedAt
	now := service.now()

	// Open-on-first-weigh composite
	opened := roll.MarkOpened(now)
	if err := roll.SetWeight(target, now); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, roll, expected); err != nil {
		return nil, err
	}

	service.logger.Info("roll weight updated",
		"id", id,
		"weight_grams", roll.WeightGrams,
		"opened_implicitly", opened,
	)
	return roll, nil
}

/*
SetInUse marks a roll as mounted on or removed from a printer.

Description: Mounting requires the roll to be opened. Setting the value it
already has changes nothing and writes nothing.

Parameters:
  - context: context.Context
  - id: int
  - inUse: bool

Returns:
  - *Roll: The roll after the change
  - error: ValidationError when mounting an unopened roll, apperr.NotFound,
    or apperr.Conflict on a lost write race
*/
func (service *Service) SetInUse(context context.Context, id int, inUse bool) (*Roll, error) {

	roll, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	expected := roll.UpdatedAt
	changed, err := roll.SetInUse(inUse, service.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return roll, nil
	}

	if err := service.repo.Update(context, roll, expected); err != nil {
		return nil, err
	}

	service.logger.Info("roll in-use toggled", "id", id, "in_use", inUse)
	return roll, nil
}

// GetRoll returns a single roll by id.
func (service *Service) GetRoll(context context.Context, id int) (*Roll, error) {
	return service.repo.FindByID(context, id)
}

// Query returns a page of rolls matching the criteria, newest activity first.
func (service *Service) Query(context context.Context, criteria Criteria, limit, offset int) ([]*Roll, int, error) {
	return service.repo.List(context, criteria, limit, offset)
}

/*
QueryGrouped returns the logical rows for all rolls matching the criteria.

Description: Loads the matching population oldest first, resolves display
names through the catalog, and aggregates one view per combo. Views are
rebuilt on every call; nothing derived is persisted.

Parameters:
  - context: context.Context
  - criteria: Criteria

Returns:
  - []*GroupedView: One view per distinct combo, first-seen order
  - error: Storage or catalog failures
*/
func (service *Service) QueryGrouped(context context.Context, criteria Criteria) ([]*GroupedView, error) {

	rolls, err := service.repo.ListAll(context, criteria)
	if err != nil {
		return nil, err
	}

	lookups, err := service.catalog.Lookups(context)
	if err != nil {
		return nil, err
	}

	return Group(rolls, lookups), nil
}

// comboLabel resolves a combo's display label for logging, degrading to raw
// ids when the catalog is unavailable.
func (service *Service) comboLabel(context context.Context, combo Combo) string {
	lookups, err := service.catalog.Lookups(context)
	if err != nil {
		return combo.Label(catalog.Lookups{})
	}
	return combo.Label(lookups)
}
