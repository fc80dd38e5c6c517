/*
Package spool implements the filament inventory core: individually tracked
rolls, their lifecycle transitions, and the grouped views derived from them.

# Core Responsibility

  - Lifecycle: Create, duplicate, open, weigh and mount rolls while holding
    the weight and state invariants after every mutation.
  - Aggregation: Collapse the flat roll population into logical rows keyed
    by the brand/color/type/subtype combination, with derived statistics.
  - Querying: Filter the population by characteristics and state, hiding
    depleted rolls unless explicitly requested.

# Invariants

After every committed mutation:

  - 0 <= weight_grams <= original_weight_grams
  - An unopened roll is pristine: weight equals original and it is not in use.
  - Once opened, weight never increases.
  - updated_at >= created_at

Writes go through an optimistic compare-and-swap on updated_at, so two
concurrent mutations of the same roll never interleave; the loser receives a
retryable conflict.
*/
package spool

import (
	"fmt"
	"time"

	"fillytrackr/internal/core/catalog"
	"fillytrackr/internal/platform/apperr"
)

// UnknownName is the sentinel shown when a roll references a catalog id that
// no longer resolves. Stale references degrade in display instead of failing.
const UnknownName = "Unknown"

// Combo is the 4-tuple identifying a filament variant.
type Combo struct {
	BrandID   int `json:"brand_id"`
	ColorID   int `json:"color_id"`
	TypeID    int `json:"type_id"`
	SubtypeID int `json:"subtype_id"`
}

// Label renders a human-readable combo description for logs and views,
// substituting [UnknownName] for stale references.
func (c Combo) Label(lookups catalog.Lookups) string {
	name := func(m map[int]string, id int) string {
		if n, ok := m[id]; ok {
			return n
		}
		return UnknownName
	}
	return fmt.Sprintf("%s %s %s (%s)",
		name(lookups.Brands, c.BrandID),
		name(lookups.Colors, c.ColorID),
		name(lookups.Types, c.TypeID),
		name(lookups.Subtypes, c.SubtypeID),
	)
}

// Roll is one physical, individually tracked filament spool.
type Roll struct {
	ID int `json:"id"`
	Combo
	WeightGrams         float64   `json:"weight_grams"`
	OriginalWeightGrams float64   `json:"original_weight_grams"`
	Opened              bool      `json:"opened"`
	InUse               bool      `json:"in_use"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Depleted reports whether the roll has been fully consumed. Depletion is an
// observable condition, not a state: the roll stays mutable.
func (roll *Roll) Depleted() bool {
	return roll.WeightGrams == 0
}

// # State Transitions
//
// Transitions mutate the roll in memory only; persistence and the
// concurrency token are the service's concern.

// MarkOpened transitions the roll to opened. It reports whether the call
// changed anything, making repeated opens idempotent.
func (roll *Roll) MarkOpened(at time.Time) bool {
	if roll.Opened {
		return false
	}
	roll.Opened = true
	roll.UpdatedAt = at
	return true
}

/*
SetWeight applies an absolute weight to an opened roll.

Description: Enforces the bounds 0 <= weight <= original and the
non-increase rule: once a roll is opened its weight only moves down.
Callers weigh unopened rolls through the service, which opens first.

Parameters:
  - grams: float64 (New absolute weight)
  - at: time.Time (Mutation timestamp)

Returns:
  - error: ValidationError on bound or monotonicity violations
*/
func (roll *Roll) SetWeight(grams float64, at time.Time) error {
	if grams < 0 {
		return apperr.ValidationError("Weight cannot be negative")
	}
	if grams > roll.OriginalWeightGrams {
		return apperr.ValidationError("Weight cannot exceed the original weight")
	}
	if grams > roll.WeightGrams {
		return apperr.ValidationError("Weight cannot increase once a roll is opened")
	}

	roll.WeightGrams = grams
	roll.UpdatedAt = at
	return nil
}

// SetInUse toggles whether the roll is mounted on a printer. Mounting
// requires the roll to be opened first. It reports whether the value changed.
func (roll *Roll) SetInUse(inUse bool, at time.Time) (bool, error) {
	if inUse && !roll.Opened {
		return false, apperr.ValidationError("An unopened roll cannot be marked in use")
	}
	if roll.InUse == inUse {
		return false, nil
	}
	roll.InUse = inUse
	roll.UpdatedAt = at
	return true, nil
}

// # Weight Change Variant

// WeightChange is the tagged variant for weight updates: exactly one of the
// two fields must be set. Loose payloads carrying both or neither are
// rejected at validation time instead of being guessed at.
type WeightChange struct {
	NewWeightGrams  *float64 `json:"new_weight_grams"`
	DecreaseByGrams *float64 `json:"decrease_by_grams"`
}

/*
Resolve computes the target absolute weight from the variant.

Parameters:
  - current: float64 (The roll's present weight)

Returns:
  - float64: Target absolute weight
  - error: ValidationError when zero or both variants are present, or an
    input is negative
*/
func (change WeightChange) Resolve(current float64) (float64, error) {
	switch {
	case change.NewWeightGrams != nil && change.DecreaseByGrams != nil:
		return 0, apperr.ValidationError("Provide either new_weight_grams or decrease_by_grams, not both")
	case change.NewWeightGrams != nil:
		if *change.NewWeightGrams < 0 {
			return 0, apperr.ValidationError("new_weight_grams cannot be negative")
		}
		return *change.NewWeightGrams, nil
	case change.DecreaseByGrams != nil:
		if *change.DecreaseByGrams < 0 {
			return 0, apperr.ValidationError("decrease_by_grams cannot be negative")
		}
		return current - *change.DecreaseByGrams, nil
	}
	return 0, apperr.ValidationError("Provide one of new_weight_grams or decrease_by_grams")
}

// # Field Identifiers

// Global field names for validation in the spool domain.
const (
	FieldOriginalWeight = "original_weight_grams"
	FieldCount          = "count"
	FieldInUse          = "in_use"
)
