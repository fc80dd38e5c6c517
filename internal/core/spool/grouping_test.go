// Copyright (c) 2026 FillyTrackr. All rights reserved.

package spool_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fillytrackr/internal/core/catalog"
	"fillytrackr/internal/core/spool"
)

var groupingBase = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

// makeRoll builds a roll with creation time offset in minutes from the base.
func makeRoll(id int, combo spool.Combo, opened bool, weight float64, minutes int) *spool.Roll {
	at := groupingBase.Add(time.Duration(minutes) * time.Minute)
	return &spool.Roll{
		ID:                  id,
		Combo:               combo,
		WeightGrams:         weight,
		OriginalWeightGrams: 1000,
		Opened:              opened,
		CreatedAt:           at,
		UpdatedAt:           at,
	}
}

func groupingLookups() catalog.Lookups {
	return catalog.Lookups{
		Brands:   map[int]string{1: "Bambu", 2: "Sunlu"},
		Colors:   map[int]string{1: "Black", 2: "White"},
		Types:    map[int]string{1: "PLA", 2: "PETG"},
		Subtypes: map[int]string{1: "basic", 2: "silk"},
		ColorHex: map[int]string{1: "000000"},
	}
}

/*
TestGroup_Partition verifies every roll lands in exactly one group's
opened/unopened split.
*/
func TestGroup_Partition(t *testing.T) {
	comboA := spool.Combo{BrandID: 1, ColorID: 1, TypeID: 1, SubtypeID: 1}
	comboB := spool.Combo{BrandID: 2, ColorID: 2, TypeID: 2, SubtypeID: 2}

	rolls := []*spool.Roll{
		makeRoll(1, comboA, true, 800, 0),
		makeRoll(2, comboB, false, 1000, 1),
		makeRoll(3, comboA, false, 1000, 2),
		makeRoll(4, comboA, true, 500, 3),
		makeRoll(5, comboB, true, 200, 4),
	}

	views := spool.Group(rolls, groupingLookups())
	require.Len(t, views, 2)

	seen := make(map[int]int)
	for _, view := range views {
		union := append(append([]*spool.Roll{}, view.OpenedRolls...), view.UnopenedRolls...)
		assert.Len(t, union, len(view.Rolls))

		for _, roll := range union {
			assert.Equal(t, view.Combo, roll.Combo, "roll %d grouped under a foreign key", roll.ID)
			seen[roll.ID]++
		}
	}

	// No roll missing, none in two groups
	require.Len(t, seen, len(rolls))
	for id, count := range seen {
		assert.Equal(t, 1, count, "roll %d", id)
	}
}

/*
TestGroup_FirstSeenOrder verifies group order follows the earliest roll per
key, not any alphabetical sort.
*/
func TestGroup_FirstSeenOrder(t *testing.T) {
	comboA := spool.Combo{BrandID: 2, ColorID: 2, TypeID: 2, SubtypeID: 2} // "Sunlu", later alphabetically
	comboB := spool.Combo{BrandID: 1, ColorID: 1, TypeID: 1, SubtypeID: 1}

	rolls := []*spool.Roll{
		makeRoll(1, comboA, false, 1000, 0),
		makeRoll(2, comboB, false, 1000, 1),
		makeRoll(3, comboA, false, 1000, 2),
	}

	views := spool.Group(rolls, groupingLookups())
	require.Len(t, views, 2)
	assert.Equal(t, comboA, views[0].Combo)
	assert.Equal(t, comboB, views[1].Combo)
}

/*
TestGroup_OpenedOrderAndOldest verifies opened ordering, tie-breaks, and
that the oldest roll drives group statistics.
*/
func TestGroup_OpenedOrderAndOldest(t *testing.T) {
	combo := spool.Combo{BrandID: 1, ColorID: 1, TypeID: 1, SubtypeID: 1}

	oldest := makeRoll(7, combo, false, 1000, 0)
	oldest.OriginalWeightGrams = 750

	// Two opened rolls share a creation time; the lower id sorts first
	tieA := makeRoll(3, combo, true, 400, 5)
	tieB := makeRoll(2, combo, true, 300, 5)
	late := makeRoll(9, combo, true, 100, 10)

	views := spool.Group([]*spool.Roll{late, tieA, oldest, tieB}, groupingLookups())
	require.Len(t, views, 1)
	view := views[0]

	require.Len(t, view.OpenedRolls, 3)
	assert.Equal(t, []int{2, 3, 9}, []int{view.OpenedRolls[0].ID, view.OpenedRolls[1].ID, view.OpenedRolls[2].ID})

	// Oldest roll supplies original weight and timestamps
	require.NotNil(t, view.OldestRoll)
	assert.Equal(t, 7, view.OldestRoll.ID)
	assert.Equal(t, 750.0, view.OriginalWeightGrams)
	assert.Equal(t, oldest.CreatedAt, view.CreatedAt)
	assert.Equal(t, oldest.UpdatedAt, view.UpdatedAt)

	assert.Equal(t, 1800.0, view.TotalWeightGrams)
}

/*
TestGroup_UnknownReferences verifies stale catalog ids degrade to the
sentinel instead of failing.
*/
func TestGroup_UnknownReferences(t *testing.T) {
	combo := spool.Combo{BrandID: 77, ColorID: 1, TypeID: 88, SubtypeID: 1}

	views := spool.Group([]*spool.Roll{makeRoll(1, combo, false, 1000, 0)}, groupingLookups())
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, spool.UnknownName, view.Brand)
	assert.Equal(t, "Black", view.Color)
	assert.Equal(t, spool.UnknownName, view.Type)
	assert.Equal(t, "basic", view.Subtype)
	require.NotNil(t, view.ColorHex)
	assert.Equal(t, "000000", *view.ColorHex)
}

/*
TestGroup_Empty verifies grouping an empty population yields no views.
*/
func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, spool.Group(nil, groupingLookups()))
}

/*
TestCombo_Label verifies the log label rendering with fallbacks.
*/
func TestCombo_Label(t *testing.T) {
	lookups := groupingLookups()

	known := spool.Combo{BrandID: 1, ColorID: 2, TypeID: 1, SubtypeID: 2}
	assert.Equal(t, "Bambu White PLA (silk)", known.Label(lookups))

	stale := spool.Combo{BrandID: 99, ColorID: 2, TypeID: 1, SubtypeID: 2}
	assert.Equal(t, "Unknown White PLA (silk)", stale.Label(lookups))
}
