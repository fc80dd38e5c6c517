// Copyright (c) 2026 FillyTrackr. All rights reserved.

package spool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fillytrackr/internal/core/spool"
	"fillytrackr/pkg/pointer"
)

/*
TestCriteria_Matches exercises each criterion and their AND combination.
*/
func TestCriteria_Matches(t *testing.T) {
	roll := &spool.Roll{
		ID:                  1,
		Combo:               spool.Combo{BrandID: 1, ColorID: 2, TypeID: 3, SubtypeID: 4},
		WeightGrams:         500,
		OriginalWeightGrams: 1000,
		Opened:              true,
		InUse:               false,
	}

	tests := []struct {
		name     string
		criteria spool.Criteria
		want     bool
	}{
		{"empty_matches", spool.Criteria{}, true},
		{"brand_match", spool.Criteria{BrandID: pointer.To(1)}, true},
		{"brand_mismatch", spool.Criteria{BrandID: pointer.To(9)}, false},
		{"color_mismatch", spool.Criteria{ColorID: pointer.To(9)}, false},
		{"type_mismatch", spool.Criteria{TypeID: pointer.To(9)}, false},
		{"subtype_mismatch", spool.Criteria{SubtypeID: pointer.To(9)}, false},
		{"opened_only_match", spool.Criteria{OpenedOnly: true}, true},
		{"in_use_only_mismatch", spool.Criteria{InUseOnly: true}, false},
		{"all_criteria_and", spool.Criteria{BrandID: pointer.To(1), ColorID: pointer.To(2), TypeID: pointer.To(3), SubtypeID: pointer.To(4), OpenedOnly: true}, true},
		{"and_with_one_mismatch", spool.Criteria{BrandID: pointer.To(1), ColorID: pointer.To(9), OpenedOnly: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(roll))
		})
	}
}

/*
TestCriteria_ZeroWeightDefault verifies depleted rolls are hidden by default.
*/
func TestCriteria_ZeroWeightDefault(t *testing.T) {
	combo := spool.Combo{BrandID: 1, ColorID: 1, TypeID: 1, SubtypeID: 1}
	rolls := []*spool.Roll{
		{ID: 1, Combo: combo, WeightGrams: 0, OriginalWeightGrams: 1000, Opened: true},
		{ID: 2, Combo: combo, WeightGrams: 50, OriginalWeightGrams: 1000, Opened: true},
		{ID: 3, Combo: combo, WeightGrams: 1000, OriginalWeightGrams: 1000},
	}

	visible := spool.Criteria{}.Apply(rolls)
	require.Len(t, visible, 2)
	assert.Equal(t, 2, visible[0].ID)
	assert.Equal(t, 3, visible[1].ID)

	all := spool.Criteria{IncludeZeroWeight: true}.Apply(rolls)
	assert.Len(t, all, 3)
}

/*
TestCriteria_Apply_DoesNotMutate verifies filtering leaves inputs untouched
and preserves order.
*/
func TestCriteria_Apply_DoesNotMutate(t *testing.T) {
	combo := spool.Combo{BrandID: 1, ColorID: 1, TypeID: 1, SubtypeID: 1}
	roll := &spool.Roll{ID: 1, Combo: combo, WeightGrams: 100, OriginalWeightGrams: 1000, Opened: true, InUse: true}
	before := *roll

	matched := spool.Criteria{InUseOnly: true}.Apply([]*spool.Roll{roll})
	require.Len(t, matched, 1)
	assert.Equal(t, before, *roll)
	assert.Same(t, roll, matched[0])
}
