// Copyright (c) 2026 FillyTrackr. All rights reserved.

package spool

import (
	"sort"
	"time"

	"fillytrackr/internal/core/catalog"
)

// # Grouped Views

// GroupedView is the derived logical row for one filament variant: every
// roll sharing a combo, with resolved display names and group statistics.
// It is rebuilt on every query and never persisted.
type GroupedView struct {
	Combo

	// Display names resolved through the catalog; stale references render
	// as the Unknown sentinel.
	Brand    string  `json:"brand"`
	Color    string  `json:"color"`
	ColorHex *string `json:"color_hex,omitempty"`
	Type     string  `json:"type"`
	Subtype  string  `json:"subtype"`

	// Statistics taken from the oldest roll in the group.
	OriginalWeightGrams float64   `json:"original_weight_grams"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	TotalWeightGrams float64 `json:"total_weight_grams"`

	Rolls         []*Roll `json:"rolls"`
	OpenedRolls   []*Roll `json:"opened_rolls"`
	UnopenedRolls []*Roll `json:"unopened_rolls"`
	OldestRoll    *Roll   `json:"oldest_roll"`
}

/*
Group partitions rolls into one [GroupedView] per combo.

Description: Groups appear in first-seen order of their earliest input roll,
not alphabetically, so views stay stable across refreshes. Within a group,
opened rolls are sorted ascending by creation time with id as tie-break;
unopened rolls keep input order. The oldest roll across the whole group
(minimum created_at, ties broken by id) supplies the group's original
weight and timestamps.

Parameters:
  - rolls: []*Roll (Already filtered population)
  - lookups: catalog.Lookups (Name and hex enrichment maps)

Returns:
  - []*GroupedView: One view per distinct combo
*/
func Group(rolls []*Roll, lookups catalog.Lookups) []*GroupedView {

	// Partition in first-seen key order
	views := make([]*GroupedView, 0)
	byCombo := make(map[Combo]*GroupedView)

	for _, roll := range rolls {
		view, ok := byCombo[roll.Combo]
		if !ok {
			view = &GroupedView{
				Combo:   roll.Combo,
				Brand:   lookupName(lookups.Brands, roll.BrandID),
				Color:   lookupName(lookups.Colors, roll.ColorID),
				Type:    lookupName(lookups.Types, roll.TypeID),
				Subtype: lookupName(lookups.Subtypes, roll.SubtypeID),
			}
			if hex, found := lookups.ColorHex[roll.ColorID]; found {
				view.ColorHex = &hex
			}
			byCombo[roll.Combo] = view
			views = append(views, view)
		}

		view.Rolls = append(view.Rolls, roll)
		view.TotalWeightGrams += roll.WeightGrams
		if roll.Opened {
			view.OpenedRolls = append(view.OpenedRolls, roll)
		} else {
			view.UnopenedRolls = append(view.UnopenedRolls, roll)
		}
		if view.OldestRoll == nil || olderThan(roll, view.OldestRoll) {
			view.OldestRoll = roll
		}
	}

	// Derive per-group orderings and statistics
	for _, view := range views {
		sort.SliceStable(view.OpenedRolls, func(i, j int) bool {
			return olderThan(view.OpenedRolls[i], view.OpenedRolls[j])
		})

		view.OriginalWeightGrams = view.OldestRoll.OriginalWeightGrams
		view.CreatedAt = view.OldestRoll.CreatedAt
		view.UpdatedAt = view.OldestRoll.UpdatedAt
	}

	return views
}

// olderThan orders rolls by creation time ascending, id ascending on ties.
func olderThan(a, b *Roll) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// lookupName resolves an id against a name map, degrading to the Unknown
// sentinel for stale references.
func lookupName(names map[int]string, id int) string {
	if name, ok := names[id]; ok {
		return name
	}
	return UnknownName
}
