package spool

import "fillytrackr/pkg/slice"

// Criteria configures a query over the roll population. All present
// criteria combine with logical AND; an empty Criteria matches every roll
// except depleted ones, which stay hidden unless IncludeZeroWeight is set.
type Criteria struct {
	BrandID   *int
	ColorID   *int
	TypeID    *int
	SubtypeID *int

	OpenedOnly        bool
	InUseOnly         bool
	IncludeZeroWeight bool
}

// Matches reports whether a roll satisfies the criteria. It never mutates
// the roll. The postgres store pushes the same predicate into SQL; this
// in-memory form is the reference semantics and serves tests and grouping.
func (criteria Criteria) Matches(roll *Roll) bool {
	if criteria.BrandID != nil && roll.BrandID != *criteria.BrandID {
		return false
	}
	if criteria.ColorID != nil && roll.ColorID != *criteria.ColorID {
		return false
	}
	if criteria.TypeID != nil && roll.TypeID != *criteria.TypeID {
		return false
	}
	if criteria.SubtypeID != nil && roll.SubtypeID != *criteria.SubtypeID {
		return false
	}
	if criteria.OpenedOnly && !roll.Opened {
		return false
	}
	if criteria.InUseOnly && !roll.InUse {
		return false
	}
	if !criteria.IncludeZeroWeight && roll.Depleted() {
		return false
	}
	return true
}

// Apply filters a roll slice by the criteria, preserving input order.
func (criteria Criteria) Apply(rolls []*Roll) []*Roll {
	return slice.Filter(rolls, criteria.Matches)
}
