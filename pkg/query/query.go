// Copyright (c) 2026 FillyTrackr. All rights reserved.

// Package query parses optional filter values from URL query strings.
//
// Absent-vs-zero matters for filters (a missing brand_id means "any brand",
// not "brand 0"), so the helpers return pointers rather than zero values.
package query

import (
	"net/url"
	"strconv"
)

// OptionalInt parses a query parameter into an optional integer.
// It returns nil when the parameter is absent, empty, or malformed.
func OptionalInt(values url.Values, key string) *int {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// OptionalFloat parses a query parameter into an optional float64.
// It returns nil when the parameter is absent, empty, or malformed.
func OptionalFloat(values url.Values, key string) *float64 {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
