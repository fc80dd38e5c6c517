// Copyright (c) 2026 FillyTrackr. All rights reserved.

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fillytrackr/pkg/normalize"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase_passthrough", "pla", "pla"},
		{"uppercase_folded", "PLA", "pla"},
		{"trimmed", "  Bambu  ", "bambu"},
		{"mixed", " Royal Blue", "royal blue"},
		{"sharp_s_folds", "Straße", "strasse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Name(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, normalize.Equal("PETG", "petg"))
	assert.True(t, normalize.Equal(" Sunlu", "SUNLU "))
	assert.False(t, normalize.Equal("PLA", "ABS"))
}
