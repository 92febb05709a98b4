package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCsvLine(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		expected string
	}{
		{
			name:     "plain fields are joined unquoted",
			fields:   []string{"nginx:1.25", "42", "Critical"},
			expected: "nginx:1.25,42,Critical",
		},
		{
			name:     "field with comma is quoted",
			fields:   []string{"default,web", "ok"},
			expected: "\"default,web\",ok",
		},
		{
			name:     "inner quotes are doubled",
			fields:   []string{`say "hi"`},
			expected: `"say ""hi"""`,
		},
		{
			name:     "empty fields survive",
			fields:   []string{"", "", "x"},
			expected: ",,x",
		},
		{
			name:     "no fields yields empty line",
			fields:   nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildCsvLine(tt.fields))
		})
	}
}
