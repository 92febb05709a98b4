package dtos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	t.Run("ranks are totally ordered", func(t *testing.T) {
		assert.Equal(t, 5, SeverityCritical.Rank())
		assert.Equal(t, 4, SeverityHigh.Rank())
		assert.Equal(t, 4, SeverityMajor.Rank())
		assert.Equal(t, 3, SeverityMedium.Rank())
		assert.Equal(t, 2, SeverityLow.Rank())
		assert.Equal(t, 1, SeverityNegligible.Rank())
	})

	t.Run("unknown labels rank zero", func(t *testing.T) {
		assert.Equal(t, 0, Severity("Unknown").Rank())
		assert.Equal(t, 0, Severity("").Rank())
	})

	t.Run("major and high share a rank", func(t *testing.T) {
		assert.Equal(t, SeverityHigh.Rank(), SeverityMajor.Rank())
	})
}

func TestExpandSeverityAliases(t *testing.T) {
	tests := []struct {
		name     string
		input    []Severity
		expected []Severity
	}{
		{
			name:     "empty filter stays empty",
			input:    nil,
			expected: nil,
		},
		{
			name:     "major pulls in high",
			input:    []Severity{SeverityMajor},
			expected: []Severity{SeverityMajor, SeverityHigh},
		},
		{
			name:     "high pulls in major",
			input:    []Severity{SeverityHigh},
			expected: []Severity{SeverityHigh, SeverityMajor},
		},
		{
			name:     "both present stays both without duplicates",
			input:    []Severity{SeverityMajor, SeverityHigh},
			expected: []Severity{SeverityMajor, SeverityHigh},
		},
		{
			name:     "unrelated labels pass through",
			input:    []Severity{SeverityCritical, SeverityLow},
			expected: []Severity{SeverityCritical, SeverityLow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandSeverityAliases(tt.input))
		})
	}
}

func TestMatchesSeverityFilter(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		assert.True(t, MatchesSeverityFilter(SeverityCritical, nil))
		assert.True(t, MatchesSeverityFilter(Severity("Unknown"), nil))
	})

	t.Run("alias holds both directions", func(t *testing.T) {
		assert.True(t, MatchesSeverityFilter(SeverityHigh, []Severity{SeverityMajor}))
		assert.True(t, MatchesSeverityFilter(SeverityMajor, []Severity{SeverityHigh}))
	})

	t.Run("non matching severity is rejected", func(t *testing.T) {
		assert.False(t, MatchesSeverityFilter(SeverityLow, []Severity{SeverityCritical}))
	})

	t.Run("unknown stored label only matches itself", func(t *testing.T) {
		assert.False(t, MatchesSeverityFilter(Severity("Weird"), []Severity{SeverityCritical}))
		assert.True(t, MatchesSeverityFilter(Severity("Weird"), []Severity{Severity("Weird")}))
	})
}

func TestWorstSeverityRank(t *testing.T) {
	t.Run("empty slice is clean", func(t *testing.T) {
		assert.Equal(t, RatingClean, WorstSeverityRank(nil))
	})

	t.Run("worst wins", func(t *testing.T) {
		assert.Equal(t, 5, WorstSeverityRank([]Severity{SeverityLow, SeverityCritical, SeverityMedium}))
		assert.Equal(t, 4, WorstSeverityRank([]Severity{SeverityHigh, SeverityNegligible}))
	})

	t.Run("unrecognized severities do not raise the rating", func(t *testing.T) {
		assert.Equal(t, 2, WorstSeverityRank([]Severity{Severity("Unknown"), SeverityLow}))
	})
}
