package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineRange(t *testing.T) {
	r := OfLength(5, 3)
	assert.Equal(t, NewLineRange(5, 8), r)
	assert.Equal(t, 3, r.Len())
	assert.False(t, r.IsEmpty())
	assert.True(t, r.Contains(5))
	assert.True(t, r.Contains(7))
	assert.False(t, r.Contains(8))
	assert.Equal(t, "[5,8)", r.String())

	first, last, ok := r.Inclusive()
	assert.True(t, ok)
	assert.Equal(t, 5, first)
	assert.Equal(t, 7, last)

	_, _, ok = OfLength(4, 0).Inclusive()
	assert.False(t, ok, "empty range has no inclusive form")
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name     string
		changes  []LineRangeMapping
		origLen  int
		modLen   int
		expected []LineRangeMapping
	}{
		{
			name:    "no changes covers whole document",
			origLen: 4,
			modLen:  4,
			expected: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(1, 5), NewLineRange(1, 5)),
			},
		},
		{
			name: "single replacement in the middle",
			changes: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(5, 6), NewLineRange(5, 7)),
			},
			origLen: 10,
			modLen:  11,
			expected: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(1, 5), NewLineRange(1, 5)),
				NewLineRangeMapping(NewLineRange(6, 11), NewLineRange(7, 12)),
			},
		},
		{
			name: "change at the top skips empty leading span",
			changes: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(1, 3), NewLineRange(1, 2)),
			},
			origLen: 5,
			modLen:  4,
			expected: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(3, 6), NewLineRange(2, 5)),
			},
		},
		{
			name: "change at the bottom skips empty trailing span",
			changes: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(4, 6), NewLineRange(4, 4)),
			},
			origLen: 5,
			modLen:  3,
			expected: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(1, 4), NewLineRange(1, 4)),
			},
		},
		{
			name: "adjacent changes produce no span between them",
			changes: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(2, 3), NewLineRange(2, 3)),
				NewLineRangeMapping(NewLineRange(3, 4), NewLineRange(3, 5)),
			},
			origLen: 4,
			modLen:  5,
			expected: []LineRangeMapping{
				NewLineRangeMapping(NewLineRange(1, 2), NewLineRange(1, 2)),
				NewLineRangeMapping(NewLineRange(4, 5), NewLineRange(5, 6)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Inverse(tt.changes, tt.origLen, tt.modLen))
		})
	}
}
