package diffmodel

import (
	"testing"

	"github.com/pstuifzand/sidediff/internal/lines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regionAnchor struct {
	orig, mod, length int
}

func anchors(rs []*UnchangedRegion) []regionAnchor {
	var out []regionAnchor
	for _, r := range rs {
		out = append(out, regionAnchor{r.OriginalLineNumber, r.ModifiedLineNumber, r.LineCount})
	}
	return out
}

func change(os, oe, ms, me int) lines.LineRangeMapping {
	return lines.NewLineRangeMapping(lines.NewLineRange(os, oe), lines.NewLineRange(ms, me))
}

func TestFromDiffs(t *testing.T) {
	tests := []struct {
		name      string
		changes   []lines.LineRangeMapping
		origCount int
		modCount  int
		want      []regionAnchor
	}{
		{
			name:      "small document collapses nothing",
			changes:   []lines.LineRangeMapping{change(5, 6, 5, 7)},
			origCount: 10,
			modCount:  12,
		},
		{
			name:      "long tail keeps leading context",
			changes:   []lines.LineRangeMapping{change(5, 6, 5, 7)},
			origCount: 30,
			modCount:  31,
			want:      []regionAnchor{{9, 10, 22}},
		},
		{
			name:      "change in the middle",
			changes:   []lines.LineRangeMapping{change(15, 16, 15, 17)},
			origCount: 30,
			modCount:  31,
			want:      []regionAnchor{{1, 1, 11}, {19, 20, 12}},
		},
		{
			name:      "interior span is trimmed on both sides",
			changes:   []lines.LineRangeMapping{change(2, 3, 2, 3), change(20, 21, 20, 21)},
			origCount: 21,
			modCount:  21,
			want:      []regionAnchor{{6, 6, 11}},
		},
		{
			name:      "interior span of exactly nine is kept visible",
			changes:   []lines.LineRangeMapping{change(1, 2, 1, 2), change(11, 12, 11, 12)},
			origCount: 11,
			modCount:  11,
		},
		{
			name:      "interior span of ten is collapsed",
			changes:   []lines.LineRangeMapping{change(1, 2, 1, 2), change(12, 13, 12, 13)},
			origCount: 12,
			modCount:  12,
			want:      []regionAnchor{{5, 5, 4}},
		},
		{
			name:      "top span of exactly six is kept visible",
			changes:   []lines.LineRangeMapping{change(7, 8, 7, 8)},
			origCount: 8,
			modCount:  8,
		},
		{
			name:      "identical documents",
			origCount: 20,
			modCount:  20,
			want:      []regionAnchor{{1, 1, 17}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDiffs(tt.changes, tt.origCount, tt.modCount)
			assert.Equal(t, tt.want, anchors(got))
			for _, r := range got {
				assert.Equal(t, 0, r.VisibleLineCountTop())
				assert.Equal(t, 0, r.VisibleLineCountBottom())
			}
		})
	}
}

func TestUnchangedRegionReveal(t *testing.T) {
	r := NewUnchangedRegion(10, 12, 25, 0, 0)
	assert.Equal(t, lines.NewLineRange(10, 35), r.HiddenOriginalRange())
	assert.Equal(t, lines.NewLineRange(12, 37), r.HiddenModifiedRange())

	r.ShowMoreAbove()
	assert.Equal(t, 10, r.VisibleLineCountTop())
	assert.Equal(t, lines.NewLineRange(20, 35), r.HiddenOriginalRange())

	r.ShowMoreBelow()
	assert.Equal(t, 10, r.VisibleLineCountBottom())
	assert.Equal(t, lines.NewLineRange(20, 25), r.HiddenOriginalRange())
	assert.Equal(t, lines.NewLineRange(22, 27), r.HiddenModifiedRange())

	r.ShowMoreAbove()
	assert.Equal(t, 15, r.VisibleLineCountTop(), "clamped by the bottom counter")
	assert.True(t, r.HiddenOriginalRange().IsEmpty())

	r.ShowMoreBelow()
	assert.Equal(t, 10, r.VisibleLineCountBottom())
}

func TestUnchangedRegionRevealNeverOverlaps(t *testing.T) {
	for n := 0; n <= 25; n++ {
		r := NewUnchangedRegion(1, 1, n, 0, 0)
		for i := 0; i < 4; i++ {
			if i%2 == 0 {
				r.ShowMoreAbove()
			} else {
				r.ShowMoreBelow()
			}
			require.LessOrEqual(t, r.VisibleLineCountTop()+r.VisibleLineCountBottom(), n)
			require.GreaterOrEqual(t, r.HiddenOriginalRange().Len(), 0)
		}

		r.ShowAll()
		assert.Equal(t, n, r.VisibleLineCountTop()+r.VisibleLineCountBottom())
		assert.True(t, r.HiddenModifiedRange().IsEmpty())
	}
}

func TestUnchangedRegionShowAllKeepsTop(t *testing.T) {
	r := NewUnchangedRegion(5, 5, 30, 0, 0)
	r.ShowMoreAbove()
	r.ShowAll()

	assert.Equal(t, 10, r.VisibleLineCountTop())
	assert.Equal(t, 20, r.VisibleLineCountBottom())
}

func TestUnchangedRegionChangedSignal(t *testing.T) {
	r := NewUnchangedRegion(1, 1, 20, 0, 0)
	calls := 0
	r.Changed().Subscribe(func() { calls++ })

	r.ShowMoreAbove()
	r.ShowAll()
	assert.Equal(t, 2, calls)
}
