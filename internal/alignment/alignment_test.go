package alignment

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/pstuifzand/sidediff/internal/lines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func change(os, oe, ms, me int) lines.LineRangeMapping {
	return lines.NewLineRangeMapping(lines.NewLineRange(os, oe), lines.NewLineRange(ms, me))
}

func align(os, oe, ms, me, oh, mh int) RangeAlignment {
	return RangeAlignment{
		Original:       lines.NewLineRange(os, oe),
		Modified:       lines.NewLineRange(ms, me),
		OriginalHeight: oh,
		ModifiedHeight: mh,
	}
}

// assertPartition checks that alignments cover both documents exactly once
// and in order.
func assertPartition(t *testing.T, as []RangeAlignment, origLineCount, modLineCount int) {
	t.Helper()
	nextOrig, nextMod := 1, 1
	for i, a := range as {
		assert.Equal(t, nextOrig, a.Original.Start, "entry %d original start", i)
		assert.Equal(t, nextMod, a.Modified.Start, "entry %d modified start", i)
		assert.GreaterOrEqual(t, a.Original.Len(), 0)
		assert.GreaterOrEqual(t, a.Modified.Len(), 0)
		nextOrig = a.Original.EndExclusive
		nextMod = a.Modified.EndExclusive
	}
	assert.Equal(t, origLineCount+1, nextOrig, "original coverage end")
	assert.Equal(t, modLineCount+1, nextMod, "modified coverage end")
}

func TestComputeSingleReplacement(t *testing.T) {
	got := Compute([]lines.LineRangeMapping{change(5, 6, 5, 7)}, nil, nil, 10, 12)

	assert.Equal(t, []RangeAlignment{
		align(1, 5, 1, 5, 4, 4),
		align(5, 6, 5, 7, 1, 2),
		align(6, 11, 7, 13, 5, 5),
	}, got)
}

func TestComputeNoChanges(t *testing.T) {
	got := Compute(nil, nil, nil, 3, 3)
	assert.Equal(t, []RangeAlignment{align(1, 4, 1, 4, 3, 3)}, got)

	assert.Empty(t, Compute(nil, nil, nil, 0, 0))
}

func TestComputeUnpairedOverride(t *testing.T) {
	// Line 3 of the original wraps onto two extra rows; the modified pane
	// gets a zero-height partner at the same line.
	orig := []HeightInfo{{LineNumber: 3, HeightInLines: 2}}
	got := Compute(nil, orig, nil, 5, 5)

	assert.Equal(t, []RangeAlignment{
		align(1, 3, 1, 3, 2, 2),
		align(3, 4, 3, 4, 3, 1),
		align(4, 6, 4, 6, 2, 2),
	}, got)
	assertPartition(t, got, 5, 5)
}

func TestComputePairedOverrides(t *testing.T) {
	orig := []HeightInfo{{LineNumber: 2, HeightInLines: 1}}
	mod := []HeightInfo{{LineNumber: 2, HeightInLines: 3}}
	got := Compute(nil, orig, mod, 4, 4)

	assert.Equal(t, []RangeAlignment{
		align(1, 2, 1, 2, 1, 1),
		align(2, 3, 2, 3, 2, 4),
		align(3, 5, 3, 5, 2, 2),
	}, got)
}

func TestComputeOverridesRelativeToPreviousChange(t *testing.T) {
	// After the change the modified document is two lines ahead, so the
	// original's line 6 and the modified's line 8 sit at the same offset.
	changes := []lines.LineRangeMapping{change(2, 3, 2, 5)}
	orig := []HeightInfo{{LineNumber: 6, HeightInLines: 1}}
	mod := []HeightInfo{{LineNumber: 5, HeightInLines: 1}, {LineNumber: 8, HeightInLines: 2}}
	got := Compute(changes, orig, mod, 8, 10)

	assert.Equal(t, []RangeAlignment{
		align(1, 2, 1, 2, 1, 1),
		align(2, 3, 2, 5, 1, 3),
		align(3, 4, 5, 6, 1, 2),
		align(4, 6, 6, 8, 2, 2),
		align(6, 7, 8, 9, 2, 3),
		align(7, 9, 9, 11, 2, 2),
	}, got)
	assertPartition(t, got, 8, 10)
}

func TestComputeOverridesInsideChange(t *testing.T) {
	changes := []lines.LineRangeMapping{change(2, 4, 2, 3)}
	orig := []HeightInfo{{LineNumber: 2, HeightInLines: 1}, {LineNumber: 3, HeightInLines: 2}}
	mod := []HeightInfo{{LineNumber: 2, HeightInLines: 4}}
	got := Compute(changes, orig, mod, 5, 4)

	require.Len(t, got, 3)
	assert.Equal(t, align(2, 4, 2, 3, 5, 5), got[1])
	assertPartition(t, got, 5, 4)
}

func TestComputePureInsertion(t *testing.T) {
	changes := []lines.LineRangeMapping{change(3, 3, 3, 5)}
	got := Compute(changes, nil, nil, 4, 6)

	assert.Equal(t, []RangeAlignment{
		align(1, 3, 1, 3, 2, 2),
		align(3, 3, 3, 5, 0, 2),
		align(3, 5, 5, 7, 2, 2),
	}, got)
}

func TestComputePartitionProperty(t *testing.T) {
	tests := []struct {
		name        string
		changes     []lines.LineRangeMapping
		orig, mod   []HeightInfo
		origN, modN int
	}{
		{
			name:    "changes at both ends",
			changes: []lines.LineRangeMapping{change(1, 2, 1, 1), change(9, 11, 8, 12)},
			orig:    []HeightInfo{{1, 2}, {4, 1}, {10, 3}},
			mod:     []HeightInfo{{3, 1}, {4, 1}, {11, 1}},
			origN:   10,
			modN:    11,
		},
		{
			name:    "dense overrides",
			changes: []lines.LineRangeMapping{change(4, 5, 4, 4)},
			orig:    []HeightInfo{{1, 1}, {2, 1}, {3, 1}, {5, 1}, {6, 1}},
			mod:     []HeightInfo{{2, 5}, {4, 1}, {5, 2}},
			origN:   6,
			modN:    5,
		},
		{
			name:  "overrides on the last line",
			orig:  []HeightInfo{{7, 1}},
			mod:   []HeightInfo{{7, 4}},
			origN: 7,
			modN:  7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.changes, tt.orig, tt.mod, tt.origN, tt.modN)
			assertPartition(t, got, tt.origN, tt.modN)

			for _, a := range got {
				assert.GreaterOrEqual(t, a.OriginalHeight, a.Original.Len())
				assert.GreaterOrEqual(t, a.ModifiedHeight, a.Modified.Len())
			}
		})
	}
}

// randomDiff builds a well-formed diff: unchanged gaps have the same length
// on both sides and changes are separated by at least one unchanged line.
func randomDiff(r *rand.Rand) (changes []lines.LineRangeMapping, origN, modN int) {
	o, m := 1, 1
	for i, n := 0, r.Intn(5); i < n; i++ {
		gap := r.Intn(5)
		if i > 0 {
			gap++
		}
		o += gap
		m += gap
		lo, lm := r.Intn(4), r.Intn(4)
		if lo == 0 && lm == 0 {
			lm = 1
		}
		changes = append(changes, change(o, o+lo, m, m+lm))
		o += lo
		m += lm
	}
	tail := r.Intn(6)
	return changes, o - 1 + tail, m - 1 + tail
}

// randomHeights gives a random subset of [1, n] extra height.
func randomHeights(r *rand.Rand, n int) (hs []HeightInfo, total int) {
	for line := 1; line <= n; line++ {
		if r.Intn(3) == 0 {
			h := 1 + r.Intn(3)
			hs = append(hs, HeightInfo{LineNumber: line, HeightInLines: h})
			total += h
		}
	}
	return hs, total
}

func TestComputePartitionPropertyRandomized(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		changes, origN, modN := randomDiff(r)
		orig, origExtra := randomHeights(r, origN)
		mod, modExtra := randomHeights(r, modN)

		got := Compute(changes, orig, mod, origN, modN)
		desc := fmt.Sprintf("case %d: changes=%v orig=%v mod=%v n=%d/%d", i, changes, orig, mod, origN, modN)

		if !t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			assertPartition(t, got, origN, modN)
			origHeight, modHeight := 0, 0
			for _, a := range got {
				origHeight += a.OriginalHeight
				modHeight += a.ModifiedHeight
			}
			assert.Equal(t, origN+origExtra, origHeight, desc)
			assert.Equal(t, modN+modExtra, modHeight, desc)
		}) {
			return
		}
	}
}

type fakePane struct {
	lineCount int
	wrapping  bool
	viewLines map[int]int
	zones     []Whitespace
}

func (p fakePane) LineCount() int            { return p.lineCount }
func (p fakePane) WrappingEnabled() bool     { return p.wrapping }
func (p fakePane) Whitespaces() []Whitespace { return p.zones }
func (p fakePane) ViewLineCount(lineNumber int) int {
	if n, ok := p.viewLines[lineNumber]; ok {
		return n
	}
	return 1
}

func TestAdditionalLineHeights(t *testing.T) {
	p := fakePane{
		lineCount: 10,
		wrapping:  true,
		viewLines: map[int]int{2: 3, 5: 2},
		zones: []Whitespace{
			{ID: "a", AfterLineNumber: 5, HeightInLines: 1},
			{ID: "own", AfterLineNumber: 7, HeightInLines: 9},
			{ID: "b", AfterLineNumber: 0, HeightInLines: 2},
			{ID: "c", AfterLineNumber: 5, HeightInLines: 2},
		},
	}

	got := AdditionalLineHeights(p, func(id string) bool { return id == "own" })
	assert.Equal(t, []HeightInfo{
		{LineNumber: 1, HeightInLines: 2},
		{LineNumber: 2, HeightInLines: 2},
		{LineNumber: 5, HeightInLines: 4},
	}, got)
}

func TestAdditionalLineHeightsWrappingDisabled(t *testing.T) {
	p := fakePane{lineCount: 3, viewLines: map[int]int{1: 5}}
	assert.Empty(t, AdditionalLineHeights(p, nil))
}

func TestComputeForPanes(t *testing.T) {
	orig := fakePane{lineCount: 4, wrapping: true, viewLines: map[int]int{4: 2}}
	mod := fakePane{lineCount: 4, zones: []Whitespace{{ID: "x", AfterLineNumber: 2, HeightInLines: 1}}}

	got := ComputeForPanes(orig, mod, nil, nil, nil)
	assert.Equal(t, []RangeAlignment{
		align(1, 2, 1, 2, 1, 1),
		align(2, 3, 2, 3, 1, 2),
		align(3, 4, 3, 4, 1, 1),
		align(4, 5, 4, 5, 2, 1),
	}, got)
}

func TestFillers(t *testing.T) {
	as := []RangeAlignment{
		align(1, 5, 1, 5, 4, 4),
		align(5, 6, 5, 7, 1, 2),
		align(6, 8, 7, 8, 2, 1),
		align(8, 8, 8, 10, 0, 2),
	}

	orig, mod := Fillers(as)
	assert.Equal(t, []Filler{
		{AfterLineNumber: 5, HeightInLines: 1},
		{AfterLineNumber: 7, HeightInLines: 2},
	}, orig)
	assert.Equal(t, []Filler{{AfterLineNumber: 7, HeightInLines: 1}}, mod)
}
