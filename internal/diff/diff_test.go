package diff

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pstuifzand/sidediff/internal/lines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textLines []string

func (t textLines) Lines() []string { return t }

func numbered(n int) textLines {
	var out textLines
	for i := 1; i <= n; i++ {
		out = append(out, strings.Repeat("x", i))
	}
	return out
}

func compute(t *testing.T, p *LinesProvider, a, b textLines, opts Options) *Result {
	t.Helper()
	res, err := p.ComputeDiff(context.Background(), a, b, opts)
	require.NoError(t, err)
	return res
}

func TestComputeDiffLineChanges(t *testing.T) {
	tests := []struct {
		name     string
		original textLines
		modified textLines
		want     []lines.LineRangeMapping
	}{
		{
			name:     "identical",
			original: textLines{"a", "b"},
			modified: textLines{"a", "b"},
		},
		{
			name:     "one line replaced by two",
			original: textLines{"a", "b", "c", "d", "e", "f"},
			modified: textLines{"a", "b", "c", "d", "E1", "E2", "f"},
			want: []lines.LineRangeMapping{
				lines.NewLineRangeMapping(lines.NewLineRange(5, 6), lines.NewLineRange(5, 7)),
			},
		},
		{
			name:     "pure insertion",
			original: textLines{"a", "b"},
			modified: textLines{"a", "new", "b"},
			want: []lines.LineRangeMapping{
				lines.NewLineRangeMapping(lines.NewLineRange(2, 2), lines.NewLineRange(2, 3)),
			},
		},
		{
			name:     "pure deletion",
			original: textLines{"a", "gone", "b"},
			modified: textLines{"a", "b"},
			want: []lines.LineRangeMapping{
				lines.NewLineRangeMapping(lines.NewLineRange(2, 3), lines.NewLineRange(2, 2)),
			},
		},
		{
			name:     "two separate changes",
			original: textLines{"a", "b", "c", "d", "e"},
			modified: textLines{"A", "b", "c", "d", "E"},
			want: []lines.LineRangeMapping{
				lines.NewLineRangeMapping(lines.NewLineRange(1, 2), lines.NewLineRange(1, 2)),
				lines.NewLineRangeMapping(lines.NewLineRange(5, 6), lines.NewLineRange(5, 6)),
			},
		},
	}

	p := NewLinesProvider(AlgorithmLegacy)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compute(t, p, tt.original, tt.modified, Options{})
			assert.Equal(t, tt.want, res.Changes)
			assert.Equal(t, len(tt.want) == 0, res.Identical)
		})
	}
}

func TestComputeDiffIgnoreTrimWhitespace(t *testing.T) {
	p := NewLinesProvider(AlgorithmLegacy)
	a := textLines{"func f() {", "  return 1", "}"}
	b := textLines{"func f() {", "\treturn 1  ", "}"}

	assert.Len(t, compute(t, p, a, b, Options{}).Changes, 1)
	res := compute(t, p, a, b, Options{IgnoreTrimWhitespace: true})
	assert.True(t, res.Identical)
}

func TestComputeDiffInnerChanges(t *testing.T) {
	a := textLines{"same", "hello world", "same"}
	b := textLines{"same", "hello there world", "same"}

	res := compute(t, NewLinesProvider(AlgorithmAdvanced), a, b, Options{})
	require.Len(t, res.Changes, 1)
	c := res.Changes[0]
	assert.Equal(t, lines.NewLineRange(2, 3), c.Original)
	require.Len(t, c.Inner, 1)

	inner := c.Inner[0]
	assert.True(t, inner.Original.IsEmpty(), "nothing deleted from the original line")
	assert.Equal(t, 2, inner.Modified.StartLine)
	assert.Equal(t, 2, inner.Modified.EndLine)
	assert.Equal(t, len("there "), inner.Modified.EndColumn-inner.Modified.StartColumn)

	legacy := compute(t, NewLinesProvider(AlgorithmLegacy), a, b, Options{})
	assert.Nil(t, legacy.Changes[0].Inner)
}

func TestComputeDiffCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLinesProvider("").ComputeDiff(ctx, numbered(3), numbered(4), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCanceled))
}

func TestSetAlgorithmNotifiesOnlyOnChange(t *testing.T) {
	p := NewLinesProvider(AlgorithmAdvanced)
	calls := 0
	p.OnDidChange(func() { calls++ })

	p.SetAlgorithm(AlgorithmAdvanced)
	assert.Equal(t, 0, calls)
	p.SetAlgorithm(AlgorithmLegacy)
	assert.Equal(t, 1, calls)
	assert.Equal(t, AlgorithmLegacy, p.Algorithm())
}

func TestParseAlgorithm(t *testing.T) {
	a, ok := ParseAlgorithm("")
	assert.True(t, ok)
	assert.Equal(t, AlgorithmAdvanced, a)

	_, ok = ParseAlgorithm("patience")
	assert.False(t, ok)
}

func TestBuildDiffLines(t *testing.T) {
	a := textLines{"a", "b", "c"}
	b := textLines{"a", "B", "c", "d"}
	res := compute(t, NewLinesProvider(AlgorithmLegacy), a, b, Options{})

	out := FormatText(BuildDiffLines(res, a, b, "a.txt", "b.txt"))
	assert.Equal(t, "--- a.txt\n+++ b.txt\n"+
		"@@ -2 +2 @@\n-b\n+B\n"+
		"@@ -3,0 +4 @@\n+d\n"+
		"2 changes, 1 lines deleted, 2 lines added\n", out)

	same := compute(t, NewLinesProvider(AlgorithmLegacy), a, a, Options{})
	assert.Contains(t, FormatText(BuildDiffLines(same, a, a, "a", "a")), "identical")
}
