package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	line   int
	height int
}

func byLine(e entry) int { return e.line }

func sum(a, b entry) entry { return entry{line: a.line, height: a.height + b.height} }

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		a    []entry
		b    []entry
		want []entry
	}{
		{
			name: "disjoint interleave",
			a:    []entry{{1, 1}, {5, 2}},
			b:    []entry{{3, 4}, {7, 1}},
			want: []entry{{1, 1}, {3, 4}, {5, 2}, {7, 1}},
		},
		{
			name: "equal keys combined",
			a:    []entry{{2, 1}, {4, 1}},
			b:    []entry{{2, 3}, {4, 2}, {9, 1}},
			want: []entry{{2, 4}, {4, 3}, {9, 1}},
		},
		{
			name: "a exhausted first",
			a:    []entry{{1, 1}},
			b:    []entry{{2, 1}, {3, 1}},
			want: []entry{{1, 1}, {2, 1}, {3, 1}},
		},
		{
			name: "b exhausted first",
			a:    []entry{{2, 1}, {3, 1}},
			b:    []entry{{1, 1}},
			want: []entry{{1, 1}, {2, 1}, {3, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.a, tt.b, byLine, sum))
		})
	}
}

func TestCombineEmptyInputIsIdentity(t *testing.T) {
	a := []entry{{1, 2}, {3, 4}}

	got := Combine(a, nil, byLine, sum)
	assert.Equal(t, a, got)
	assert.Same(t, &a[0], &got[0], "non-empty side should be returned without copying")

	got = Combine(nil, a, byLine, sum)
	assert.Same(t, &a[0], &got[0])

	assert.Empty(t, Combine[entry](nil, nil, byLine, sum))
}
