// Package decorations derives the highlight ranges of both panes from a diff.
package decorations

import (
	"github.com/pstuifzand/sidediff/internal/lines"
)

// Kind is the highlight style of a decoration
type Kind int

const (
	// LineDelete marks whole lines removed from the original.
	LineDelete Kind = iota
	// LineAdd marks whole lines added in the modified document.
	LineAdd
	// InnerDelete marks the removed characters inside a changed line.
	InnerDelete
	// InnerAdd marks the added characters inside a changed line.
	InnerAdd
)

func (k Kind) String() string {
	switch k {
	case LineDelete:
		return "line-delete"
	case LineAdd:
		return "line-add"
	case InnerDelete:
		return "inner-delete"
	case InnerAdd:
		return "inner-add"
	}
	return "unknown"
}

// Decoration highlights a range of one document
type Decoration struct {
	Kind  Kind
	Range lines.Range
}

// Compute returns the decorations of the original and the modified pane.
// Whole-line decorations have EndColumn 0, meaning they run to the end of
// their last line.
func Compute(changes []lines.LineRangeMapping) (original, modified []Decoration) {
	for _, c := range changes {
		if first, last, ok := c.Original.Inclusive(); ok {
			original = append(original, Decoration{Kind: LineDelete, Range: fullLines(first, last)})
		}
		if first, last, ok := c.Modified.Inclusive(); ok {
			modified = append(modified, Decoration{Kind: LineAdd, Range: fullLines(first, last)})
		}
		for _, inner := range c.Inner {
			original = append(original, Decoration{Kind: InnerDelete, Range: inner.Original})
			modified = append(modified, Decoration{Kind: InnerAdd, Range: inner.Modified})
		}
	}
	return original, modified
}

func fullLines(first, last int) lines.Range {
	return lines.Range{StartLine: first, StartColumn: 1, EndLine: last, EndColumn: 0}
}

// Index answers per-position lookups for one pane
type Index struct {
	lineKind map[int]Kind
	inner    []Decoration
}

// NewIndex builds an index over decorations
func NewIndex(decorations []Decoration) *Index {
	idx := &Index{lineKind: make(map[int]Kind)}
	for _, d := range decorations {
		switch d.Kind {
		case LineDelete, LineAdd:
			for l := d.Range.StartLine; l <= d.Range.EndLine; l++ {
				idx.lineKind[l] = d.Kind
			}
		default:
			idx.inner = append(idx.inner, d)
		}
	}
	return idx
}

// LineKind returns the whole-line decoration of lineNumber, if any
func (idx *Index) LineKind(lineNumber int) (Kind, bool) {
	k, ok := idx.lineKind[lineNumber]
	return k, ok
}

// InnerAt reports whether the character at the 1-based line and column is
// inside an inner-change decoration.
func (idx *Index) InnerAt(lineNumber, column int) (Kind, bool) {
	for _, d := range idx.inner {
		if contains(d.Range, lineNumber, column) {
			return d.Kind, true
		}
	}
	return 0, false
}

func contains(r lines.Range, line, column int) bool {
	if line < r.StartLine || line > r.EndLine {
		return false
	}
	if line == r.StartLine && column < r.StartColumn {
		return false
	}
	if line == r.EndLine && column >= r.EndColumn {
		return false
	}
	return true
}
