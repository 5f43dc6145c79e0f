// Package lines holds the line and character range types shared by the diff,
// alignment and unchanged-region code. All line numbers are 1-based.
package lines

import "fmt"

// LineRange is the half-open interval [Start, EndExclusive) of 1-based line
// numbers. A zero-length range marks an insertion or deletion point.
type LineRange struct {
	Start        int
	EndExclusive int
}

// NewLineRange returns [start, endExclusive).
func NewLineRange(start, endExclusive int) LineRange {
	return LineRange{Start: start, EndExclusive: endExclusive}
}

// OfLength returns the range of length lines starting at start.
func OfLength(start, length int) LineRange {
	return LineRange{Start: start, EndExclusive: start + length}
}

// Len returns the number of lines in the range.
func (r LineRange) Len() int {
	return r.EndExclusive - r.Start
}

// IsEmpty reports whether the range has no lines.
func (r LineRange) IsEmpty() bool {
	return r.Start == r.EndExclusive
}

// Contains reports whether lineNumber lies inside the range.
func (r LineRange) Contains(lineNumber int) bool {
	return r.Start <= lineNumber && lineNumber < r.EndExclusive
}

// Inclusive returns the first and last line of a non-empty range.
// ok is false for empty ranges.
func (r LineRange) Inclusive() (first, last int, ok bool) {
	if r.IsEmpty() {
		return 0, 0, false
	}
	return r.Start, r.EndExclusive - 1, true
}

func (r LineRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.EndExclusive)
}

// Range is a character range inside a document. Lines and columns are
// 1-based; the end position is exclusive.
type Range struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.StartLine == r.EndLine && r.StartColumn == r.EndColumn
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d,%d:%d)", r.StartLine, r.StartColumn, r.EndLine, r.EndColumn)
}

// RangeMapping pairs a character range of the original document with the
// range it became in the modified document.
type RangeMapping struct {
	Original Range
	Modified Range
}

// LineRangeMapping is one contiguous changed region of a diff. Inner holds
// the optional character-level refinement.
type LineRangeMapping struct {
	Original LineRange
	Modified LineRange
	Inner    []RangeMapping
}

// NewLineRangeMapping builds a mapping without inner changes.
func NewLineRangeMapping(original, modified LineRange) LineRangeMapping {
	return LineRangeMapping{Original: original, Modified: modified}
}

func (m LineRangeMapping) String() string {
	return fmt.Sprintf("{%s -> %s}", m.Original, m.Modified)
}

// Inverse returns the unchanged spans between the given changes, which must
// be sorted and non-overlapping. Spans whose modified side is empty are
// omitted.
func Inverse(changes []LineRangeMapping, originalLineCount, modifiedLineCount int) []LineRangeMapping {
	var result []LineRangeMapping
	lastOriginalEnd := 1
	lastModifiedEnd := 1

	for _, c := range changes {
		m := NewLineRangeMapping(
			NewLineRange(lastOriginalEnd, c.Original.Start),
			NewLineRange(lastModifiedEnd, c.Modified.Start),
		)
		if !m.Modified.IsEmpty() {
			result = append(result, m)
		}
		lastOriginalEnd = c.Original.EndExclusive
		lastModifiedEnd = c.Modified.EndExclusive
	}

	m := NewLineRangeMapping(
		NewLineRange(lastOriginalEnd, originalLineCount+1),
		NewLineRange(lastModifiedEnd, modifiedLineCount+1),
	)
	if !m.Modified.IsEmpty() {
		result = append(result, m)
	}
	return result
}
