// Package wrap measures display width and breaks document lines into view
// lines. All widths are screen columns, not bytes.
package wrap

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultTabSize is the number of columns a tab expands to
const DefaultTabSize = 4

// RuneWidth returns the display width of a single rune
// Control and combining characters are 0 columns.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth returns the display width of a string, measured per grapheme
// cluster so emoji sequences and combining marks count once.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// ExpandTabs replaces tabs with spaces up to the next tab stop.
func ExpandTabs(s string, tabSize int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabSize - col%tabSize
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += RuneWidth(r)
	}
	return b.String()
}

// ColumnMap returns, for each rune of ExpandTabs(s, tabSize), the 1-based
// rune column of s it came from.
func ColumnMap(s string, tabSize int) []int {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	var cols []int
	width := 0
	column := 1
	for _, r := range s {
		n := 1
		if r == '\t' {
			n = tabSize - width%tabSize
			width += n
		} else {
			width += RuneWidth(r)
		}
		for i := 0; i < n; i++ {
			cols = append(cols, column)
		}
		column++
	}
	return cols
}

// TruncateToWidth cuts s so it fits in maxWidth columns without splitting a
// grapheme cluster.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if width+w > maxWidth {
			from, _ := g.Positions()
			return s[:from]
		}
		width += w
	}
	return s
}

// PadToWidth pads s with spaces to exactly width columns, truncating if it
// is wider.
func PadToWidth(s string, width int) string {
	s = TruncateToWidth(s, width)
	if w := StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// CalculateBreakPoint finds where to break s for wrapping at maxWidth.
// Returns the byte index to break at and the width of s[:byteIndex].
// A break after whitespace is preferred over one inside a word. At least
// one grapheme is always consumed so wrapping makes progress.
func CalculateBreakPoint(s string, maxWidth int) (byteIndex int, actualWidth int) {
	if maxWidth <= 0 {
		return 0, 0
	}

	width := 0
	lastSpaceEnd, lastSpaceWidth := -1, 0

	g := uniseg.NewGraphemes(s)
	for g.Next() {
		from, to := g.Positions()
		w := g.Width()

		if width+w > maxWidth {
			if lastSpaceEnd > 0 {
				return lastSpaceEnd, lastSpaceWidth
			}
			if from == 0 {
				// A single grapheme wider than the view still gets its own row.
				return to, w
			}
			return from, width
		}

		width += w
		if str := g.Str(); str == " " || str == "\t" {
			lastSpaceEnd, lastSpaceWidth = to, width
		}
	}

	return len(s), width
}

// WrapLine splits a line into the segments it occupies when rendered at
// width columns. An empty line occupies one empty segment.
func WrapLine(s string, width int) []string {
	if width <= 0 || StringWidth(s) <= width {
		return []string{s}
	}

	var segments []string
	for len(s) > 0 {
		idx, _ := CalculateBreakPoint(s, width)
		segments = append(segments, s[:idx])
		s = s[idx:]
	}
	return segments
}

// LineCount returns how many view lines s occupies at width columns.
// A non-positive width means wrapping is off.
func LineCount(s string, width int) int {
	if width <= 0 {
		return 1
	}
	return len(WrapLine(s, width))
}
