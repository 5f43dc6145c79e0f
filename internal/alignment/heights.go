// Package alignment computes how two panes of a side-by-side diff line up.
//
// Each pane reports extra height per line (soft-wrap rows and foreign
// fillers). Compute walks the diff together with both height lists and
// returns a partition of both documents into aligned ranges. Fillers turns
// that partition into the blank rows each pane needs.
package alignment

import (
	"sort"

	"github.com/pstuifzand/sidediff/internal/join"
)

// HeightInfo is extra vertical space attributed to one line, in rows.
type HeightInfo struct {
	LineNumber    int
	HeightInLines int
}

// Whitespace is a vertical filler region registered in a pane
type Whitespace struct {
	ID string
	// AfterLineNumber is the line the filler follows; 0 means above line 1.
	AfterLineNumber int
	HeightInLines   int
}

// Pane is the read side of a rendering pane
type Pane interface {
	LineCount() int
	WrappingEnabled() bool
	// ViewLineCount returns how many rows the line occupies when rendered.
	ViewLineCount(lineNumber int) int
	Whitespaces() []Whitespace
}

// AdditionalLineHeights returns the extra height of every line of p that has
// any, sorted by line number. Fillers for which ignore returns true are
// skipped; the caller uses this to leave out fillers it inserted itself.
func AdditionalLineHeights(p Pane, ignore func(id string) bool) []HeightInfo {
	lineCount := p.LineCount()

	var wrapping []HeightInfo
	if p.WrappingEnabled() {
		for i := 1; i <= lineCount; i++ {
			if n := p.ViewLineCount(i); n > 1 {
				wrapping = append(wrapping, HeightInfo{LineNumber: i, HeightInLines: n - 1})
			}
		}
	}

	var zones []HeightInfo
	for _, w := range p.Whitespaces() {
		if ignore != nil && ignore(w.ID) {
			continue
		}
		line := w.AfterLineNumber
		if line < 1 {
			line = 1
		}
		if lineCount > 0 && line > lineCount {
			line = lineCount
		}
		zones = append(zones, HeightInfo{LineNumber: line, HeightInLines: w.HeightInLines})
	}
	zones = sumByLine(zones)

	return join.Combine(zones, wrapping,
		func(h HeightInfo) int { return h.LineNumber },
		func(a, b HeightInfo) HeightInfo {
			return HeightInfo{LineNumber: a.LineNumber, HeightInLines: a.HeightInLines + b.HeightInLines}
		},
	)
}

// sumByLine sorts hs by line and folds entries on the same line together.
func sumByLine(hs []HeightInfo) []HeightInfo {
	if len(hs) < 2 {
		return hs
	}
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].LineNumber < hs[j].LineNumber })

	out := hs[:1]
	for _, h := range hs[1:] {
		last := &out[len(out)-1]
		if last.LineNumber == h.LineNumber {
			last.HeightInLines += h.HeightInLines
			continue
		}
		out = append(out, h)
	}
	return out
}
