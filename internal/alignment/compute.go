package alignment

import (
	"fmt"
	"math"

	"github.com/pstuifzand/sidediff/internal/lines"
)

// RangeAlignment pairs a range of the original document with a range of the
// modified document and the rows each occupies, including wrap rows and
// foreign fillers.
type RangeAlignment struct {
	Original       lines.LineRange
	Modified       lines.LineRange
	OriginalHeight int
	ModifiedHeight int
}

func (a RangeAlignment) String() string {
	return fmt.Sprintf("{%s,%s,%d,%d}", a.Original, a.Modified, a.OriginalHeight, a.ModifiedHeight)
}

// Delta is how many rows the modified side is taller than the original side.
func (a RangeAlignment) Delta() int {
	return a.ModifiedHeight - a.OriginalHeight
}

// Compute aligns the documents described by changes. origHeights and
// modHeights must be sorted by line with one entry per line, and changes
// must be sorted and non-overlapping.
//
// The result partitions [1, origLineCount+1) and [1, modLineCount+1): each
// change is one entry, every line outside a change that carries extra
// height in either pane becomes a one-line entry paired with the line at
// the same offset in the other pane, and the remaining unchanged gaps are
// emitted with heights equal to their lengths.
func Compute(changes []lines.LineRangeMapping, origHeights, modHeights []HeightInfo, origLineCount, modLineCount int) []RangeAlignment {
	c := computer{orig: origHeights, mod: modHeights, nextOrig: 1, nextMod: 1}

	for _, ch := range changes {
		c.alignOutsideOfChanges(ch.Original.Start, ch.Modified.Start)
		c.emitGap(ch.Original.Start, ch.Modified.Start)

		origExtra := c.takeOrig(ch.Original.EndExclusive)
		modExtra := c.takeMod(ch.Modified.EndExclusive)
		c.emit(RangeAlignment{
			Original:       ch.Original,
			Modified:       ch.Modified,
			OriginalHeight: ch.Original.Len() + origExtra,
			ModifiedHeight: ch.Modified.Len() + modExtra,
		})

		c.lastOrig = ch.Original.EndExclusive
		c.lastMod = ch.Modified.EndExclusive
	}

	c.alignOutsideOfChanges(math.MaxInt, math.MaxInt)
	c.emitGap(origLineCount+1, modLineCount+1)

	return c.result
}

// computer holds the scan state. lastOrig/lastMod are the exclusive ends of
// the previous change (0 before the first) and anchor the distance of
// outside overrides. nextOrig/nextMod are the first lines not yet emitted.
type computer struct {
	orig, mod []HeightInfo
	oi, mi    int

	lastOrig, lastMod int
	nextOrig, nextMod int

	result []RangeAlignment
}

// alignOutsideOfChanges emits one-line entries for the height overrides
// before the given lines. The override closer to its own cursor goes first
// and gets a zero-height partner at the same offset in the other pane;
// overrides at equal offsets are paired.
func (c *computer) alignOutsideOfChanges(untilOrig, untilMod int) {
	for {
		origNext, hasOrig := c.peek(c.orig, c.oi, untilOrig)
		modNext, hasMod := c.peek(c.mod, c.mi, untilMod)
		if !hasOrig && !hasMod {
			return
		}

		distOrig, distMod := math.MaxInt, math.MaxInt
		if hasOrig {
			distOrig = origNext.LineNumber - c.lastOrig
		}
		if hasMod {
			distMod = modNext.LineNumber - c.lastMod
		}

		switch {
		case distOrig < distMod:
			c.oi++
			modNext = HeightInfo{LineNumber: distOrig + c.lastMod}
		case distOrig > distMod:
			c.mi++
			origNext = HeightInfo{LineNumber: distMod + c.lastOrig}
		default:
			c.oi++
			c.mi++
		}

		c.emitGap(origNext.LineNumber, modNext.LineNumber)
		c.emit(RangeAlignment{
			Original:       lines.OfLength(origNext.LineNumber, 1),
			Modified:       lines.OfLength(modNext.LineNumber, 1),
			OriginalHeight: 1 + origNext.HeightInLines,
			ModifiedHeight: 1 + modNext.HeightInLines,
		})
	}
}

func (c *computer) peek(hs []HeightInfo, i, until int) (HeightInfo, bool) {
	if i >= len(hs) || hs[i].LineNumber >= until {
		return HeightInfo{}, false
	}
	return hs[i], true
}

// takeOrig consumes the original overrides before end and returns their sum.
func (c *computer) takeOrig(end int) int {
	sum := 0
	for ; c.oi < len(c.orig) && c.orig[c.oi].LineNumber < end; c.oi++ {
		sum += c.orig[c.oi].HeightInLines
	}
	return sum
}

func (c *computer) takeMod(end int) int {
	sum := 0
	for ; c.mi < len(c.mod) && c.mod[c.mi].LineNumber < end; c.mi++ {
		sum += c.mod[c.mi].HeightInLines
	}
	return sum
}

// emitGap covers the unchanged lines between the emitted cursors and the
// given lines with a plain entry.
func (c *computer) emitGap(origEnd, modEnd int) {
	if origEnd <= c.nextOrig && modEnd <= c.nextMod {
		return
	}
	o := lines.NewLineRange(c.nextOrig, max(origEnd, c.nextOrig))
	m := lines.NewLineRange(c.nextMod, max(modEnd, c.nextMod))
	c.emit(RangeAlignment{
		Original:       o,
		Modified:       m,
		OriginalHeight: o.Len(),
		ModifiedHeight: m.Len(),
	})
}

func (c *computer) emit(a RangeAlignment) {
	c.result = append(c.result, a)
	c.nextOrig = a.Original.EndExclusive
	c.nextMod = a.Modified.EndExclusive
}

// ComputeForPanes reads the extra heights of both panes and aligns them
// against changes. isOrigAlignmentZone and isModAlignmentZone identify the
// fillers a previous alignment inserted, so they do not feed back in.
func ComputeForPanes(orig, mod Pane, changes []lines.LineRangeMapping, isOrigAlignmentZone, isModAlignmentZone func(id string) bool) []RangeAlignment {
	return Compute(
		changes,
		AdditionalLineHeights(orig, isOrigAlignmentZone),
		AdditionalLineHeights(mod, isModAlignmentZone),
		orig.LineCount(),
		mod.LineCount(),
	)
}

// Filler is a block of blank rows to insert after a line of one pane.
type Filler struct {
	AfterLineNumber int
	HeightInLines   int
}

// Fillers returns the blank rows that make both panes equally tall at the
// end of every alignment. The shorter side of each entry gets the difference.
func Fillers(alignments []RangeAlignment) (original, modified []Filler) {
	for _, a := range alignments {
		delta := a.Delta()
		switch {
		case delta > 0:
			original = append(original, Filler{AfterLineNumber: a.Original.EndExclusive - 1, HeightInLines: delta})
		case delta < 0:
			modified = append(modified, Filler{AfterLineNumber: a.Modified.EndExclusive - 1, HeightInLines: -delta})
		}
	}
	return original, modified
}
