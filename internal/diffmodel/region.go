package diffmodel

import (
	"fmt"

	"github.com/pstuifzand/sidediff/internal/lines"
	"github.com/pstuifzand/sidediff/internal/observable"
)

const (
	// MinContext is the number of unchanged lines kept visible next to a change.
	MinContext = 3
	// MinHiddenLineCount is the smallest span worth collapsing.
	MinHiddenLineCount = 3
	// RevealStep is how many lines ShowMoreAbove and ShowMoreBelow reveal.
	RevealStep = 10
)

// UnchangedRegion is a span that is identical in both documents and can be
// collapsed. The visible counters say how many of its lines are revealed
// from the top and from the bottom; their sum never exceeds LineCount.
type UnchangedRegion struct {
	OriginalLineNumber int
	ModifiedLineNumber int
	LineCount          int

	visibleTop    *observable.Value[int]
	visibleBottom *observable.Value[int]
	changed       *observable.Signal
}

// NewUnchangedRegion creates a region with the given revealed counts.
func NewUnchangedRegion(originalLineNumber, modifiedLineNumber, lineCount, visibleTop, visibleBottom int) *UnchangedRegion {
	r := &UnchangedRegion{
		OriginalLineNumber: originalLineNumber,
		ModifiedLineNumber: modifiedLineNumber,
		LineCount:          lineCount,
		visibleTop:         observable.NewValue(visibleTop),
		visibleBottom:      observable.NewValue(visibleBottom),
		changed:            observable.NewSignal(),
	}
	r.visibleTop.Subscribe(func() { r.changed.Trigger(nil) })
	r.visibleBottom.Subscribe(func() { r.changed.Trigger(nil) })
	return r
}

// FromDiffs returns the collapsible regions between changes. Spans at the
// top keep MinContext lines before the first change, spans at the bottom
// keep MinContext lines after the last change, interior spans keep
// MinContext lines on both sides. Spans not longer than the context plus
// MinHiddenLineCount are left out and stay fully visible.
func FromDiffs(changes []lines.LineRangeMapping, originalLineCount, modifiedLineCount int) []*UnchangedRegion {
	var result []*UnchangedRegion

	for _, m := range lines.Inverse(changes, originalLineCount, modifiedLineCount) {
		origStart := m.Original.Start
		modStart := m.Modified.Start
		length := m.Original.Len()

		switch {
		case origStart == 1 && length > MinContext+MinHiddenLineCount:
			length -= MinContext
		case origStart+length == originalLineCount+1 && length > MinContext+MinHiddenLineCount:
			origStart += MinContext
			modStart += MinContext
			length -= MinContext
		case length > MinContext*2+MinHiddenLineCount:
			origStart += MinContext
			modStart += MinContext
			length -= MinContext * 2
		default:
			continue
		}
		result = append(result, NewUnchangedRegion(origStart, modStart, length, 0, 0))
	}

	return result
}

// OriginalRange is the full extent of the region in the original document.
func (r *UnchangedRegion) OriginalRange() lines.LineRange {
	return lines.OfLength(r.OriginalLineNumber, r.LineCount)
}

// ModifiedRange is the full extent of the region in the modified document.
func (r *UnchangedRegion) ModifiedRange() lines.LineRange {
	return lines.OfLength(r.ModifiedLineNumber, r.LineCount)
}

// VisibleLineCountTop returns how many lines are revealed from the top.
func (r *UnchangedRegion) VisibleLineCountTop() int {
	return r.visibleTop.Get()
}

// VisibleLineCountBottom returns how many lines are revealed from the bottom.
func (r *UnchangedRegion) VisibleLineCountBottom() int {
	return r.visibleBottom.Get()
}

// HiddenOriginalRange is the part of the region still collapsed in the
// original document. It is empty once everything is revealed.
func (r *UnchangedRegion) HiddenOriginalRange() lines.LineRange {
	top := r.visibleTop.Get()
	return lines.OfLength(r.OriginalLineNumber+top, r.LineCount-top-r.visibleBottom.Get())
}

// HiddenModifiedRange is the modified-side counterpart of HiddenOriginalRange.
func (r *UnchangedRegion) HiddenModifiedRange() lines.LineRange {
	top := r.visibleTop.Get()
	return lines.OfLength(r.ModifiedLineNumber+top, r.LineCount-top-r.visibleBottom.Get())
}

// ShowMoreAbove reveals up to RevealStep more lines at the top.
func (r *UnchangedRegion) ShowMoreAbove() {
	maxTop := r.LineCount - r.visibleBottom.Get()
	r.visibleTop.Set(min(r.visibleTop.Get()+RevealStep, maxTop), nil)
}

// ShowMoreBelow reveals up to RevealStep more lines at the bottom.
func (r *UnchangedRegion) ShowMoreBelow() {
	maxBottom := r.LineCount - r.visibleTop.Get()
	r.visibleBottom.Set(min(r.visibleBottom.Get()+RevealStep, maxBottom), nil)
}

// ShowAll reveals every line not already revealed from the top.
func (r *UnchangedRegion) ShowAll() {
	r.visibleBottom.Set(r.LineCount-r.visibleTop.Get(), nil)
}

// Changed fires whenever the revealed counts change.
func (r *UnchangedRegion) Changed() observable.Observable {
	return r.changed
}

func (r *UnchangedRegion) String() string {
	return fmt.Sprintf("(orig=%d,mod=%d,len=%d,top=%d,bottom=%d)",
		r.OriginalLineNumber, r.ModifiedLineNumber, r.LineCount,
		r.visibleTop.Get(), r.visibleBottom.Get())
}
