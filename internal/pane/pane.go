// Package pane is the rendering host for one side of the diff view. It knows
// how the document lays out into rows: soft wrapping, hidden line ranges and
// view zones (blank or labelled rows inserted between lines).
package pane

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/pstuifzand/sidediff/internal/alignment"
	"github.com/pstuifzand/sidediff/internal/lines"
	"github.com/pstuifzand/sidediff/internal/model"
	"github.com/pstuifzand/sidediff/internal/observable"
	"github.com/pstuifzand/sidediff/internal/wrap"
)

// Zone is a block of rows inserted after a line. Owner tells who inserted
// it so that a component can recognise its own zones.
type Zone struct {
	ID              string
	Owner           string
	AfterLineNumber int
	HeightInLines   int
	// Label is shown on the first row of the zone; empty zones render as
	// filler.
	Label string
}

// ZoneAccessor edits the zones of a pane inside ChangeViewZones
type ZoneAccessor interface {
	AddZone(z Zone) (id string)
	RemoveZone(id string)
}

// RowKind tells what a rendered row shows
type RowKind int

const (
	RowText RowKind = iota
	RowWrapped
	RowZone
)

// Row is one screen row of the pane
type Row struct {
	Kind       RowKind
	LineNumber int
	Text       string

	// Offset is the rune index of Text within the tab-expanded line.
	Offset    int
	ZoneID    string
	ZoneOwner string
}

// Pane lays out one document
type Pane struct {
	doc         *model.Document
	unsubscribe func()

	width    int
	wordWrap bool
	tabSize  int

	zones  []Zone
	nextID int

	hidden []lines.LineRange

	scrollTop int

	rows      []Row
	lineRow   map[int]int
	rowsValid bool

	viewZonesChanged *observable.Signal
	layoutChanged    *observable.Signal
	scrollChanged    *observable.Signal
}

// New creates a pane showing doc
func New(doc *model.Document) *Pane {
	p := &Pane{
		tabSize:          wrap.DefaultTabSize,
		viewZonesChanged: observable.NewSignal(),
		layoutChanged:    observable.NewSignal(),
		scrollChanged:    observable.NewSignal(),
	}
	p.SetDocument(doc)
	return p
}

// SetDocument switches the pane to doc. Zones and hidden areas are kept;
// the owner is expected to replace them.
func (p *Pane) SetDocument(doc *model.Document) {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	p.doc = doc
	p.unsubscribe = doc.OnDidChangeContent(func() {
		p.invalidate()
		p.layoutChanged.Trigger(nil)
	})
	p.invalidate()
	p.layoutChanged.Trigger(nil)
}

// TabSize returns the width tabs are expanded to
func (p *Pane) TabSize() int {
	return p.tabSize
}

// Document returns the document shown in the pane
func (p *Pane) Document() *model.Document {
	return p.doc
}

// Dispose detaches the pane from its document
func (p *Pane) Dispose() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// LineCount implements alignment.Pane
func (p *Pane) LineCount() int {
	return p.doc.LineCount()
}

// WrappingEnabled implements alignment.Pane
func (p *Pane) WrappingEnabled() bool {
	return p.wordWrap && p.width > 0
}

// Width returns the text width in columns
func (p *Pane) Width() int {
	return p.width
}

// SetWidth sets the text width in columns
func (p *Pane) SetWidth(width int) {
	if width == p.width {
		return
	}
	p.width = width
	p.invalidate()
	p.layoutChanged.Trigger(nil)
}

// WordWrap reports whether soft wrapping is on
func (p *Pane) WordWrap() bool {
	return p.wordWrap
}

// SetWordWrap turns soft wrapping on or off
func (p *Pane) SetWordWrap(on bool) {
	if on == p.wordWrap {
		return
	}
	p.wordWrap = on
	p.invalidate()
	p.layoutChanged.Trigger(nil)
}

// ViewLineCount implements alignment.Pane. Hidden lines occupy no rows.
func (p *Pane) ViewLineCount(lineNumber int) int {
	if p.IsHidden(lineNumber) {
		return 0
	}
	return len(p.segments(lineNumber))
}

func (p *Pane) segments(lineNumber int) []string {
	text := wrap.ExpandTabs(p.doc.Line(lineNumber), p.tabSize)
	if !p.WrappingEnabled() {
		return []string{text}
	}
	return wrap.WrapLine(text, p.width)
}

// Whitespaces implements alignment.Pane
func (p *Pane) Whitespaces() []alignment.Whitespace {
	out := make([]alignment.Whitespace, 0, len(p.zones))
	for _, z := range p.zones {
		out = append(out, alignment.Whitespace{
			ID:              z.ID,
			AfterLineNumber: z.AfterLineNumber,
			HeightInLines:   z.HeightInLines,
		})
	}
	return out
}

// Zones returns a copy of the registered zones in layout order
func (p *Pane) Zones() []Zone {
	return slices.Clone(p.zones)
}

// Zone looks up a zone by id
func (p *Pane) Zone(id string) (Zone, bool) {
	for _, z := range p.zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

type accessor struct {
	p       *Pane
	changed bool
}

func (a *accessor) AddZone(z Zone) string {
	a.p.nextID++
	z.ID = fmt.Sprintf("zone-%d", a.p.nextID)
	if z.HeightInLines < 0 {
		z.HeightInLines = 0
	}
	// Stable by anchor so zones on the same line keep insertion order.
	i := len(a.p.zones)
	for i > 0 && a.p.zones[i-1].AfterLineNumber > z.AfterLineNumber {
		i--
	}
	a.p.zones = slices.Insert(a.p.zones, i, z)
	a.changed = true
	return z.ID
}

func (a *accessor) RemoveZone(id string) {
	i := slices.IndexFunc(a.p.zones, func(z Zone) bool { return z.ID == id })
	if i < 0 {
		return
	}
	a.p.zones = slices.Delete(a.p.zones, i, i+1)
	a.changed = true
}

// ChangeViewZones runs fn with an accessor for adding and removing zones.
// Listeners of ViewZonesChanged are notified once afterwards if anything
// changed.
func (p *Pane) ChangeViewZones(fn func(acc ZoneAccessor)) {
	acc := &accessor{p: p}
	fn(acc)
	if acc.changed {
		p.invalidate()
		p.viewZonesChanged.Trigger(nil)
	}
}

// ViewZonesChanged fires after zones were added or removed
func (p *Pane) ViewZonesChanged() observable.Observable {
	return p.viewZonesChanged
}

// LayoutChanged fires when wrapping, width, hidden areas or content change
func (p *Pane) LayoutChanged() observable.Observable {
	return p.layoutChanged
}

// ScrollChanged fires when the scroll position changes
func (p *Pane) ScrollChanged() observable.Observable {
	return p.scrollChanged
}

// SetHiddenAreas replaces the hidden line ranges. Empty ranges are ignored.
func (p *Pane) SetHiddenAreas(ranges []lines.LineRange) {
	var hidden []lines.LineRange
	for _, r := range ranges {
		if !r.IsEmpty() {
			hidden = append(hidden, r)
		}
	}
	slices.SortFunc(hidden, func(a, b lines.LineRange) int { return a.Start - b.Start })
	if slices.Equal(hidden, p.hidden) {
		return
	}
	p.hidden = hidden
	p.invalidate()
	p.layoutChanged.Trigger(nil)
}

// HiddenAreas returns the hidden line ranges
func (p *Pane) HiddenAreas() []lines.LineRange {
	return slices.Clone(p.hidden)
}

// IsHidden reports whether lineNumber lies in a hidden area
func (p *Pane) IsHidden(lineNumber int) bool {
	for _, r := range p.hidden {
		if r.Contains(lineNumber) {
			return true
		}
	}
	return false
}

func (p *Pane) invalidate() {
	p.rowsValid = false
}

// Rows returns the full row layout of the pane
func (p *Pane) Rows() []Row {
	if p.rowsValid {
		return p.rows
	}

	var rows []Row
	lineRow := make(map[int]int)
	zi := 0
	emitZones := func(after int) {
		for ; zi < len(p.zones) && p.zones[zi].AfterLineNumber <= after; zi++ {
			z := p.zones[zi]
			for i := 0; i < z.HeightInLines; i++ {
				r := Row{Kind: RowZone, LineNumber: z.AfterLineNumber, ZoneID: z.ID, ZoneOwner: z.Owner}
				if i == 0 {
					r.Text = z.Label
				}
				rows = append(rows, r)
			}
		}
	}

	emitZones(0)
	n := p.LineCount()
	for line := 1; line <= n; line++ {
		if p.IsHidden(line) {
			// Zones anchored inside a hidden area are not shown.
			for zi < len(p.zones) && p.zones[zi].AfterLineNumber <= line {
				zi++
			}
			continue
		}
		lineRow[line] = len(rows)
		offset := 0
		for i, seg := range p.segments(line) {
			kind := RowText
			if i > 0 {
				kind = RowWrapped
			}
			rows = append(rows, Row{Kind: kind, LineNumber: line, Text: seg, Offset: offset})
			offset += utf8.RuneCountInString(seg)
		}
		emitZones(line)
	}
	emitZones(math.MaxInt)

	p.rows = rows
	p.lineRow = lineRow
	p.rowsValid = true
	return rows
}

// RowCount returns the number of rows in the layout
func (p *Pane) RowCount() int {
	return len(p.Rows())
}

// RowOfLine returns the first row of lineNumber, or of the next visible
// line when it is hidden. ok is false past the end of the document.
func (p *Pane) RowOfLine(lineNumber int) (row int, ok bool) {
	p.Rows()
	for l := max(lineNumber, 1); l <= p.LineCount(); l++ {
		if r, found := p.lineRow[l]; found {
			return r, true
		}
	}
	return 0, false
}

// LineAtRow returns the line a row belongs to. Zone rows belong to the line
// they follow.
func (p *Pane) LineAtRow(row int) int {
	rows := p.Rows()
	if len(rows) == 0 {
		return 1
	}
	row = max(0, min(row, len(rows)-1))
	return max(rows[row].LineNumber, 1)
}

// ScrollTop returns the first visible row
func (p *Pane) ScrollTop() int {
	return p.scrollTop
}

// SetScrollTop scrolls to row, clamped to the layout
func (p *Pane) SetScrollTop(row int) {
	row = max(0, min(row, p.RowCount()-1))
	if row == p.scrollTop {
		return
	}
	p.scrollTop = row
	p.scrollChanged.Trigger(nil)
}

// ScrollBy scrolls by delta rows
func (p *Pane) ScrollBy(delta int) {
	p.SetScrollTop(p.scrollTop + delta)
}

var _ alignment.Pane = (*Pane)(nil)
