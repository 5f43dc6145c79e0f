// Package editor is the side-by-side diff controller. It owns the two panes,
// keeps the diff model for the current document pair and turns the diff
// into fillers, hidden regions and decorations on the panes.
package editor

import (
	"fmt"
	"time"

	"github.com/pstuifzand/sidediff/internal/alignment"
	"github.com/pstuifzand/sidediff/internal/decorations"
	"github.com/pstuifzand/sidediff/internal/diff"
	"github.com/pstuifzand/sidediff/internal/diffmodel"
	"github.com/pstuifzand/sidediff/internal/lines"
	"github.com/pstuifzand/sidediff/internal/model"
	"github.com/pstuifzand/sidediff/internal/observable"
	"github.com/pstuifzand/sidediff/internal/pane"
	"github.com/pstuifzand/sidediff/internal/sash"
	"github.com/rs/zerolog"
)

const (
	// OwnerAlignment tags the filler zones inserted to line the panes up.
	OwnerAlignment = "alignment"
	// OwnerRegion tags the bars shown in place of hidden unchanged lines.
	OwnerRegion = "region"
)

// Options configures an Editor
type Options struct {
	IgnoreTrimWhitespace bool
	MaxComputationTime   time.Duration
	WordWrap             bool
	SplitRatio           float64
	EnableSplitResizing  bool
	// HideUnchangedRegions collapses unchanged regions behind a bar.
	HideUnchangedRegions bool
}

// DefaultOptions returns the editor defaults
func DefaultOptions() Options {
	return Options{
		IgnoreTrimWhitespace: true,
		MaxComputationTime:   5 * time.Second,
		WordWrap:             true,
		SplitRatio:           sash.DefaultRatio,
		EnableSplitResizing:  true,
		HideUnchangedRegions: true,
	}
}

// Layout is the horizontal placement of the panes in columns
type Layout struct {
	OriginalX, OriginalWidth int
	ModifiedX, ModifiedWidth int
	Height                   int
}

// Editor controls a pair of panes showing a diff
type Editor struct {
	original *pane.Pane
	modified *pane.Pane
	provider diff.Provider
	sash     *sash.Sash
	logger   zerolog.Logger

	ignoreTrimWhitespace *observable.Value[bool]
	maxComputationTime   *observable.Value[time.Duration]
	hideUnchanged        bool
	modelOpts            []diffmodel.Option

	model       *diffmodel.Model
	modelScope  []func()
	regionScope []func()
	diffChanged *observable.Signal

	// Fillers inserted by the alignment pass, per pane.
	alignmentZonesOrig map[string]struct{}
	alignmentZonesMod  map[string]struct{}
	// Region bars per pane, keyed by zone id.
	regionZonesOrig map[string]*diffmodel.UnchangedRegion
	regionZonesMod  map[string]*diffmodel.UnchangedRegion

	isChangingViewZones bool
	origZonesChanged    *observable.Signal
	modZonesChanged     *observable.Signal

	alignments  *observable.Derived[[]alignment.RangeAlignment]
	decorations *observable.Derived[decorationSet]

	syncingScroll bool
	width         int
	layout        Layout
	disposers     []func()
}

type decorationSet struct {
	original *decorations.Index
	modified *decorations.Index
}

// New creates an editor for original and modified. modelOpts are passed to
// every diff model the editor creates.
func New(original, modified *model.Document, provider diff.Provider, opts Options, logger zerolog.Logger, modelOpts ...diffmodel.Option) *Editor {
	e := &Editor{
		original:             pane.New(original),
		modified:             pane.New(modified),
		provider:             provider,
		sash:                 sash.New(opts.SplitRatio, opts.EnableSplitResizing),
		logger:               logger.With().Str("component", "editor").Logger(),
		ignoreTrimWhitespace: observable.NewValue(opts.IgnoreTrimWhitespace),
		maxComputationTime:   observable.NewValue(opts.MaxComputationTime),
		hideUnchanged:        opts.HideUnchangedRegions,
		modelOpts:            append([]diffmodel.Option{diffmodel.WithLogger(logger)}, modelOpts...),
		diffChanged:          observable.NewSignal(),
		alignmentZonesOrig:   make(map[string]struct{}),
		alignmentZonesMod:    make(map[string]struct{}),
		regionZonesOrig:      make(map[string]*diffmodel.UnchangedRegion),
		regionZonesMod:       make(map[string]*diffmodel.UnchangedRegion),
		origZonesChanged:     observable.NewSignal(),
		modZonesChanged:      observable.NewSignal(),
	}
	e.original.SetWordWrap(opts.WordWrap)
	e.modified.SetWordWrap(opts.WordWrap)

	// Zone changes made by the alignment pass itself are not forwarded.
	e.disposers = append(e.disposers,
		e.original.ViewZonesChanged().Subscribe(func() {
			if !e.isChangingViewZones {
				e.origZonesChanged.Trigger(nil)
			}
		}),
		e.modified.ViewZonesChanged().Subscribe(func() {
			if !e.isChangingViewZones {
				e.modZonesChanged.Trigger(nil)
			}
		}),
	)

	e.alignments = observable.NewDerived(e.computeAlignments,
		e.diffChanged,
		e.origZonesChanged, e.modZonesChanged,
		e.original.LayoutChanged(), e.modified.LayoutChanged(),
	)
	e.decorations = observable.NewDerived(e.computeDecorations, e.diffChanged)

	e.disposers = append(e.disposers,
		observable.Autorun(e.applyAlignment, e.alignments),
		e.original.ScrollChanged().Subscribe(func() { e.syncScroll(e.original, e.modified) }),
		e.modified.ScrollChanged().Subscribe(func() { e.syncScroll(e.modified, e.original) }),
		e.sash.Changed().Subscribe(func() { e.Layout(e.width, e.layout.Height) }),
	)

	e.SetModel(original, modified)
	return e
}

// SetModel shows a new document pair. The previous diff model is disposed.
func (e *Editor) SetModel(original, modified *model.Document) {
	e.disposeModel()

	if e.original.Document() != original {
		e.original.SetDocument(original)
	}
	if e.modified.Document() != modified {
		e.modified.SetDocument(modified)
	}

	e.model = diffmodel.New(original, modified, e.provider, e.ignoreTrimWhitespace, e.maxComputationTime, e.modelOpts...)
	e.modelScope = append(e.modelScope,
		e.model.Diff().Subscribe(func() { e.diffChanged.Trigger(nil) }),
		e.model.UnchangedRegions().Subscribe(e.watchRegions),
	)
	e.watchRegions()
	e.diffChanged.Trigger(nil)

	e.logger.Debug().
		Str("original", original.Name()).
		Str("modified", modified.Name()).
		Msg("Model set")
}

func (e *Editor) disposeModel() {
	for _, d := range e.regionScope {
		d()
	}
	e.regionScope = nil
	for _, d := range e.modelScope {
		d()
	}
	e.modelScope = nil
	if e.model != nil {
		e.model.Dispose()
		e.model = nil
	}
}

// Model returns the current diff model
func (e *Editor) Model() *diffmodel.Model {
	return e.model
}

// Original returns the original pane
func (e *Editor) Original() *pane.Pane {
	return e.original
}

// Modified returns the modified pane
func (e *Editor) Modified() *pane.Pane {
	return e.modified
}

// Sash returns the divider
func (e *Editor) Sash() *sash.Sash {
	return e.sash
}

// Diff returns the last committed diff or nil
func (e *Editor) Diff() *diff.Result {
	if e.model == nil {
		return nil
	}
	return e.model.Diff().Get()
}

// IsDiffUpToDate reports whether the shown diff matches the documents
func (e *Editor) IsDiffUpToDate() bool {
	return e.model != nil && e.model.IsDiffUpToDate().Get()
}

// Alignments returns the current alignment of the panes
func (e *Editor) Alignments() []alignment.RangeAlignment {
	return e.alignments.Get()
}

// Decorations returns the highlight index of the original and modified pane.
func (e *Editor) Decorations() (original, modified *decorations.Index) {
	d := e.decorations.Get()
	return d.original, d.modified
}

// SetIgnoreTrimWhitespace changes the diff option and recomputes
func (e *Editor) SetIgnoreTrimWhitespace(on bool) {
	if e.ignoreTrimWhitespace.Get() != on {
		e.ignoreTrimWhitespace.Set(on, nil)
	}
}

// IgnoreTrimWhitespace returns the diff option
func (e *Editor) IgnoreTrimWhitespace() bool {
	return e.ignoreTrimWhitespace.Get()
}

// SetMaxComputationTime changes the diff time limit and recomputes
func (e *Editor) SetMaxComputationTime(d time.Duration) {
	if e.maxComputationTime.Get() != d {
		e.maxComputationTime.Set(d, nil)
	}
}

// SetWordWrap turns soft wrapping on or off in both panes
func (e *Editor) SetWordWrap(on bool) {
	e.original.SetWordWrap(on)
	e.modified.SetWordWrap(on)
}

// WordWrap reports whether soft wrapping is on
func (e *Editor) WordWrap() bool {
	return e.modified.WordWrap()
}

func (e *Editor) computeAlignments() []alignment.RangeAlignment {
	d := e.Diff()
	if d == nil {
		return nil
	}
	return alignment.ComputeForPanes(e.original, e.modified, d.Changes,
		memberOf(e.alignmentZonesOrig), memberOf(e.alignmentZonesMod))
}

func memberOf(ids map[string]struct{}) func(string) bool {
	return func(id string) bool {
		_, ok := ids[id]
		return ok
	}
}

func (e *Editor) applyAlignment() {
	e.isChangingViewZones = true
	defer func() { e.isChangingViewZones = false }()

	as := e.alignments.Get()
	origFillers, modFillers := alignment.Fillers(as)

	e.original.ChangeViewZones(func(acc pane.ZoneAccessor) {
		replaceFillers(acc, e.alignmentZonesOrig, origFillers)
	})
	e.modified.ChangeViewZones(func(acc pane.ZoneAccessor) {
		replaceFillers(acc, e.alignmentZonesMod, modFillers)
	})
}

func replaceFillers(acc pane.ZoneAccessor, ids map[string]struct{}, fillers []alignment.Filler) {
	for id := range ids {
		acc.RemoveZone(id)
		delete(ids, id)
	}
	for _, f := range fillers {
		id := acc.AddZone(pane.Zone{
			Owner:           OwnerAlignment,
			AfterLineNumber: f.AfterLineNumber,
			HeightInLines:   f.HeightInLines,
		})
		ids[id] = struct{}{}
	}
}

func (e *Editor) computeDecorations() decorationSet {
	var changes []lines.LineRangeMapping
	if d := e.Diff(); d != nil {
		changes = d.Changes
	}
	orig, mod := decorations.Compute(changes)
	return decorationSet{original: decorations.NewIndex(orig), modified: decorations.NewIndex(mod)}
}

// watchRegions subscribes to the reveal state of the current regions and
// applies them.
func (e *Editor) watchRegions() {
	for _, d := range e.regionScope {
		d()
	}
	e.regionScope = nil
	if e.model == nil {
		return
	}
	for _, r := range e.model.UnchangedRegions().Get() {
		e.regionScope = append(e.regionScope, r.Changed().Subscribe(e.applyRegions))
	}
	e.applyRegions()
}

// applyRegions hides the collapsed part of every unchanged region and puts
// a bar above it in both panes.
func (e *Editor) applyRegions() {
	var regions []*diffmodel.UnchangedRegion
	if e.model != nil && e.hideUnchanged {
		regions = e.model.UnchangedRegions().Get()
	}

	e.original.ChangeViewZones(func(acc pane.ZoneAccessor) {
		replaceRegionBars(acc, e.regionZonesOrig, regions, (*diffmodel.UnchangedRegion).HiddenOriginalRange)
	})
	e.modified.ChangeViewZones(func(acc pane.ZoneAccessor) {
		replaceRegionBars(acc, e.regionZonesMod, regions, (*diffmodel.UnchangedRegion).HiddenModifiedRange)
	})

	var origHidden, modHidden []lines.LineRange
	for _, r := range regions {
		origHidden = append(origHidden, r.HiddenOriginalRange())
		modHidden = append(modHidden, r.HiddenModifiedRange())
	}
	e.original.SetHiddenAreas(origHidden)
	e.modified.SetHiddenAreas(modHidden)
}

func replaceRegionBars(acc pane.ZoneAccessor, bars map[string]*diffmodel.UnchangedRegion, regions []*diffmodel.UnchangedRegion, hidden func(*diffmodel.UnchangedRegion) lines.LineRange) {
	for id := range bars {
		acc.RemoveZone(id)
		delete(bars, id)
	}
	for _, r := range regions {
		h := hidden(r)
		if h.IsEmpty() {
			continue
		}
		id := acc.AddZone(pane.Zone{
			Owner:           OwnerRegion,
			AfterLineNumber: h.Start - 1,
			HeightInLines:   1,
			Label:           fmt.Sprintf("%d lines hidden", h.Len()),
		})
		bars[id] = r
	}
}

// SetHideUnchangedRegions turns collapsing of unchanged regions on or off
func (e *Editor) SetHideUnchangedRegions(on bool) {
	if e.hideUnchanged == on {
		return
	}
	e.hideUnchanged = on
	e.applyRegions()
}

// HideUnchangedRegions reports whether unchanged regions are collapsed
func (e *Editor) HideUnchangedRegions() bool {
	return e.hideUnchanged
}

// RegionAtRow returns the unchanged region whose bar is shown at row of
// the modified pane.
func (e *Editor) RegionAtRow(row int) (*diffmodel.UnchangedRegion, bool) {
	rows := e.modified.Rows()
	if row < 0 || row >= len(rows) || rows[row].Kind != pane.RowZone || rows[row].ZoneOwner != OwnerRegion {
		return nil, false
	}
	r, ok := e.regionZonesMod[rows[row].ZoneID]
	return r, ok
}

// ShowAllRegions reveals every unchanged region
func (e *Editor) ShowAllRegions() {
	if e.model == nil {
		return
	}
	for _, r := range e.model.UnchangedRegions().Get() {
		r.ShowAll()
	}
}

func (e *Editor) syncScroll(from, to *pane.Pane) {
	if e.syncingScroll {
		return
	}
	e.syncingScroll = true
	defer func() { e.syncingScroll = false }()
	to.SetScrollTop(from.ScrollTop())
}

// ScrollTo scrolls both panes to row
func (e *Editor) ScrollTo(row int) {
	e.modified.SetScrollTop(row)
}

// ScrollBy scrolls both panes by delta rows
func (e *Editor) ScrollBy(delta int) {
	e.modified.ScrollBy(delta)
}

// NextChange scrolls to the first change below the top row. It returns
// false when there is none.
func (e *Editor) NextChange() bool {
	top := e.modified.ScrollTop()
	for _, row := range e.changeRows() {
		if row > top {
			e.ScrollTo(row)
			return true
		}
	}
	return false
}

// PreviousChange scrolls to the last change above the top row
func (e *Editor) PreviousChange() bool {
	top := e.modified.ScrollTop()
	rows := e.changeRows()
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i] < top {
			e.ScrollTo(rows[i])
			return true
		}
	}
	return false
}

// changeRows returns the first modified-pane row of every change
func (e *Editor) changeRows() []int {
	d := e.Diff()
	if d == nil {
		return nil
	}
	var rows []int
	last := e.modified.RowCount() - 1
	for _, c := range d.Changes {
		// Both panes share rows, so a deletion is found on the original side.
		p, line := e.modified, c.Modified.Start
		if c.Modified.IsEmpty() {
			p, line = e.original, c.Original.Start
		}
		row, ok := p.RowOfLine(line)
		if !ok {
			row = last
		}
		rows = append(rows, row)
	}
	return rows
}

// Layout places the panes in width columns. Each pane gets a line-number
// gutter; the rest is text width.
func (e *Editor) Layout(width, height int) Layout {
	e.width = width
	split := e.sash.Layout(width)
	gutter := e.gutterWidth()

	e.layout = Layout{
		OriginalX:     gutter,
		OriginalWidth: max(0, split-gutter),
		ModifiedX:     split + dividerWidth + gutter,
		ModifiedWidth: max(0, width-split-dividerWidth-gutter),
		Height:        height,
	}
	e.original.SetWidth(e.layout.OriginalWidth)
	e.modified.SetWidth(e.layout.ModifiedWidth)
	return e.layout
}

// CurrentLayout returns the last computed layout
func (e *Editor) CurrentLayout() Layout {
	return e.layout
}

const dividerWidth = 1

// gutterWidth is the width of the line-number column: the digits of the
// larger document plus a marker and a space.
func (e *Editor) gutterWidth() int {
	n := max(e.original.LineCount(), e.modified.LineCount())
	return len(fmt.Sprint(n)) + 2
}

// GutterWidth returns the width of the line-number column
func (e *Editor) GutterWidth() int {
	return e.gutterWidth()
}

// Refresh forces a recomputation of the diff
func (e *Editor) Refresh() {
	if e.model != nil {
		e.model.Refresh()
	}
}

// Dispose releases the model and all subscriptions
func (e *Editor) Dispose() {
	e.disposeModel()
	for _, d := range e.disposers {
		d()
	}
	e.disposers = nil
	e.alignments.Dispose()
	e.decorations.Dispose()
	e.original.Dispose()
	e.modified.Dispose()
}
