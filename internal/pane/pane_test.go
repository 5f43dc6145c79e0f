package pane

import (
	"testing"

	"github.com/pstuifzand/sidediff/internal/alignment"
	"github.com/pstuifzand/sidediff/internal/lines"
	"github.com/pstuifzand/sidediff/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPane(text string) *Pane {
	return New(model.NewDocument("test", text))
}

func rowTexts(rows []Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Text)
	}
	return out
}

func TestViewLineCount(t *testing.T) {
	p := newPane("short\na much longer line here\n")
	p.SetWidth(10)

	assert.Equal(t, 1, p.ViewLineCount(2), "wrapping is off by default")
	assert.False(t, p.WrappingEnabled())

	p.SetWordWrap(true)
	assert.True(t, p.WrappingEnabled())
	assert.Equal(t, 1, p.ViewLineCount(1))
	assert.Equal(t, 3, p.ViewLineCount(2))
	assert.Equal(t, 1, p.ViewLineCount(3))

	p.SetHiddenAreas([]lines.LineRange{lines.NewLineRange(2, 3)})
	assert.Equal(t, 0, p.ViewLineCount(2))
}

func TestWrappingNeedsWidth(t *testing.T) {
	p := newPane("abc")
	p.SetWordWrap(true)
	assert.False(t, p.WrappingEnabled())
}

func TestChangeViewZonesNotifiesOnce(t *testing.T) {
	p := newPane("a\nb\nc")
	calls := 0
	p.ViewZonesChanged().Subscribe(func() { calls++ })

	var ids []string
	p.ChangeViewZones(func(acc ZoneAccessor) {
		ids = append(ids, acc.AddZone(Zone{Owner: "x", AfterLineNumber: 2, HeightInLines: 1}))
		ids = append(ids, acc.AddZone(Zone{Owner: "x", AfterLineNumber: 1, HeightInLines: 2}))
		ids = append(ids, acc.AddZone(Zone{Owner: "y", AfterLineNumber: 2, HeightInLines: 3}))
	})
	assert.Equal(t, 1, calls)
	require.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])

	assert.Equal(t, []alignment.Whitespace{
		{ID: ids[1], AfterLineNumber: 1, HeightInLines: 2},
		{ID: ids[0], AfterLineNumber: 2, HeightInLines: 1},
		{ID: ids[2], AfterLineNumber: 2, HeightInLines: 3},
	}, p.Whitespaces())

	p.ChangeViewZones(func(acc ZoneAccessor) {})
	assert.Equal(t, 1, calls, "no change, no notification")

	p.ChangeViewZones(func(acc ZoneAccessor) { acc.RemoveZone(ids[0]) })
	assert.Equal(t, 2, calls)
	_, ok := p.Zone(ids[0])
	assert.False(t, ok)
}

func TestRows(t *testing.T) {
	p := newPane("one\ntwo\nthree\nfour")
	p.ChangeViewZones(func(acc ZoneAccessor) {
		acc.AddZone(Zone{AfterLineNumber: 0, HeightInLines: 1, Label: "top"})
		acc.AddZone(Zone{AfterLineNumber: 2, HeightInLines: 2})
	})

	rows := p.Rows()
	assert.Equal(t, []string{"top", "one", "two", "", "", "three", "four"}, rowTexts(rows))
	assert.Equal(t, RowZone, rows[0].Kind)
	assert.Equal(t, RowZone, rows[3].Kind)
	assert.Equal(t, RowText, rows[5].Kind)

	row, ok := p.RowOfLine(3)
	require.True(t, ok)
	assert.Equal(t, 5, row)
	assert.Equal(t, 2, p.LineAtRow(4))
}

func TestRowsWithHiddenAreasAndWrapping(t *testing.T) {
	p := newPane("1\n2\n3\n4\nabcdefgh")
	p.SetWidth(4)
	p.SetWordWrap(true)
	p.SetHiddenAreas([]lines.LineRange{lines.NewLineRange(2, 4), lines.NewLineRange(3, 3)})
	p.ChangeViewZones(func(acc ZoneAccessor) {
		acc.AddZone(Zone{AfterLineNumber: 1, HeightInLines: 1, Label: "2 lines hidden"})
		acc.AddZone(Zone{AfterLineNumber: 2, HeightInLines: 5})
	})

	rows := p.Rows()
	assert.Equal(t, []string{"1", "2 lines hidden", "4", "abcd", "efgh"}, rowTexts(rows))
	assert.Equal(t, RowWrapped, rows[4].Kind)
	assert.Equal(t, 0, rows[3].Offset)
	assert.Equal(t, 4, rows[4].Offset)

	row, ok := p.RowOfLine(2)
	require.True(t, ok)
	assert.Equal(t, 2, row, "hidden line maps to the next visible one")
	_, ok = p.RowOfLine(9)
	assert.False(t, ok)
}

func TestRowsFollowContentChanges(t *testing.T) {
	doc := model.NewDocument("test", "a\nb")
	p := New(doc)
	layouts := 0
	p.LayoutChanged().Subscribe(func() { layouts++ })

	assert.Equal(t, 2, p.RowCount())
	doc.SetText("a\nb\nc")
	assert.Equal(t, 3, p.RowCount())
	assert.Equal(t, 1, layouts)

	p.Dispose()
	doc.SetText("x")
	assert.Equal(t, 1, layouts)
}

func TestScroll(t *testing.T) {
	p := newPane("1\n2\n3\n4\n5")
	scrolls := 0
	p.ScrollChanged().Subscribe(func() { scrolls++ })

	p.SetScrollTop(3)
	assert.Equal(t, 3, p.ScrollTop())
	p.ScrollBy(10)
	assert.Equal(t, 4, p.ScrollTop())
	p.ScrollBy(-100)
	assert.Equal(t, 0, p.ScrollTop())
	p.SetScrollTop(0)
	assert.Equal(t, 3, scrolls)
}
