package ui

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/sidediff/internal/decorations"
	"github.com/pstuifzand/sidediff/internal/editor"
	"github.com/pstuifzand/sidediff/internal/pane"
	"github.com/pstuifzand/sidediff/internal/wrap"
)

const (
	fillerRune  = '╱'
	dividerRune = '│'
	wrapMarker  = '↪'
)

// SideBySideView draws an editor's two panes next to each other
type SideBySideView struct {
	editor *editor.Editor
}

// NewSideBySideView creates a view of e
func NewSideBySideView(e *editor.Editor) *SideBySideView {
	return &SideBySideView{editor: e}
}

// Render draws a header row at top followed by height-1 rows of both panes.
// The editor must have been laid out for the screen width.
func (v *SideBySideView) Render(screen *Screen, top, height int) {
	if height <= 0 {
		return
	}
	e := v.editor
	layout := e.CurrentLayout()
	gutter := e.GutterWidth()
	origDecos, modDecos := e.Decorations()

	origLeft := layout.OriginalX - gutter
	modLeft := layout.ModifiedX - gutter
	dividerX := modLeft - 1

	header := screen.HeaderStyle()
	screen.Fill(0, top, screen.GetWidth(), ' ', header)
	screen.DrawStringLimited(origLeft+1, top, displayName(e.Original()), layout.OriginalX+layout.OriginalWidth-origLeft-1, header)
	screen.DrawStringLimited(modLeft+1, top, displayName(e.Modified()), layout.ModifiedX+layout.ModifiedWidth-modLeft-1, header)

	origSide := newPaneSide(e.Original(), origDecos, origLeft, gutter, layout.OriginalWidth, '-')
	modSide := newPaneSide(e.Modified(), modDecos, modLeft, gutter, layout.ModifiedWidth, '+')

	for i := 1; i < height; i++ {
		y := top + i
		origSide.renderRow(screen, y, origSide.pane.ScrollTop()+i-1)
		screen.SetCell(dividerX, y, dividerRune, screen.DividerStyle())
		modSide.renderRow(screen, y, modSide.pane.ScrollTop()+i-1)
	}
}

func displayName(p *pane.Pane) string {
	name := p.Document().Name()
	if name == "" {
		return "[untitled]"
	}
	return filepath.Base(name)
}

// paneSide renders the rows of one pane into a column range of the screen
type paneSide struct {
	pane   *pane.Pane
	decos  *decorations.Index
	left   int
	gutter int
	width  int
	marker rune

	rows    []pane.Row
	columns map[int][]int
}

func newPaneSide(p *pane.Pane, decos *decorations.Index, left, gutter, width int, marker rune) *paneSide {
	return &paneSide{
		pane:    p,
		decos:   decos,
		left:    left,
		gutter:  gutter,
		width:   width,
		marker:  marker,
		rows:    p.Rows(),
		columns: make(map[int][]int),
	}
}

func (s *paneSide) renderRow(screen *Screen, y, index int) {
	total := s.gutter + s.width
	if index < 0 || index >= len(s.rows) {
		screen.Fill(s.left, y, total, ' ', screen.BackgroundStyle())
		return
	}

	row := s.rows[index]
	switch row.Kind {
	case pane.RowZone:
		s.renderZone(screen, y, row)
	default:
		s.renderText(screen, y, row)
	}
}

func (s *paneSide) renderZone(screen *Screen, y int, row pane.Row) {
	total := s.gutter + s.width
	switch row.ZoneOwner {
	case editor.OwnerAlignment:
		screen.Fill(s.left, y, total, fillerRune, screen.FillerStyle())
	case editor.OwnerRegion:
		style := screen.RegionBarStyle()
		screen.Fill(s.left, y, total, ' ', style)
		if row.Text != "" {
			label := fmt.Sprintf("⋯ %s ⋯", row.Text)
			screen.DrawStringLimited(s.left+s.gutter, y, label, s.width, style)
		}
	default:
		screen.Fill(s.left, y, total, ' ', screen.BackgroundStyle())
		if row.Text != "" {
			screen.DrawStringLimited(s.left+s.gutter, y, row.Text, s.width, screen.LineNumberStyle())
		}
	}
}

func (s *paneSide) renderText(screen *Screen, y int, row pane.Row) {
	lineStyle := screen.TextStyle()
	var innerStyle tcell.Style
	marker := ' '
	kind, changed := s.decos.LineKind(row.LineNumber)
	if changed {
		marker = s.marker
		if kind == decorations.LineAdd {
			lineStyle, innerStyle = screen.LineAddedStyle(), screen.InnerAddedStyle()
		} else {
			lineStyle, innerStyle = screen.LineDeletedStyle(), screen.InnerDeletedStyle()
		}
	}

	// Gutter: right-aligned line number, change marker, space
	gutterStyle := screen.LineNumberStyle()
	digits := s.gutter - 2
	if row.Kind == pane.RowText {
		screen.DrawString(s.left, y, fmt.Sprintf("%*d", digits, row.LineNumber), gutterStyle)
	} else {
		screen.Fill(s.left, y, digits-1, ' ', gutterStyle)
		screen.SetCell(s.left+digits-1, y, wrapMarker, gutterStyle)
	}
	screen.SetCell(s.left+digits, y, marker, lineStyle)
	screen.SetCell(s.left+digits+1, y, ' ', lineStyle)

	x := s.left + s.gutter
	end := x + s.width
	cols := s.columnMap(row.LineNumber)
	i := row.Offset
	for _, r := range row.Text {
		w := max(wrap.RuneWidth(r), 1)
		if x+w > end {
			break
		}
		style := lineStyle
		if changed && i < len(cols) {
			if _, inner := s.decos.InnerAt(row.LineNumber, cols[i]); inner {
				style = innerStyle
			}
		}
		screen.SetCell(x, y, r, style)
		x += w
		i++
	}
	screen.Fill(x, y, end-x, ' ', lineStyle)
}

// columnMap maps expanded rune indices of lineNumber back to columns
func (s *paneSide) columnMap(lineNumber int) []int {
	if cols, ok := s.columns[lineNumber]; ok {
		return cols
	}
	cols := wrap.ColumnMap(s.pane.Document().Line(lineNumber), s.pane.TabSize())
	s.columns[lineNumber] = cols
	return cols
}
