package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty text is one empty line", "", []string{""}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"trailing newline", "a\nb\n", []string{"a", "b", ""}},
		{"crlf", "a\r\nb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.text))
		})
	}
}

func TestDocumentEditsBumpVersionAndNotify(t *testing.T) {
	doc := NewDocument("a.txt", "one\ntwo\nthree")
	assert.Equal(t, 1, doc.Version())
	assert.Equal(t, 3, doc.LineCount())

	notifications := 0
	unsubscribe := doc.OnDidChangeContent(func() { notifications++ })

	doc.SetText("x\ny")
	assert.Equal(t, 2, doc.Version())
	assert.Equal(t, []string{"x", "y"}, doc.Lines())

	doc.ReplaceLines(2, 3, []string{"y1", "y2"})
	assert.Equal(t, 3, doc.Version())
	assert.Equal(t, "x\ny1\ny2", doc.Text())
	assert.Equal(t, 2, notifications)

	unsubscribe()
	doc.SetText("z")
	assert.Equal(t, 2, notifications)
}

func TestReplaceLinesClampsAndKeepsOneLine(t *testing.T) {
	doc := NewDocument("a", "a\nb")
	doc.ReplaceLines(0, 99, nil)
	assert.Equal(t, []string{""}, doc.Lines())
	assert.Equal(t, 1, doc.LineCount())

	doc.ReplaceLines(2, 2, []string{"tail"})
	assert.Equal(t, []string{"", "tail"}, doc.Lines())
}

func TestSnapshotIsIsolatedFromLaterEdits(t *testing.T) {
	doc := NewDocument("a", "a\nb")
	snap := doc.Snapshot()
	doc.SetText("changed")

	assert.Equal(t, []string{"a", "b"}, snap.Lines())
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, 2, snap.LineCount())
	assert.Equal(t, "x", doc.Line(5)+"x", "out of range line is empty")
}
