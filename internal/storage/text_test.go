package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTextStoreLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\ntwo\n")

	doc, err := NewTextStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", ""}, doc.Lines())
	assert.Equal(t, path, doc.Name())
}

func TestTextStoreLoadMissingFileIsEmpty(t *testing.T) {
	doc, err := NewTextStore(filepath.Join(t.TempDir(), "missing.txt")).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, doc.LineCount())
	assert.Equal(t, "", doc.Text())
}

func TestTextStoreReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one")
	store := NewTextStore(path)
	doc, err := store.Load()
	require.NoError(t, err)

	changed, err := store.Reload(doc)
	require.NoError(t, err)
	assert.False(t, changed, "unchanged file keeps the version")
	assert.Equal(t, 1, doc.Version())

	writeFile(t, dir, "a.txt", "one\ntwo")
	changed, err = store.Reload(doc)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, doc.Version())
	assert.Equal(t, 2, doc.LineCount())
}

func TestLoadPair(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x\ny")
	b := writeFile(t, dir, "b.txt", "x\nz\nw")

	original, modified, err := LoadPair(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, original.LineCount())
	assert.Equal(t, 3, modified.LineCount())
}

func TestLoadPairReportsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x")

	// a directory cannot be read as a file
	_, _, err := LoadPair(context.Background(), a, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modified")
}

func TestStamp(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "x")
	when := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	require.NoError(t, os.Chtimes(path, when, when))

	assert.Equal(t, "2024-03-09 14:05", Stamp(path, "%Y-%m-%d %H:%M"))
	assert.Equal(t, path+"\t09/03/24", Header(path, "%d/%m/%y"))
	assert.Equal(t, time.Unix(0, 0).Format("2006"), Stamp(filepath.Join(dir, "missing"), "%Y"))
}
