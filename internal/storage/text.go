package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/pstuifzand/sidediff/internal/model"
	"golang.org/x/sync/errgroup"
)

// TextStore reads a plain text file into a document
type TextStore struct {
	FilePath string
}

// NewTextStore creates a new text store for the given file path
func NewTextStore(filePath string) *TextStore {
	return &TextStore{
		FilePath: filePath,
	}
}

// Load reads the file into a new document. A missing file loads as an empty
// document so that added and deleted files can still be compared.
func (s *TextStore) Load() (*model.Document, error) {
	text, err := s.read()
	if err != nil {
		return nil, err
	}
	return model.NewDocument(s.FilePath, text), nil
}

// Reload re-reads the file into doc. The document's version only changes
// when the content on disk differs from what it holds.
func (s *TextStore) Reload(doc *model.Document) (bool, error) {
	text, err := s.read()
	if err != nil {
		return false, err
	}
	if text == doc.Text() {
		return false, nil
	}
	doc.SetText(text)
	return true, nil
}

func (s *TextStore) read() (string, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// LoadPair loads the original and modified files concurrently.
func LoadPair(ctx context.Context, originalPath, modifiedPath string) (*model.Document, *model.Document, error) {
	var original, modified *model.Document

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := NewTextStore(originalPath).Load()
		if err != nil {
			return fmt.Errorf("original %s: %w", originalPath, err)
		}
		original = doc
		return ctx.Err()
	})
	g.Go(func() error {
		doc, err := NewTextStore(modifiedPath).Load()
		if err != nil {
			return fmt.Errorf("modified %s: %w", modifiedPath, err)
		}
		modified = doc
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return original, modified, nil
}
