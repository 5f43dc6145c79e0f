package diff

import (
	"context"
	"errors"
	"time"

	"github.com/pstuifzand/sidediff/internal/lines"
)

// ErrCanceled is returned when a computation observes a cancelled context.
var ErrCanceled = errors.New("diff computation canceled")

// Options controls a single diff computation
type Options struct {
	IgnoreTrimWhitespace bool
	// MaxComputationTime bounds the line diff; zero means no limit.
	MaxComputationTime time.Duration
}

// Result is the outcome of a diff computation
type Result struct {
	// Changes are sorted by original start, non-overlapping and monotonic
	// on the modified side.
	Changes []lines.LineRangeMapping
	// Identical is true when the documents have no changes.
	Identical bool
	// QuitEarly is true when MaxComputationTime was reached and the result
	// is coarser than optimal.
	QuitEarly bool
}

// Text is the read-only view of a document the provider needs.
type Text interface {
	Lines() []string
}

// Provider computes line diffs between two documents
type Provider interface {
	// ComputeDiff diffs original against modified. Implementations should
	// return promptly with ErrCanceled once ctx is done.
	ComputeDiff(ctx context.Context, original, modified Text, opts Options) (*Result, error)
	// OnDidChange registers fn to run when the provider's own
	// configuration changes and existing results become outdated.
	OnDidChange(fn func()) (unsubscribe func())
}

// Algorithm selects how much detail LinesProvider computes
type Algorithm string

const (
	// AlgorithmAdvanced computes line changes plus character-level inner changes.
	AlgorithmAdvanced Algorithm = "advanced"
	// AlgorithmLegacy computes line changes only.
	AlgorithmLegacy Algorithm = "legacy"
)

// ParseAlgorithm maps a config value to an Algorithm
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch Algorithm(s) {
	case AlgorithmAdvanced, AlgorithmLegacy:
		return Algorithm(s), true
	case "":
		return AlgorithmAdvanced, true
	}
	return "", false
}

// DiffLineType indicates the type of diff line for rendering
type DiffLineType int

const (
	DiffTypeHeader DiffLineType = iota
	DiffTypeHunk
	DiffTypeContext
	DiffTypeDeleted
	DiffTypeAdded
	DiffTypeSummary
)

// DiffLine represents a rendered line in diff output
type DiffLine struct {
	Type    DiffLineType
	Content string
}
