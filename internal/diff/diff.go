package diff

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pstuifzand/sidediff/internal/lines"
	"github.com/pstuifzand/sidediff/internal/observable"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// LinesProvider is a Provider backed by diff-match-patch line diffs.
type LinesProvider struct {
	mu        sync.Mutex
	algorithm Algorithm
	changed   *observable.Signal
}

// NewLinesProvider creates a provider using the given algorithm
func NewLinesProvider(algorithm Algorithm) *LinesProvider {
	if algorithm == "" {
		algorithm = AlgorithmAdvanced
	}
	return &LinesProvider{
		algorithm: algorithm,
		changed:   observable.NewSignal(),
	}
}

// Algorithm returns the active algorithm
func (p *LinesProvider) Algorithm() Algorithm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.algorithm
}

// SetAlgorithm switches the algorithm and notifies listeners if it changed
func (p *LinesProvider) SetAlgorithm(algorithm Algorithm) {
	p.mu.Lock()
	if p.algorithm == algorithm {
		p.mu.Unlock()
		return
	}
	p.algorithm = algorithm
	p.mu.Unlock()
	p.changed.Trigger(nil)
}

// OnDidChange implements Provider
func (p *LinesProvider) OnDidChange(fn func()) func() {
	return p.changed.Subscribe(fn)
}

// ComputeDiff implements Provider
func (p *LinesProvider) ComputeDiff(ctx context.Context, original, modified Text, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCanceled, err)
	}

	origLines := original.Lines()
	modLines := modified.Lines()
	start := time.Now()

	changes := computeLineChanges(origLines, modLines, opts)
	quitEarly := opts.MaxComputationTime > 0 && time.Since(start) >= opts.MaxComputationTime

	if p.Algorithm() == AlgorithmAdvanced {
		for i := range changes {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCanceled, err)
			}
			changes[i].Inner = computeInnerChanges(changes[i], origLines, modLines)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCanceled, err)
	}

	return &Result{
		Changes:   changes,
		Identical: len(changes) == 0,
		QuitEarly: quitEarly,
	}, nil
}

// lineKeys returns the strings lines are compared by, one per line, each
// terminated by "\n" so diff-match-patch sees every line as a unit.
func lineKeys(ls []string, ignoreTrimWhitespace bool) string {
	var b strings.Builder
	for _, l := range ls {
		if ignoreTrimWhitespace {
			l = strings.TrimSpace(l)
		}
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// computeLineChanges runs the line-mode diff and folds consecutive
// deletions and insertions into LineRangeMappings.
func computeLineChanges(origLines, modLines []string, opts Options) []lines.LineRangeMapping {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = opts.MaxComputationTime

	r1, r2, _ := dmp.DiffLinesToRunes(
		lineKeys(origLines, opts.IgnoreTrimWhitespace),
		lineKeys(modLines, opts.IgnoreTrimWhitespace),
	)
	diffs := dmp.DiffMainRunes(r1, r2, false)

	var changes []lines.LineRangeMapping
	origLine, modLine := 1, 1
	startOrig, startMod := 0, 0
	inChange := false

	flush := func() {
		if !inChange {
			return
		}
		changes = append(changes, lines.NewLineRangeMapping(
			lines.NewLineRange(startOrig, origLine),
			lines.NewLineRange(startMod, modLine),
		))
		inChange = false
	}

	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			origLine += n
			modLine += n
		case diffmatchpatch.DiffDelete:
			if !inChange {
				startOrig, startMod, inChange = origLine, modLine, true
			}
			origLine += n
		case diffmatchpatch.DiffInsert:
			if !inChange {
				startOrig, startMod, inChange = origLine, modLine, true
			}
			modLine += n
		}
	}
	flush()

	return changes
}

// position tracks a 1-based line/column while walking text.
// Columns count runes.
type position struct {
	line, column int
}

func (p *position) advance(text string) {
	for _, r := range text {
		if r == '\n' {
			p.line++
			p.column = 1
			continue
		}
		p.column++
	}
}

// computeInnerChanges diffs the characters of a change whose sides are both
// non-empty. Adjacent deletions and insertions form one RangeMapping.
func computeInnerChanges(c lines.LineRangeMapping, origLines, modLines []string) []lines.RangeMapping {
	if c.Original.IsEmpty() || c.Modified.IsEmpty() {
		return nil
	}

	origText := strings.Join(origLines[c.Original.Start-1:c.Original.EndExclusive-1], "\n")
	modText := strings.Join(modLines[c.Modified.Start-1:c.Modified.EndExclusive-1], "\n")

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(origText, modText, false))

	var result []lines.RangeMapping
	o := position{line: c.Original.Start, column: 1}
	m := position{line: c.Modified.Start, column: 1}

	for i := 0; i < len(diffs); {
		if diffs[i].Type == diffmatchpatch.DiffEqual {
			o.advance(diffs[i].Text)
			m.advance(diffs[i].Text)
			i++
			continue
		}

		startO, startM := o, m
		for i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual {
			switch diffs[i].Type {
			case diffmatchpatch.DiffDelete:
				o.advance(diffs[i].Text)
			case diffmatchpatch.DiffInsert:
				m.advance(diffs[i].Text)
			}
			i++
		}
		result = append(result, lines.RangeMapping{
			Original: lines.Range{StartLine: startO.line, StartColumn: startO.column, EndLine: o.line, EndColumn: o.column},
			Modified: lines.Range{StartLine: startM.line, StartColumn: startM.column, EndLine: m.line, EndColumn: m.column},
		})
	}
	return result
}
