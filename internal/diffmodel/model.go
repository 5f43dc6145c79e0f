// Package diffmodel keeps the diff of two documents up to date.
//
// A Model marks itself stale as soon as either document or a diff option
// changes, waits for a quiet period and then asks the provider for a new
// diff. Only the newest attempt is ever committed; older ones are cancelled.
// The diff, the unchanged regions and the freshness flag are published
// together in one batch.
package diffmodel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pstuifzand/sidediff/internal/diff"
	"github.com/pstuifzand/sidediff/internal/model"
	"github.com/pstuifzand/sidediff/internal/observable"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period before a diff is computed
const DefaultDebounce = 1000 * time.Millisecond

// Document is a diffed document
type Document interface {
	Snapshot() *model.Snapshot
	OnDidChangeContent(fn func()) (unsubscribe func())
}

// Option configures a Model
type Option func(*Model)

// WithClock replaces the clock used for the debounce.
func WithClock(c Clock) Option {
	return func(m *Model) { m.clock = c }
}

// WithDebounce sets the quiet period before a computation starts.
func WithDebounce(d time.Duration) Option {
	return func(m *Model) { m.debounce = d }
}

// WithExecutor sets the function used to run commits. An event-loop owner
// passes a function that posts to its loop so that published state only
// changes on that loop. The default runs the commit directly on the
// computing goroutine.
func WithExecutor(post func(func())) Option {
	return func(m *Model) { m.post = post }
}

// WithErrorHandler is called with provider failures. The model stays stale.
func WithErrorHandler(fn func(error)) Option {
	return func(m *Model) { m.onError = fn }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// Model tracks the freshness of the diff between two documents.
type Model struct {
	original, modified Document
	provider           diff.Provider

	ignoreTrimWhitespace *observable.Value[bool]
	maxComputationTime   *observable.Value[time.Duration]

	isDiffUpToDate   *observable.Value[bool]
	diff             *observable.Value[*diff.Result]
	unchangedRegions *observable.Value[[]*UnchangedRegion]

	clock    Clock
	debounce time.Duration
	post     func(func())
	onError  func(error)
	logger   zerolog.Logger

	// commitMu orders commits against Refresh: an attempt is checked for
	// currency and committed without a Refresh in between.
	commitMu sync.Mutex
	// beforeCommit runs between the currency check and the commit.
	beforeCommit func()

	mu       sync.Mutex
	attempt  int
	cancel   context.CancelFunc
	timer    Timer
	disposed bool

	unsubscribe []func()
}

// New creates a model for original and modified and schedules the first
// computation. ignoreTrimWhitespace and maxComputationTime are read when an
// attempt is scheduled; changing them schedules a new one.
func New(original, modified Document, provider diff.Provider,
	ignoreTrimWhitespace *observable.Value[bool],
	maxComputationTime *observable.Value[time.Duration],
	opts ...Option,
) *Model {
	m := &Model{
		original:             original,
		modified:             modified,
		provider:             provider,
		ignoreTrimWhitespace: ignoreTrimWhitespace,
		maxComputationTime:   maxComputationTime,
		isDiffUpToDate:       observable.NewValue(false),
		diff:                 observable.NewValue[*diff.Result](nil),
		unchangedRegions:     observable.NewValue[[]*UnchangedRegion](nil),
		clock:                RealClock(),
		debounce:             DefaultDebounce,
		post:                 func(fn func()) { fn() },
		logger:               zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("component", "diffmodel").Logger()
	if m.onError == nil {
		m.onError = func(err error) {
			m.logger.Error().Err(err).Msg("Diff computation failed")
		}
	}

	m.unsubscribe = append(m.unsubscribe,
		original.OnDidChangeContent(m.Refresh),
		modified.OnDidChangeContent(m.Refresh),
		provider.OnDidChange(m.Refresh),
		ignoreTrimWhitespace.Subscribe(m.Refresh),
		maxComputationTime.Subscribe(m.Refresh),
	)
	m.Refresh()
	return m
}

// IsDiffUpToDate is true when Diff and UnchangedRegions match the current
// documents and options.
func (m *Model) IsDiffUpToDate() *observable.Value[bool] {
	return m.isDiffUpToDate
}

// Diff is the last committed diff, nil before the first commit.
func (m *Model) Diff() *observable.Value[*diff.Result] {
	return m.diff
}

// UnchangedRegions are the collapsible regions of the last committed diff.
// They are recreated on every commit, so revealed lines are not kept.
func (m *Model) UnchangedRegions() *observable.Value[[]*UnchangedRegion] {
	return m.unchangedRegions
}

// Refresh marks the diff stale, cancels any pending attempt and schedules a
// new one after the debounce period.
func (m *Model) Refresh() {
	m.mu.Lock()
	disposed := m.disposed
	m.mu.Unlock()
	if disposed {
		return
	}

	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	m.isDiffUpToDate.Set(false, nil)

	m.mu.Lock()
	m.stopLocked()
	m.attempt++
	attempt := m.attempt
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	opts := diff.Options{
		IgnoreTrimWhitespace: m.ignoreTrimWhitespace.Get(),
		MaxComputationTime:   m.maxComputationTime.Get(),
	}
	m.timer = m.clock.AfterFunc(m.debounce, func() {
		m.compute(ctx, attempt, opts)
	})
	m.mu.Unlock()

	m.logger.Debug().Int("attempt", attempt).Dur("debounce", m.debounce).Msg("Diff scheduled")
}

// isCurrent reports whether attempt is the latest one and still live.
func (m *Model) isCurrent(ctx context.Context, attempt int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ctx.Err() == nil && !m.disposed && m.attempt == attempt
}

// stopLocked cancels the pending timer and the running attempt.
func (m *Model) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) compute(ctx context.Context, attempt int, opts diff.Options) {
	if ctx.Err() != nil {
		return
	}
	original := m.original.Snapshot()
	modified := m.modified.Snapshot()

	go func() {
		start := m.clock.Now()
		result, err := m.provider.ComputeDiff(ctx, original, modified, opts)

		m.post(func() {
			if err != nil {
				if !m.isCurrent(ctx, attempt) || errors.Is(err, diff.ErrCanceled) {
					return
				}
				m.onError(err)
				return
			}
			if !m.commitIfCurrent(ctx, attempt, result, original.LineCount(), modified.LineCount()) {
				m.logger.Debug().Int("attempt", attempt).Msg("Diff superseded, result dropped")
				return
			}
			m.logger.Debug().
				Int("attempt", attempt).
				Int("changes", len(result.Changes)).
				Bool("quit_early", result.QuitEarly).
				Dur("elapsed", m.clock.Now().Sub(start)).
				Msg("Diff committed")
		})
	}()
}

// commitIfCurrent commits result when attempt is still the latest one. A
// concurrent Refresh waits until the commit is published.
func (m *Model) commitIfCurrent(ctx context.Context, attempt int, result *diff.Result, originalLineCount, modifiedLineCount int) bool {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	if !m.isCurrent(ctx, attempt) {
		return false
	}
	if m.beforeCommit != nil {
		m.beforeCommit()
	}
	m.commit(result, originalLineCount, modifiedLineCount)
	return true
}

func (m *Model) commit(result *diff.Result, originalLineCount, modifiedLineCount int) {
	regions := FromDiffs(result.Changes, originalLineCount, modifiedLineCount)
	observable.Batch(func(tx *observable.Transaction) {
		m.diff.Set(result, tx)
		m.isDiffUpToDate.Set(true, tx)
		m.unchangedRegions.Set(regions, tx)
	})
}

// Dispose cancels pending work and detaches the model from its inputs.
func (m *Model) Dispose() {
	m.mu.Lock()
	m.disposed = true
	m.stopLocked()
	m.mu.Unlock()

	for _, u := range m.unsubscribe {
		u()
	}
	m.unsubscribe = nil
}
