// Command diff-align prints the line changes between two files together with
// the side-by-side alignment and the unchanged regions a diff view would use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/pstuifzand/sidediff/internal/alignment"
	"github.com/pstuifzand/sidediff/internal/diff"
	"github.com/pstuifzand/sidediff/internal/diffmodel"
	"github.com/pstuifzand/sidediff/internal/model"
	"github.com/pstuifzand/sidediff/internal/pane"
	"github.com/pstuifzand/sidediff/internal/storage"
)

// Report is the JSON output
type Report struct {
	Original   string         `json:"original"`
	Modified   string         `json:"modified"`
	Identical  bool           `json:"identical"`
	QuitEarly  bool           `json:"quit_early"`
	Changes    []ChangeReport `json:"changes"`
	Alignments []AlignReport  `json:"alignments"`
	Regions    []RegionReport `json:"regions"`
}

// ChangeReport describes one changed line range pair
type ChangeReport struct {
	Original     string `json:"original"`
	Modified     string `json:"modified"`
	InnerChanges int    `json:"inner_changes"`
}

// AlignReport describes one aligned range pair
type AlignReport struct {
	Original       string `json:"original"`
	Modified       string `json:"modified"`
	OriginalHeight int    `json:"original_height"`
	ModifiedHeight int    `json:"modified_height"`
}

// RegionReport describes one collapsible unchanged region
type RegionReport struct {
	OriginalLine int    `json:"original_line"`
	ModifiedLine int    `json:"modified_line"`
	LineCount    int    `json:"line_count"`
	Hidden       string `json:"hidden"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("diff-align", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Write a JSON report")
	unified := fs.Bool("u", false, "Write unified hunks instead of the alignment")
	width := fs.Int("width", 0, "Soft-wrap lines at this width (0 disables wrapping)")
	ignoreWS := fs.Bool("ignore-ws", false, "Ignore leading and trailing whitespace")
	algorithm := fs.String("algorithm", string(diff.AlgorithmAdvanced), "Diff algorithm: advanced or legacy")
	timeout := fs.Duration("timeout", 5*time.Second, "Maximum diff computation time (0 = none)")
	debug := fs.Bool("debug", false, "Dump internal structures to stderr")
	stampFormat := fs.String("time-format", storage.DefaultStampFormat, "strftime layout for file timestamps in unified headers")
	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: diff-align [options] <original> <modified>

Shows how a side-by-side diff view lines up two files: the changed line
ranges, the aligned range pairs with their heights in rows, and the
unchanged regions that would be collapsed.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	level := zerolog.WarnLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	alg, ok := diff.ParseAlgorithm(*algorithm)
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown algorithm %q\n", *algorithm)
		return 2
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		// Allow the cut-off diff to finish before giving up entirely.
		ctx, cancel = context.WithTimeout(ctx, 2**timeout)
		defer cancel()
	}

	original, modified, err := storage.LoadPair(ctx, fs.Arg(0), fs.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	start := time.Now()
	result, err := diff.NewLinesProvider(alg).ComputeDiff(ctx, original.Snapshot(), modified.Snapshot(), diff.Options{
		IgnoreTrimWhitespace: *ignoreWS,
		MaxComputationTime:   *timeout,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger.Debug().Int("changes", len(result.Changes)).Dur("elapsed", time.Since(start)).Msg("diff computed")

	if *unified {
		fmt.Fprint(stdout, diff.FormatText(diff.BuildDiffLines(result, original.Lines(), modified.Lines(),
			storage.Header(fs.Arg(0), *stampFormat), storage.Header(fs.Arg(1), *stampFormat))))
		return 0
	}

	report := buildReport(result, original, modified, *width)
	if *debug {
		spew.Fdump(stderr, result)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	writeText(stdout, report)
	return 0
}

func buildReport(result *diff.Result, original, modified *model.Document, width int) *Report {
	report := &Report{
		Original:  original.Name(),
		Modified:  modified.Name(),
		Identical: result.Identical,
		QuitEarly: result.QuitEarly,
	}

	for _, c := range result.Changes {
		report.Changes = append(report.Changes, ChangeReport{
			Original:     c.Original.String(),
			Modified:     c.Modified.String(),
			InnerChanges: len(c.Inner),
		})
	}

	origPane, modPane := pane.New(original), pane.New(modified)
	defer origPane.Dispose()
	defer modPane.Dispose()
	for _, p := range []*pane.Pane{origPane, modPane} {
		p.SetWidth(width)
		p.SetWordWrap(width > 0)
	}
	none := func(string) bool { return false }
	for _, a := range alignment.ComputeForPanes(origPane, modPane, result.Changes, none, none) {
		report.Alignments = append(report.Alignments, AlignReport{
			Original:       a.Original.String(),
			Modified:       a.Modified.String(),
			OriginalHeight: a.OriginalHeight,
			ModifiedHeight: a.ModifiedHeight,
		})
	}

	for _, r := range diffmodel.FromDiffs(result.Changes, original.LineCount(), modified.LineCount()) {
		report.Regions = append(report.Regions, RegionReport{
			OriginalLine: r.OriginalLineNumber,
			ModifiedLine: r.ModifiedLineNumber,
			LineCount:    r.LineCount,
			Hidden:       r.HiddenModifiedRange().String(),
		})
	}
	return report
}

func writeText(w io.Writer, r *Report) {
	fmt.Fprintf(w, "--- %s\n+++ %s\n", r.Original, r.Modified)
	if r.Identical {
		fmt.Fprintln(w, "Files are identical")
		return
	}
	if r.QuitEarly {
		fmt.Fprintln(w, "warning: computation time limit reached, result may be incomplete")
	}

	fmt.Fprintf(w, "\nChanges (%d):\n", len(r.Changes))
	for _, c := range r.Changes {
		fmt.Fprintf(w, "  %s -> %s", c.Original, c.Modified)
		if c.InnerChanges > 0 {
			fmt.Fprintf(w, " (%d inner)", c.InnerChanges)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nAlignments (%d):\n", len(r.Alignments))
	for _, a := range r.Alignments {
		fmt.Fprintf(w, "  %s h=%d  |  %s h=%d\n", a.Original, a.OriginalHeight, a.Modified, a.ModifiedHeight)
	}

	fmt.Fprintf(w, "\nUnchanged regions (%d):\n", len(r.Regions))
	for _, reg := range r.Regions {
		fmt.Fprintf(w, "  original %d, modified %d, %d lines, hidden %s\n",
			reg.OriginalLine, reg.ModifiedLine, reg.LineCount, reg.Hidden)
	}
}
