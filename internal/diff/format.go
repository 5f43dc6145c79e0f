package diff

import (
	"fmt"
	"strings"
)

// BuildDiffLines converts a Result into formatted display lines, one hunk per
// change. This is suitable for CLI output.
func BuildDiffLines(result *Result, original, modified []string, originalName, modifiedName string) []DiffLine {
	var out []DiffLine

	out = append(out, DiffLine{Type: DiffTypeHeader, Content: "--- " + originalName})
	out = append(out, DiffLine{Type: DiffTypeHeader, Content: "+++ " + modifiedName})

	if result == nil || result.Identical {
		out = append(out, DiffLine{Type: DiffTypeSummary, Content: "Files are identical"})
		return out
	}

	deleted, added := 0, 0
	for _, c := range result.Changes {
		out = append(out, DiffLine{
			Type: DiffTypeHunk,
			Content: fmt.Sprintf("@@ -%s +%s @@",
				hunkRange(c.Original.Start, c.Original.Len()),
				hunkRange(c.Modified.Start, c.Modified.Len())),
		})
		for l := c.Original.Start; l < c.Original.EndExclusive; l++ {
			out = append(out, DiffLine{Type: DiffTypeDeleted, Content: "-" + lineAt(original, l)})
			deleted++
		}
		for l := c.Modified.Start; l < c.Modified.EndExclusive; l++ {
			out = append(out, DiffLine{Type: DiffTypeAdded, Content: "+" + lineAt(modified, l)})
			added++
		}
	}

	summary := fmt.Sprintf("%d changes, %d lines deleted, %d lines added", len(result.Changes), deleted, added)
	if result.QuitEarly {
		summary += " (computation time limit reached)"
	}
	out = append(out, DiffLine{Type: DiffTypeSummary, Content: summary})
	return out
}

// hunkRange formats a start/length pair the way unified diffs do: an empty
// range is reported at the line before it.
func hunkRange(start, length int) string {
	if length == 0 {
		return fmt.Sprintf("%d,0", start-1)
	}
	if length == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, length)
}

func lineAt(ls []string, lineNumber int) string {
	if lineNumber < 1 || lineNumber > len(ls) {
		return ""
	}
	return ls[lineNumber-1]
}

// FormatText renders diff lines as plain text
func FormatText(dl []DiffLine) string {
	var b strings.Builder
	for _, l := range dl {
		b.WriteString(l.Content)
		b.WriteByte('\n')
	}
	return b.String()
}
