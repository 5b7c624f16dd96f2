// Package diff renders line diffs between an expected and a freshly
// generated document, such as a committed stylesheet and a recompiled one.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// Lines returns a unified-style diff of expected against actual, or "" when
// they are identical. Output longer than 10,000 lines is truncated.
func Lines(expected, actual, expectedLabel, actualLabel string) string {
	if expected == actual {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out []string
	out = append(out,
		"--- "+expectedLabel,
		"+++ "+actualLabel,
		fmt.Sprintf("@@ -1,%d +1,%d @@", countLines(expected), countLines(actual)),
	)

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			out = append(out, prefix+line)
		}
	}

	if len(out) > maxDiffLines {
		out = append(out[:maxDiffLines], truncateMessage)
	}
	return strings.Join(out, "\n") + "\n"
}

// Changed counts the inserted and deleted lines between expected and actual.
func Changed(expected, actual string) (inserted, deleted int) {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(expected, actual)
	for _, d := range dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len(splitLines(d.Text))
		case diffmatchpatch.DiffDelete:
			deleted += len(splitLines(d.Text))
		}
	}
	return inserted, deleted
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func countLines(text string) int {
	return len(splitLines(text))
}
