// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package dmdoc

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines kept around each change.
const diffContext = 3

// diffLine is one line of a line level diff.
type diffLine struct {
	op   diffpatch.Operation
	text string
}

// UnifiedDiff returns a unified diff from the file at path to rendered.
// Equal inputs give an empty string.
func UnifiedDiff(path, current, rendered string) string {
	if current == rendered {
		return ""
	}

	lines := lineDiff(current, rendered)

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n+++ %s (rendered)\n", path, path)

	for start := 0; start < len(lines); {
		first := nextChange(lines, start)
		if first < 0 {
			break
		}

		from := max(first-diffContext, start)
		to := hunkEnd(lines, first)
		writeHunk(&out, lines, from, to)
		start = to
	}

	return out.String()
}

// lineDiff diffs a and b line by line.
func lineDiff(a, b string) []diffLine {
	dmp := diffpatch.New()
	charsA, charsB, index := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), index)

	var lines []diffLine
	for _, diff := range diffs {
		text := strings.TrimSuffix(diff.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			lines = append(lines, diffLine{op: diff.Type, text: line})
		}
	}

	return lines
}

// nextChange returns the index of the first changed line at or after start, or -1.
func nextChange(lines []diffLine, start int) int {
	for i := start; i < len(lines); i++ {
		if lines[i].op != diffpatch.DiffEqual {
			return i
		}
	}

	return -1
}

// hunkEnd extends a hunk over changes closer than twice the context.
func hunkEnd(lines []diffLine, first int) int {
	end, equal := first, 0
	for i := first; i < len(lines); i++ {
		if lines[i].op != diffpatch.DiffEqual {
			end, equal = i+1, 0
			continue
		}

		equal++
		if equal > 2*diffContext {
			break
		}
	}

	return min(end+diffContext, len(lines))
}

// writeHunk writes lines[from:to] with an "@@" header carrying line ranges.
func writeHunk(out *strings.Builder, lines []diffLine, from, to int) {
	oldStart, newStart := 1, 1
	for _, line := range lines[:from] {
		if line.op != diffpatch.DiffInsert {
			oldStart++
		}

		if line.op != diffpatch.DiffDelete {
			newStart++
		}
	}

	var body strings.Builder
	oldCount, newCount := 0, 0
	for _, line := range lines[from:to] {
		switch line.op {
		case diffpatch.DiffDelete:
			oldCount++
			body.WriteString("-" + line.text + "\n")
		case diffpatch.DiffInsert:
			newCount++
			body.WriteString("+" + line.text + "\n")
		default:
			oldCount++
			newCount++
			body.WriteString(" " + line.text + "\n")
		}
	}

	fmt.Fprintf(out, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	out.WriteString(body.String())
}
