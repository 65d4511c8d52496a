// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package markdown

import (
	"strings"
	"unicode/utf8"
)

// lineKind classifies one description line.
type lineKind int

const (
	lineText lineKind = iota
	lineBlank
	lineFence
	lineCode
	lineList
	lineBlock
)

// blockPrefixes start markdown lines that bypass paragraph wrapping.
var blockPrefixes = []string{"#", ">", "|", "---", "***", "___"}

// docFormatter wraps plain paragraphs and keeps markdown structure intact.
type docFormatter struct {
	width  int
	marker string
}

// format normalizes a doc string into markdown.
// Paragraphs are joined and wrapped, list markers are unified and fenced or
// indented code is copied verbatim.
func (f docFormatter) format(text string) string {
	text = strings.TrimSpace(normalizeLineEndings(text))
	if text == "" {
		return ""
	}

	var (
		out       []string
		paragraph []string
		fenced    bool
	)

	flush := func() {
		if len(paragraph) > 0 {
			out = append(out, wrapParagraph(strings.Join(paragraph, " "), f.width)...)
			paragraph = paragraph[:0]
		}
	}

	blank := func() {
		if len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t")
		kind := classifyLine(line)

		if fenced {
			out = append(out, line)
			if kind == lineFence {
				fenced = false
			}

			continue
		}

		switch kind {
		case lineBlank:
			flush()
			blank()
		case lineFence:
			flush()
			out = append(out, line)
			fenced = true
		case lineCode, lineBlock:
			flush()
			out = append(out, line)
		case lineList:
			if len(paragraph) > 0 {
				flush()
				blank()
			}

			out = append(out, f.listLine(line))
		default:
			paragraph = append(paragraph, strings.TrimSpace(line))
		}
	}

	flush()
	return strings.Join(out, "\n")
}

// listLine rewrites list indentation to two columns per level and unifies
// unordered markers.
func (f docFormatter) listLine(line string) string {
	level := indentColumns(line)
	if level <= 1 {
		level = 0
	} else {
		level /= 2
	}

	trimmed := strings.TrimSpace(line)
	if content, ok := unorderedItem(trimmed); ok {
		return strings.Repeat("  ", level) + f.marker + " " + content
	}

	number, content, _ := orderedItem(trimmed)
	return strings.Repeat("  ", level) + number + " " + content
}

// classifyLine reports how a description line participates in formatting.
func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return lineBlank
	case strings.HasPrefix(trimmed, "```"):
		return lineFence
	case strings.HasPrefix(line, "    "), strings.HasPrefix(line, "\t"):
		return lineCode
	}

	if _, ok := unorderedItem(trimmed); ok {
		return lineList
	}

	if _, _, ok := orderedItem(trimmed); ok {
		return lineList
	}

	for _, prefix := range blockPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return lineBlock
		}
	}

	return lineText
}

// unorderedItem splits "- item", "* item" or "+ item".
func unorderedItem(trimmed string) (content string, ok bool) {
	if len(trimmed) < 2 || !strings.ContainsRune("-*+", rune(trimmed[0])) {
		return "", false
	}

	if trimmed[1] != ' ' && trimmed[1] != '\t' {
		return "", false
	}

	return strings.TrimSpace(trimmed[2:]), true
}

// orderedItem splits "1. item" or "1) item".
func orderedItem(trimmed string) (number, content string, ok bool) {
	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}

	if digits == 0 || digits+1 >= len(trimmed) {
		return "", "", false
	}

	if trimmed[digits] != '.' && trimmed[digits] != ')' {
		return "", "", false
	}

	if trimmed[digits+1] != ' ' && trimmed[digits+1] != '\t' {
		return "", "", false
	}

	return trimmed[:digits+1], strings.TrimSpace(trimmed[digits+1:]), true
}

// indentColumns returns the visual width of leading spaces and tabs.
func indentColumns(line string) int {
	columns := 0
	for _, r := range line {
		switch r {
		case ' ':
			columns++
		case '\t':
			columns += 4
		default:
			return columns
		}
	}

	return columns
}

// wrapParagraph wraps text at width runes, never splitting words.
func wrapParagraph(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var out []string
	current := words[0]
	length := utf8.RuneCountInString(current)
	for _, word := range words[1:] {
		size := utf8.RuneCountInString(word)
		if length+1+size <= width {
			current += " " + word
			length += 1 + size
			continue
		}

		out = append(out, current)
		current, length = word, size
	}

	return append(out, current)
}

// cell flattens text for one table cell.
func cell(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return strings.ReplaceAll(text, "|", `\|`)
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// normalizeOutput trims trailing spaces and collapses blank runs outside
// fenced blocks, ending the document with one newline.
func normalizeOutput(text string) string {
	lines := strings.Split(normalizeLineEndings(text), "\n")
	out := make([]string, 0, len(lines))

	fenced := false
	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			fenced = !fenced
		} else if !fenced && line == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}

		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n"
}
