package scanner

import (
	"os"
	"strings"
)

// SplitLines splits file text into raw lines. "\n" is the sole splitter;
// a trailing "\r" from CRLF files is dropped so matchers see clean text.
// Indices into the returned slice are the 0-based line numbers reported
// on every extracted entity.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ReadLines reads a file and splits it into lines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// indentOf returns the column width of a line's leading whitespace.
// Each rune counts as one column; this engine only ever compares indents
// within one file, where mixed tabs and spaces are already broken input.
func indentOf(line string) int {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return len(line)
}

// isBlank reports whether a line contains only whitespace.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// parenDelta returns the count of '(' minus ')' in a line. Used to track
// multi-line field definitions; parentheses inside string literals are
// counted too, which matches the heuristic nature of the engine.
func parenDelta(line string) int {
	return strings.Count(line, "(") - strings.Count(line, ")")
}
