package scanner

import (
	"log"
	"strings"
)

// bracketPairs lists the value delimiters whose imbalance triggers
// multi-line folding, checked in this order.
var bracketPairs = []struct{ open, close string }{
	{"[", "]"},
	{"{", "}"},
	{"(", ")"},
}

// ExtractSettings reads a settings-style file and returns every top-level
// UPPER_KEY assignment. Values that open a bracket, brace, or paren
// without closing it are folded across lines with single-space joins; the
// entry keeps its starting line number. Duplicate keys are all retained.
func ExtractSettings(path string) []SettingInfo {
	lines, err := ReadLines(path)
	if err != nil {
		log.Printf("settings: skipping unreadable file %s: %v", path, err)
		return []SettingInfo{}
	}
	return ScanSettingsSource(lines)
}

// ScanSettingsSource runs the settings scan over pre-split lines.
func ScanSettingsSource(lines []string) []SettingInfo {
	out := []SettingInfo{}
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if isBlank(line) || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		m := MatchSetting(line)
		if m == nil {
			continue
		}

		value := stripTrailingComment(strings.TrimSpace(m.Value))

		if closing := unterminatedBracket(value); closing != "" {
			// Consume raw continuation lines, comments and all, until the
			// matching closing character appears, inclusive.
			j := i + 1
			for ; j < len(lines); j++ {
				value += " " + strings.TrimSpace(lines[j])
				if strings.Contains(lines[j], closing) {
					break
				}
			}
			out = append(out, SettingInfo{Key: m.Key, Value: value, Line: i})
			i = j
			continue
		}

		out = append(out, SettingInfo{Key: m.Key, Value: value, Line: i})
	}
	return out
}

// stripTrailingComment removes an end-of-line comment from a value unless
// the comment marker is the value's first character.
func stripTrailingComment(value string) string {
	idx := strings.Index(value, "#")
	if idx <= 0 {
		return value
	}
	return strings.TrimSpace(value[:idx])
}

// unterminatedBracket returns the closing character for the first bracket
// kind that is opened but not closed in value, or "" when the value is
// balanced.
func unterminatedBracket(value string) string {
	for _, pair := range bracketPairs {
		if strings.Count(value, pair.open) > strings.Count(value, pair.close) {
			return pair.close
		}
	}
	return ""
}
