package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	multiSpace      = regexp.MustCompile(`\s{2,}`)
	standaloneValue = regexp.MustCompile(`^\$?[\d,]+\.?\d*$`)
)

// Tokenize splits one pasted line into fields.
//
// Tabs win (spreadsheet copy), then runs of two or more spaces. Lines with
// neither are split on single spaces and consecutive words are glued back
// together until a token that looks like a standalone value shows up.
func Tokenize(line string) []string {
	line = strings.TrimRight(line, "\r\n")

	switch {
	case strings.Contains(line, "\t"):
		return trimAll(strings.Split(line, "\t"))
	case strings.Contains(line, "  "):
		return trimAll(multiSpace.Split(strings.TrimSpace(line), -1))
	default:
		return groupWords(strings.Fields(line))
	}
}

// SplitLines breaks pasted text into its non-blank lines.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func groupWords(words []string) []string {
	fields := make([]string, 0, len(words))
	var run []string

	flush := func() {
		if len(run) > 0 {
			fields = append(fields, strings.Join(run, " "))
			run = run[:0]
		}
	}

	for _, word := range words {
		if looksStandalone(word) {
			flush()
			fields = append(fields, word)
			continue
		}
		run = append(run, word)
	}
	flush()

	return fields
}

func looksStandalone(token string) bool {
	return standaloneValue.MatchString(token) ||
		utf8.RuneCountInString(token) <= 3 ||
		strings.ContainsAny(token, "$%")
}

func trimAll(parts []string) []string {
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
