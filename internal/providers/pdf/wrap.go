package pdf

import (
	"strings"
	"unicode/utf8"
)

// Wrap splits s into lines of at most width runes. Lines break at the last
// space within the limit. A word longer than width is cut at the limit.
// Empty input yields a single empty line.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}

	runes := []rune(strings.TrimSpace(s))
	if len(runes) == 0 {
		return []string{""}
	}

	var lines []string
	for len(runes) > width {
		cut := lastSpace(runes, width)
		if cut > 0 {
			lines = append(lines, strings.TrimRight(string(runes[:cut]), " "))
			runes = trimLeadingSpaces(runes[cut+1:])
			continue
		}
		lines = append(lines, string(runes[:width]))
		runes = trimLeadingSpaces(runes[width:])
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}

// WrapText wraps each newline-separated paragraph of s.
func WrapText(s string, width int) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		lines = append(lines, Wrap(paragraph, width)...)
	}
	return lines
}

// lastSpace returns the index of the last space at or before width, or -1.
func lastSpace(runes []rune, width int) int {
	if width >= len(runes) {
		width = len(runes) - 1
	}
	for i := width; i > 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

func trimLeadingSpaces(runes []rune) []rune {
	for len(runes) > 0 && runes[0] == ' ' {
		runes = runes[1:]
	}
	return runes
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
