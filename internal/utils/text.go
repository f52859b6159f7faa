package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TruncateRunes returns at most n runes of s
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

var (
	bulletPrefix  = regexp.MustCompile(`^\s*(?:[-*+•]|\d+[.)])\s+`)
	headingPrefix = regexp.MustCompile(`^\s*#{1,6}\s*`)
	emphasis      = regexp.MustCompile("\\*\\*|__|`")
)

// StripMarkdownLine removes list markers, heading markers and emphasis from
// a single line of model output
func StripMarkdownLine(line string) string {
	line = headingPrefix.ReplaceAllString(line, "")
	line = bulletPrefix.ReplaceAllString(line, "")
	line = emphasis.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// NonEmptyLines splits s into trimmed, non-blank lines
func NonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// StripCodeFence removes a single wrapping ``` fence, with or without a
// language tag
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return s
	}
	body := trimmed[nl+1:]
	body = strings.TrimRight(body, " \t\r\n")
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
