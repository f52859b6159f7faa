package utils

import (
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo wörld", 7, "héllo w"},
		{"日本語テキスト", 3, "日本語"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestStripMarkdownLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"- Developed a cache", "Developed a cache"},
		{"* **Implemented** LRU eviction", "Implemented LRU eviction"},
		{"1. Optimized `Get` path", "Optimized Get path"},
		{"## Overview", "Overview"},
		{"  plain text  ", "plain text"},
	}
	for _, tt := range tests {
		if got := StripMarkdownLine(tt.in); got != tt.want {
			t.Errorf("StripMarkdownLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"markdown fence", "```markdown\n# Title\ntext\n```", "# Title\ntext"},
		{"bare fence", "```\n# Title\n```\n", "# Title"},
		{"no fence", "# Title\n", "# Title\n"},
		{"unterminated single line", "```", "```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNonEmptyLines(t *testing.T) {
	got := NonEmptyLines("a\n\n  b \n\t\nc")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("NonEmptyLines() = %q", got)
	}
}
