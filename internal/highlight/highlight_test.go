package highlight

import (
	"regexp"
	"testing"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestLinesKeepsLineCount(t *testing.T) {
	h := New("dracula")
	src := []string{
		"package main",
		"",
		"/* multi",
		"   line */",
		"func main() {}",
	}

	out := h.Lines("main.go", src)
	if len(out) != len(src) {
		t.Fatalf("expected %d lines, got %d", len(src), len(out))
	}
	for i := range src {
		if plain := ansi.ReplaceAllString(out[i], ""); plain != src[i] {
			t.Fatalf("line %d = %q, want %q", i, plain, src[i])
		}
	}
}

func TestLinesUnknownLanguage(t *testing.T) {
	out := New("no-such-style").Lines("notes.unknownext", []string{"plain text"})
	if len(out) != 1 || ansi.ReplaceAllString(out[0], "") != "plain text" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLinesEmpty(t *testing.T) {
	if out := New("dracula").Lines("a.go", nil); len(out) != 0 {
		t.Fatalf("expected no lines")
	}
}
