package diff

import (
	"strings"
	"testing"
)

func TestDiffLinesRows(t *testing.T) {
	e := NewEngine(Options{})
	left := []string{"a", "b", "c", "d"}
	right := []string{"a", "B", "c", "d", "e"}

	res := e.DiffLines(left, right, "HEAD:x", "working:x")

	var kinds strings.Builder
	for _, l := range res.Lines {
		switch l.Type {
		case Equal:
			kinds.WriteByte('=')
		case Added:
			kinds.WriteByte('+')
		case Removed:
			kinds.WriteByte('-')
		}
	}
	if got := kinds.String(); got != "=-+==+" {
		t.Fatalf("row kinds = %q", got)
	}

	added, removed, unchanged := res.GetStats()
	if added != 2 || removed != 1 || unchanged != 3 {
		t.Fatalf("stats = +%d -%d =%d", added, removed, unchanged)
	}
	if !res.HasChanges() {
		t.Fatalf("expected changes")
	}
	if res.LeftLabel != "HEAD:x" || res.RightLabel != "working:x" {
		t.Fatalf("labels not kept")
	}
}

func TestDiffLinesIdentical(t *testing.T) {
	res := NewEngine(Options{}).DiffLines([]string{"x"}, []string{"x"}, "l", "r")
	if res.HasChanges() {
		t.Fatalf("identical input has no changes")
	}
}

func TestDiffLinesIgnoreWhitespace(t *testing.T) {
	left := []string{"func main() {", "\treturn", "}"}
	right := []string{"func main()  {", "    return", "}"}

	if !NewEngine(Options{}).DiffLines(left, right, "l", "r").HasChanges() {
		t.Fatalf("whitespace change should count by default")
	}

	res := NewEngine(Options{IgnoreWhitespace: true}).DiffLines(left, right, "l", "r")
	if res.HasChanges() {
		t.Fatalf("whitespace-only change should be ignored")
	}
	if res.Lines[1].Content != "    return" {
		t.Fatalf("equal rows show the right side, got %q", res.Lines[1].Content)
	}
}

func TestDiffLinesIntraline(t *testing.T) {
	res := NewEngine(Options{Intraline: true}).DiffLines(
		[]string{"total := price * qty"},
		[]string{"total := price * quantity"},
		"l", "r",
	)
	if len(res.Lines) != 2 {
		t.Fatalf("expected replaced pair, got %d rows", len(res.Lines))
	}

	removed, added := res.Lines[0], res.Lines[1]
	if removed.Type != Removed || added.Type != Added {
		t.Fatalf("unexpected row order")
	}
	if joinSegments(removed.Segments) != removed.Content || joinSegments(added.Segments) != added.Content {
		t.Fatalf("segments must reassemble the line")
	}

	var changed []string
	for _, s := range added.Segments {
		if s.Changed {
			changed = append(changed, s.Text)
		}
	}
	if len(changed) == 0 {
		t.Fatalf("expected a changed segment on the added side")
	}
	if strings.Contains(strings.Join(changed, ""), "total") {
		t.Fatalf("unchanged prefix marked as changed: %q", changed)
	}
}

func TestIndexOfRightLine(t *testing.T) {
	res := NewEngine(Options{}).DiffLines(
		[]string{"a", "b", "c"},
		[]string{"a", "x", "c", "d"},
		"l", "r",
	)

	tests := []struct {
		line int
		want int
	}{
		{1, 0},
		{2, 2}, // rows: =a -b +x =c +d
		{3, 3},
		{4, 4},
		{9, 4},
	}
	for _, tt := range tests {
		if got := res.IndexOfRightLine(tt.line); got != tt.want {
			t.Fatalf("IndexOfRightLine(%d) = %d, want %d", tt.line, got, tt.want)
		}
	}

	empty := &DiffResult{}
	if empty.IndexOfRightLine(1) != -1 {
		t.Fatalf("empty diff has no rows")
	}
}

func TestSimpleDiff(t *testing.T) {
	rows := simpleDiff([]string{"a", "b"}, []string{"a", "c", "d"})
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Type != Equal || rows[1].Type != Removed || rows[2].Type != Added || rows[3].Type != Added {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func joinSegments(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
