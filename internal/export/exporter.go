package export

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/cj3636/linediff/internal/compare"
	"github.com/cj3636/linediff/internal/diff"
)

// Format represents the desired export format.
type Format string

const (
	// FormatHTML emits an HTML document for the diff.
	FormatHTML Format = "html"
	// FormatMarkdown emits a Markdown diff code block.
	FormatMarkdown Format = "markdown"
	// FormatANSI emits an ANSI-colored string.
	FormatANSI Format = "ansi"
)

// ParseFormat maps user input onto a Format. Empty input selects Markdown.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(raw) {
	case "", string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatHTML), "htm":
		return FormatHTML, nil
	case string(FormatANSI), "text":
		return FormatANSI, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", raw)
	}
}

// Options control how a comparison is exported.
type Options struct {
	// Title will be shown in HTML/Markdown outputs when provided.
	Title string
	// ShowLineNumbers determines whether line numbers are included.
	ShowLineNumbers bool
}

// Render returns the comparison in the requested format.
func Render(cmp *compare.Comparison, format Format, opts Options) (string, error) {
	if cmp == nil || cmp.Result == nil {
		return "", errors.New("comparison is nil")
	}

	switch format {
	case FormatHTML:
		return renderHTML(cmp, opts), nil
	case FormatMarkdown:
		return renderMarkdown(cmp, opts), nil
	case FormatANSI:
		return renderANSI(cmp, opts), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// DefaultTitle describes the comparison as "<lhs> ↔ <rhs>".
func DefaultTitle(cmp *compare.Comparison) string {
	return fmt.Sprintf("%s ↔ %s", cmp.Result.LeftLabel, cmp.Result.RightLabel)
}

func header(cmp *compare.Comparison) []string {
	rows := []string{
		"repo: " + cmp.Pair.RepoPath,
		"lhs:  " + compare.Label(cmp.Pair.LHS),
		"rhs:  " + compare.Label(cmp.Pair.RHS),
		fmt.Sprintf("line: %d", cmp.Pair.Line+1),
	}
	if !cmp.Result.HasChanges() {
		rows = append(rows, "no differences")
	}
	return rows
}

func renderHTML(cmp *compare.Comparison, opts Options) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	b.WriteString("<style>body{background:#0f111a;color:#e5e7eb;font-family:Menlo,Consolas,monospace;}" +
		"pre{white-space:pre-wrap;word-wrap:break-word;}" +
		".added{background:#12281a;color:#8dd39e;}" +
		".removed{background:#2b1313;color:#f19999;}" +
		".unchanged{color:#cbd5e1;}" +
		".focus{outline:1px solid #818cf8;}" +
		"mark{background:transparent;color:inherit;font-weight:bold;text-decoration:underline;}" +
		".lineno{color:#9ca3af;margin-right:12px;}" +
		".meta{color:#9ca3af;}" +
		"h1{font-size:18px;margin-bottom:12px;}" +
		"</style></head><body>")

	title := opts.Title
	if title == "" {
		title = "Diff: " + DefaultTitle(cmp)
	}
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<pre class=\"meta\">%s</pre>\n<pre>", html.EscapeString(strings.Join(header(cmp), "\n")))

	for i, line := range cmp.Result.Lines {
		class, symbol := classifyLine(line)
		if i == cmp.FocusIndex {
			class += " focus"
		}
		prefix := symbol
		if opts.ShowLineNumbers {
			prefix = fmt.Sprintf("%s %s %s", renderLineNoHTML(line.LineNo1), renderLineNoHTML(line.LineNo2), symbol)
		}
		fmt.Fprintf(&b, "<div class=\"%s\">%s%s</div>\n", class, prefix, htmlContent(line))
	}

	b.WriteString("</pre></body></html>")
	return b.String()
}

func htmlContent(line diff.DiffLine) string {
	if len(line.Segments) == 0 {
		return html.EscapeString(line.Content)
	}
	var b strings.Builder
	for _, seg := range line.Segments {
		if seg.Changed {
			b.WriteString("<mark>" + html.EscapeString(seg.Text) + "</mark>")
		} else {
			b.WriteString(html.EscapeString(seg.Text))
		}
	}
	return b.String()
}

func renderLineNoHTML(no int) string {
	if no <= 0 {
		return "<span class=\"lineno\">&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;</span>"
	}
	return fmt.Sprintf("<span class=\"lineno\">%5d</span>", no)
}

func renderMarkdown(cmp *compare.Comparison, opts Options) string {
	var b strings.Builder

	if opts.Title != "" {
		b.WriteString("# ")
		b.WriteString(opts.Title)
		b.WriteString("\n\n")
	}
	for _, h := range header(cmp) {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	b.WriteString("\n")

	b.WriteString("```diff\n")
	for i, line := range cmp.Result.Lines {
		symbol := lineSymbol(line.Type)
		marker := " "
		if i == cmp.FocusIndex {
			marker = ">"
		}
		if opts.ShowLineNumbers {
			fmt.Fprintf(&b, "%s%s %5s %5s %s\n", symbol, marker, renderLineNo(line.LineNo1), renderLineNo(line.LineNo2), line.Content)
		} else {
			fmt.Fprintf(&b, "%s%s %s\n", symbol, marker, line.Content)
		}
	}
	b.WriteString("```\n")
	return b.String()
}

func renderANSI(cmp *compare.Comparison, opts Options) string {
	const (
		reset     = "\u001b[0m"
		emphasize = "\u001b[1;4m"
		faint     = "\u001b[90m"
	)

	var b strings.Builder
	if opts.Title != "" {
		fmt.Fprintf(&b, "%s\n", opts.Title)
	}
	for _, h := range header(cmp) {
		fmt.Fprintf(&b, "%s%s%s\n", faint, h, reset)
	}
	b.WriteString("\n")

	for i, line := range cmp.Result.Lines {
		symbol := lineSymbol(line.Type)
		color := ansiColor(line.Type)
		marker := " "
		if i == cmp.FocusIndex {
			marker = ">"
		}

		var content strings.Builder
		if len(line.Segments) == 0 {
			content.WriteString(line.Content)
		} else {
			for _, seg := range line.Segments {
				if seg.Changed {
					content.WriteString(emphasize + seg.Text + reset + color)
				} else {
					content.WriteString(seg.Text)
				}
			}
		}

		if opts.ShowLineNumbers {
			prefix := fmt.Sprintf("%s%s %s %s", marker, renderLineNoColored(line.LineNo1), renderLineNoColored(line.LineNo2), color+symbol+reset)
			fmt.Fprintf(&b, "%s %s%s%s\n", prefix, color, content.String(), reset)
		} else {
			fmt.Fprintf(&b, "%s%s%s %s%s\n", marker, color, symbol, content.String(), reset)
		}
	}
	return b.String()
}

func classifyLine(line diff.DiffLine) (class, symbol string) {
	switch line.Type {
	case diff.Added:
		return "added", "+"
	case diff.Removed:
		return "removed", "-"
	default:
		return "unchanged", " "
	}
}

func lineSymbol(t diff.LineType) string {
	_, symbol := classifyLine(diff.DiffLine{Type: t})
	return symbol
}

func renderLineNo(no int) string {
	if no <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", no)
}

func renderLineNoColored(no int) string {
	if no <= 0 {
		return "     "
	}
	return fmt.Sprintf("\u001b[90m%5d\u001b[0m", no)
}

func ansiColor(t diff.LineType) string {
	switch t {
	case diff.Added:
		return "\u001b[32m"
	case diff.Removed:
		return "\u001b[31m"
	default:
		return "\u001b[37m"
	}
}
