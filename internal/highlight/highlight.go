package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter colors source lines for a terminal.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// New returns a highlighter using the named chroma style, falling back to
// the chroma default for unknown names.
func New(styleName string) *Highlighter {
	return &Highlighter{
		style:     styles.Get(styleName),
		formatter: formatters.Get("terminal256"),
	}
}

// Lines highlights lines as one document so multi-line tokens keep their
// colors, and returns one rendered string per input line. On failure the
// input is returned unchanged.
func (h *Highlighter) Lines(filename string, lines []string) []string {
	if len(lines) == 0 {
		return lines
	}

	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, strings.Join(lines, "\n")+"\n")
	if err != nil {
		return lines
	}

	out := make([]string, 0, len(lines))
	for _, tokens := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		var b strings.Builder
		if err := h.formatter.Format(&b, h.style, chroma.Literator(trimNewline(tokens)...)); err != nil {
			return lines
		}
		out = append(out, b.String())
	}

	// the lexer may merge or drop trailing empty lines
	for len(out) < len(lines) {
		out = append(out, lines[len(out)])
	}
	return out[:len(lines)]
}

func trimNewline(tokens []chroma.Token) []chroma.Token {
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		last.Value = strings.TrimSuffix(last.Value, "\n")
		tokens = append(tokens[:n-1:n-1], last)
	}
	return tokens
}
