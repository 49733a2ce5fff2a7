package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cj3636/linediff/internal/compare"
)

// Presenter renders comparisons without a TUI: to a file, to the clipboard,
// or to Out when neither is requested.
type Presenter struct {
	Format  Format
	Options Options
	File    string
	Copy    bool
	Out     io.Writer
}

// Present implements compare.Presenter.
func (p *Presenter) Present(_ context.Context, cmp *compare.Comparison) error {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	opts := p.Options
	if opts.Title == "" {
		opts.Title = DefaultTitle(cmp)
	}

	rendered, err := Render(cmp, p.Format, opts)
	if err != nil {
		return err
	}

	if p.File != "" {
		if err := os.WriteFile(p.File, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(out, "Diff saved to %s\n", p.File)
	}

	if p.Copy {
		if err := CopyToClipboard(rendered, out); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(out, "Diff copied to clipboard.")
	}

	if p.File == "" && !p.Copy {
		fmt.Fprintln(out, rendered)
	}
	return nil
}
