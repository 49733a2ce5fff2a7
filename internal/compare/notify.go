package compare

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// WriterNotifier prints warnings to a writer, typically stderr.
type WriterNotifier struct {
	w     io.Writer
	style lipgloss.Style
}

// NewWriterNotifier returns a notifier rendering warnings with color.
func NewWriterNotifier(w io.Writer, color lipgloss.Color) *WriterNotifier {
	return &WriterNotifier{w: w, style: lipgloss.NewStyle().Foreground(color).Bold(true)}
}

func (n *WriterNotifier) Warn(msg string) {
	fmt.Fprintln(n.w, n.style.Render(msg))
}
