package export

import (
	"io"
	"os"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// CopyToClipboard writes the content to the terminal clipboard using OSC52.
// The writer defaults to stdout when nil. Inside tmux or screen the sequence
// is wrapped so it reaches the outer terminal.
func CopyToClipboard(content string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	seq := osc52.New(content)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}

	_, err := seq.WriteTo(w)
	return err
}
