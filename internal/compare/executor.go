package compare

import (
	"context"
	"fmt"

	"github.com/cj3636/linediff/internal/diff"
	"github.com/cj3636/linediff/internal/revision"
)

// ContentReader loads a file at a revision.
type ContentReader interface {
	ReadLines(ctx context.Context, rev revision.Revision, loc revision.FileIdentity) ([]string, error)
}

// Options are display options forwarded with a comparison request.
type Options struct {
	IgnoreWhitespace bool
	Intraline        bool
}

// Comparison is a rendered-ready diff of a resolved revision pair.
type Comparison struct {
	Pair   revision.RevisionPair
	Result *diff.DiffResult
	// FocusIndex is the diff row for Pair.Line, -1 when the diff is empty.
	FocusIndex int
}

// Executor turns a revision pair into a diff.
type Executor struct {
	reader ContentReader
}

// NewExecutor returns an executor reading content through reader.
func NewExecutor(reader ContentReader) *Executor {
	return &Executor{reader: reader}
}

// Execute loads both sides of pair and diffs them.
func (e *Executor) Execute(ctx context.Context, pair revision.RevisionPair, opts Options) (*Comparison, error) {
	left, err := e.reader.ReadLines(ctx, pair.LHS.Revision, pair.LHS.Location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", Label(pair.LHS), err)
	}

	right, err := e.reader.ReadLines(ctx, pair.RHS.Revision, pair.RHS.Location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", Label(pair.RHS), err)
	}

	engine := diff.NewEngine(diff.Options{IgnoreWhitespace: opts.IgnoreWhitespace, Intraline: opts.Intraline})
	result := engine.DiffLines(left, right, Label(pair.LHS), Label(pair.RHS))

	return &Comparison{
		Pair:       pair,
		Result:     result,
		FocusIndex: result.IndexOfRightLine(pair.Line + 1),
	}, nil
}

// Label names a side as "<revision>:<path>".
func Label(s revision.Side) string {
	return fmt.Sprintf("%s:%s", s.Revision.Label(), s.Location.Path)
}
