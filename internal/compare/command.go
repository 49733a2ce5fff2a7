package compare

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/cj3636/linediff/internal/revision"
)

// Warning messages shown to the user.
const (
	MsgNotUnderSourceControl = "Unable to open compare. File is not under source control"
	MsgWorkingFileMissing    = "Unable to open compare. File has been deleted from the working tree"
	MsgGeneric               = "Unable to open compare. See the log for details"
)

// Resolver picks the revision pair for a line.
type Resolver interface {
	Resolve(ctx context.Context, req revision.Request) (*revision.RevisionPair, error)
}

// Notifier surfaces warnings to the user.
type Notifier interface {
	Warn(msg string)
}

// Presenter shows a finished comparison.
type Presenter interface {
	Present(ctx context.Context, cmp *Comparison) error
}

// Args are the inputs of one "diff line with working" invocation.
type Args struct {
	Request revision.Request
	Options Options
}

// Command compares a line's commit with the working copy.
type Command struct {
	resolver  Resolver
	executor  *Executor
	notifier  Notifier
	presenter Presenter
	logger    *log.Logger
}

// NewCommand wires the command.
func NewCommand(resolver Resolver, executor *Executor, notifier Notifier, presenter Presenter, logger *log.Logger) *Command {
	if logger == nil {
		logger = log.Default()
	}
	return &Command{
		resolver:  resolver,
		executor:  executor,
		notifier:  notifier,
		presenter: presenter,
		logger:    logger.WithPrefix("compare"),
	}
}

// Compare resolves and diffs without presenting. A nil comparison with a nil
// error means there was nothing to do. Failures are reported to the notifier
// before being returned.
func (c *Command) Compare(ctx context.Context, args Args) (*Comparison, error) {
	req := args.Request

	pair, err := c.resolver.Resolve(ctx, req)
	if err != nil {
		c.report(ctx, req, err)
		return nil, err
	}
	if pair == nil {
		return nil, nil
	}

	cmp, err := c.executor.Execute(ctx, *pair, args.Options)
	if err != nil {
		c.report(ctx, req, err)
		return nil, err
	}
	return cmp, nil
}

// Execute runs Compare and hands the result to the presenter.
func (c *Command) Execute(ctx context.Context, args Args) error {
	cmp, err := c.Compare(ctx, args)
	if err != nil || cmp == nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return c.presenter.Present(ctx, cmp)
}

func (c *Command) report(ctx context.Context, req revision.Request, err error) {
	line := req.Cursor
	if req.Line != nil {
		line = *req.Line
	}

	switch {
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// the caller went away; nothing to show
	case errors.Is(err, revision.ErrNotUnderSourceControl):
		c.logger.Warn("not under source control", "file", req.File.Path, "line", line)
		c.notifier.Warn(MsgNotUnderSourceControl)
	case errors.Is(err, revision.ErrWorkingFileMissing):
		c.logger.Warn("working file missing", "file", req.File.Path, "line", line)
		c.notifier.Warn(MsgWorkingFileMissing)
	default:
		c.logger.Error("compare failed", "file", req.File.Path, "line", line, "err", err)
		c.notifier.Warn(MsgGeneric)
	}
}
