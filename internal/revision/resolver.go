package revision

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// BlameLookup attributes a single line to a commit. A nil entry with a nil
// error means the file has no blame.
type BlameLookup interface {
	BlameForLine(ctx context.Context, file FileIdentity, line int, hint *DocumentHint) (*BlameEntry, error)
}

// StatusLookup reports the working-tree state of a file. A nil status means
// the file is clean.
type StatusLookup interface {
	StatusForFile(ctx context.Context, repoPath string, file FileIdentity) (*FileStatus, error)
}

// LocationResolver turns a path into a file identity under repoRoot.
type LocationResolver interface {
	AbsoluteLocation(path, repoRoot string) FileIdentity
}

// WorkingCopyLocator finds the working-tree file for a commit's file. A nil
// location means the file no longer exists on disk.
type WorkingCopyLocator interface {
	WorkingLocation(ctx context.Context, commit Commit) (*FileIdentity, error)
}

// Request is a single resolution. Line is 0-based; when nil the Cursor line
// is used. Commit, when set to a real commit, skips blame entirely.
type Request struct {
	File   FileIdentity
	Line   *int
	Cursor int
	Commit *Commit
	Hint   *DocumentHint
}

// Resolver picks the revision to compare a line against.
type Resolver struct {
	blame     BlameLookup
	status    StatusLookup
	locations LocationResolver
	working   WorkingCopyLocator
	logger    *log.Logger
}

// NewResolver wires a resolver to its collaborators.
func NewResolver(blame BlameLookup, status StatusLookup, locations LocationResolver, working WorkingCopyLocator, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		blame:     blame,
		status:    status,
		locations: locations,
		working:   working,
		logger:    logger.WithPrefix("resolver"),
	}
}

// Resolve returns the revision pair for req. A nil pair with a nil error
// means there is nothing to compare (negative line).
func (r *Resolver) Resolve(ctx context.Context, req Request) (*RevisionPair, error) {
	line := req.Cursor
	if req.Line != nil {
		line = *req.Line
	}

	var (
		commit Commit
		lhs    Side
	)

	if req.Commit != nil && !req.Commit.Uncommitted() {
		commit = *req.Commit
		lhs = Side{Revision: CommitRevision(commit.SHA()), Location: commitLocation(commit, req.File)}
	} else {
		if line < 0 {
			return nil, nil
		}

		blame, err := r.blame.BlameForLine(ctx, req.File, line, req.Hint)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			if errors.Is(err, ErrNotUnderSourceControl) {
				return nil, err
			}
			return nil, r.fault("BlameForLine", line, err)
		}
		if blame == nil {
			return nil, ErrNotUnderSourceControl
		}

		commit = blame.Commit
		if commit.Uncommitted() {
			lhs, err = r.uncommittedSide(ctx, req.File, commit)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if err != nil {
				return nil, r.fault("StatusForFile", line, err)
			}
		} else {
			lhs = Side{Revision: CommitRevision(commit.SHA()), Location: commitLocation(commit, req.File)}
		}

		// editor lines are 0-based
		line = blame.Line.Line - 1
	}

	working, err := r.working.WorkingLocation(ctx, commit)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, r.fault("WorkingLocation", line, err)
	}
	if working == nil {
		return nil, ErrWorkingFileMissing
	}

	return &RevisionPair{
		RepoPath: commit.RepoPath,
		LHS:      lhs,
		RHS:      Side{Revision: Working, Location: *working},
		Line:     line,
	}, nil
}

// uncommittedSide compares an uncommitted line against the index when the
// file is staged, otherwise against the previous commit.
func (r *Resolver) uncommittedSide(ctx context.Context, file FileIdentity, commit Commit) (Side, error) {
	status, err := r.status.StatusForFile(ctx, file.RepoPath, file)
	if err != nil {
		return Side{}, err
	}

	if status != nil && status.Staged() {
		return Side{
			Revision: Staged,
			Location: r.locations.AbsoluteLocation(stagedPath(*status), commit.RepoPath),
		}, nil
	}

	return Side{
		Revision: previousRevision(commit.File),
		Location: renameAwareLocation(commit.File, file),
	}, nil
}

func (r *Resolver) fault(op string, line int, err error) error {
	lerr := &LookupError{Op: op, Line: line, Err: err}
	r.logger.Error("lookup failed", "op", op, "line", line, "err", err)
	return lerr
}

// stagedPath prefers the pre-rename path so the index blob is found under
// the name it was staged from.
func stagedPath(s FileStatus) string {
	if s.OriginalPath != "" {
		return s.OriginalPath
	}
	return s.Path
}

// previousRevision defaults to DeletedOrMissing when the file was added.
func previousRevision(f *CommitFile) Revision {
	if f == nil || f.PreviousSHA == "" {
		return DeletedOrMissing
	}
	return CommitRevision(f.PreviousSHA)
}

// renameAwareLocation defaults to the file's current location when the
// commit did not rename it.
func renameAwareLocation(f *CommitFile, fallback FileIdentity) FileIdentity {
	if f == nil {
		return fallback
	}
	if f.OriginalLocation != nil {
		return *f.OriginalLocation
	}
	return f.Location
}

// commitLocation defaults to the requested file when the commit carries no
// file descriptor.
func commitLocation(c Commit, fallback FileIdentity) FileIdentity {
	if c.File == nil {
		return fallback
	}
	return c.File.Location
}
