package revision

import (
	"context"
	"errors"
	"io"
	"path"
	"testing"

	"github.com/charmbracelet/log"
)

const repo = "/repo"

type fakeBlame struct {
	entry *BlameEntry
	err   error
	calls int
	lines []int
}

func (f *fakeBlame) BlameForLine(_ context.Context, _ FileIdentity, line int, _ *DocumentHint) (*BlameEntry, error) {
	f.calls++
	f.lines = append(f.lines, line)
	return f.entry, f.err
}

type fakeStatus struct {
	status *FileStatus
	err    error
	calls  int
}

func (f *fakeStatus) StatusForFile(context.Context, string, FileIdentity) (*FileStatus, error) {
	f.calls++
	return f.status, f.err
}

type fakeLocations struct{}

func (fakeLocations) AbsoluteLocation(p, root string) FileIdentity {
	return FileIdentity{RepoPath: root, Path: path.Clean(p)}
}

type fakeWorking struct {
	location *FileIdentity
	err      error
	calls    int
	got      Commit
}

func (f *fakeWorking) WorkingLocation(_ context.Context, c Commit) (*FileIdentity, error) {
	f.calls++
	f.got = c
	return f.location, f.err
}

type fixture struct {
	blame   *fakeBlame
	status  *fakeStatus
	working *fakeWorking
}

func newFixture() *fixture {
	return &fixture{
		blame:   &fakeBlame{},
		status:  &fakeStatus{},
		working: &fakeWorking{location: &FileIdentity{RepoPath: repo, Path: "src/app.ts"}},
	}
}

func (f *fixture) resolver() *Resolver {
	return NewResolver(f.blame, f.status, fakeLocations{}, f.working, log.New(io.Discard))
}

func intPtr(n int) *int { return &n }

var current = FileIdentity{RepoPath: repo, Path: "src/app.ts"}

func TestResolveKnownCommitSkipsLookups(t *testing.T) {
	f := newFixture()
	commit := NewCommit(repo, "c0ffee", &CommitFile{Location: FileIdentity{RepoPath: repo, Path: "src/old.ts"}})

	pair, err := f.resolver().Resolve(context.Background(), Request{File: current, Line: intPtr(7), Commit: &commit})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.blame.calls != 0 || f.status.calls != 0 {
		t.Fatalf("expected no blame/status calls, got %d/%d", f.blame.calls, f.status.calls)
	}
	if sha, ok := pair.LHS.Revision.SHA(); !ok || sha != "c0ffee" {
		t.Fatalf("unexpected lhs revision %v", pair.LHS.Revision)
	}
	if pair.LHS.Location.Path != "src/old.ts" {
		t.Fatalf("unexpected lhs location %+v", pair.LHS.Location)
	}
	if pair.Line != 7 {
		t.Fatalf("expected line to pass through, got %d", pair.Line)
	}
	if pair.RHS.Revision != Working {
		t.Fatalf("expected working rhs, got %v", pair.RHS.Revision)
	}
}

func TestResolveKnownCommitWithoutFileFallsBackToRequest(t *testing.T) {
	f := newFixture()
	commit := NewCommit(repo, "c0ffee", nil)

	pair, err := f.resolver().Resolve(context.Background(), Request{File: current, Line: intPtr(-3), Commit: &commit})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pair.LHS.Location != current {
		t.Fatalf("expected request file as lhs, got %+v", pair.LHS.Location)
	}
	if pair.Line != -3 {
		t.Fatalf("known commit path must not touch line, got %d", pair.Line)
	}
}

func TestResolveScenarios(t *testing.T) {
	appFile := FileIdentity{RepoPath: repo, Path: "src/app.ts"}
	oldFile := FileIdentity{RepoPath: repo, Path: "src/old.ts"}

	tests := []struct {
		name     string
		line     int
		entry    *BlameEntry
		status   *FileStatus
		wantRev  Revision
		wantLoc  FileIdentity
		wantLine int
	}{
		{
			name: "committed line uses blame commit",
			line: 5,
			entry: &BlameEntry{
				Commit: NewCommit(repo, "abc123", &CommitFile{Location: appFile, PreviousSHA: "def456"}),
				Line:   BlameLine{Line: 6, OriginalLine: 4},
			},
			wantRev:  CommitRevision("abc123"),
			wantLoc:  appFile,
			wantLine: 5,
		},
		{
			name: "staged rename compares against index under original path",
			line: 2,
			entry: &BlameEntry{
				Commit: NewUncommitted(repo, &CommitFile{Location: appFile}),
				Line:   BlameLine{Line: 3},
			},
			status:   &FileStatus{Path: "src/app.ts", OriginalPath: "old.ts", IndexStatus: 'R'},
			wantRev:  Staged,
			wantLoc:  FileIdentity{RepoPath: repo, Path: "old.ts"},
			wantLine: 2,
		},
		{
			name: "staged without rename uses current path",
			line: 2,
			entry: &BlameEntry{
				Commit: NewUncommitted(repo, &CommitFile{Location: appFile}),
				Line:   BlameLine{Line: 3},
			},
			status:   &FileStatus{Path: "src/app.ts", IndexStatus: 'M', WorkTreeStatus: 'M'},
			wantRev:  Staged,
			wantLoc:  appFile,
			wantLine: 2,
		},
		{
			name: "unstaged with previous sha",
			line: 9,
			entry: &BlameEntry{
				Commit: NewUncommitted(repo, &CommitFile{Location: appFile, PreviousSHA: "beef"}),
				Line:   BlameLine{Line: 10},
			},
			status:   &FileStatus{Path: "src/app.ts", WorkTreeStatus: 'M'},
			wantRev:  CommitRevision("beef"),
			wantLoc:  appFile,
			wantLine: 9,
		},
		{
			name: "unstaged without previous sha is missing",
			line: 2,
			entry: &BlameEntry{
				Commit: NewUncommitted(repo, &CommitFile{Location: appFile, OriginalLocation: &oldFile}),
				Line:   BlameLine{Line: 3},
			},
			wantRev:  DeletedOrMissing,
			wantLoc:  oldFile,
			wantLine: 2,
		},
		{
			name: "unstaged without original uses uri",
			line: 0,
			entry: &BlameEntry{
				Commit: NewUncommitted(repo, &CommitFile{Location: appFile}),
				Line:   BlameLine{Line: 1},
			},
			status:   &FileStatus{Path: "src/app.ts", WorkTreeStatus: 'M'},
			wantRev:  DeletedOrMissing,
			wantLoc:  appFile,
			wantLine: 0,
		},
		{
			name: "line follows blame rather than the request",
			line: 4,
			entry: &BlameEntry{
				Commit: NewCommit(repo, "abc123", &CommitFile{Location: appFile}),
				Line:   BlameLine{Line: 12},
			},
			wantRev:  CommitRevision("abc123"),
			wantLoc:  appFile,
			wantLine: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.blame.entry = tt.entry
			f.status.status = tt.status

			pair, err := f.resolver().Resolve(context.Background(), Request{File: appFile, Line: intPtr(tt.line)})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if pair.LHS.Revision != tt.wantRev {
				t.Fatalf("lhs revision = %v, want %v", pair.LHS.Revision, tt.wantRev)
			}
			if pair.LHS.Location != tt.wantLoc {
				t.Fatalf("lhs location = %+v, want %+v", pair.LHS.Location, tt.wantLoc)
			}
			if pair.Line != tt.wantLine {
				t.Fatalf("line = %d, want %d", pair.Line, tt.wantLine)
			}
			if pair.Line != tt.entry.Line.Line-1 {
				t.Fatalf("line must be blame line minus one")
			}
			if f.blame.lines[0] != tt.line {
				t.Fatalf("blame asked for line %d, want %d", f.blame.lines[0], tt.line)
			}
			wantStatusCalls := 0
			if tt.entry.Commit.Uncommitted() {
				wantStatusCalls = 1
			}
			if f.status.calls != wantStatusCalls {
				t.Fatalf("status calls = %d, want %d", f.status.calls, wantStatusCalls)
			}
			if pair.RepoPath != repo {
				t.Fatalf("unexpected repo path %q", pair.RepoPath)
			}
		})
	}
}

func TestResolveUncommittedKnownCommitRunsBlame(t *testing.T) {
	f := newFixture()
	f.blame.entry = &BlameEntry{
		Commit: NewCommit(repo, "abc123", &CommitFile{Location: current}),
		Line:   BlameLine{Line: 2},
	}
	placeholder := NewUncommitted(repo, nil)

	pair, err := f.resolver().Resolve(context.Background(), Request{File: current, Line: intPtr(1), Commit: &placeholder})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.blame.calls != 1 {
		t.Fatalf("expected blame for uncommitted placeholder")
	}
	if f.working.got.SHA() != "abc123" {
		t.Fatalf("working locator should receive the blame commit, got %q", f.working.got.SHA())
	}
	if pair.LHS.Revision != CommitRevision("abc123") {
		t.Fatalf("unexpected lhs %v", pair.LHS.Revision)
	}
}

func TestResolveCursorDefault(t *testing.T) {
	f := newFixture()
	f.blame.entry = &BlameEntry{
		Commit: NewCommit(repo, "abc123", &CommitFile{Location: current}),
		Line:   BlameLine{Line: 5},
	}

	if _, err := f.resolver().Resolve(context.Background(), Request{File: current, Cursor: 4}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.blame.lines[0] != 4 {
		t.Fatalf("expected cursor line 4, got %d", f.blame.lines[0])
	}
}

func TestResolveNegativeLineIsNoop(t *testing.T) {
	f := newFixture()

	pair, err := f.resolver().Resolve(context.Background(), Request{File: current, Line: intPtr(-1)})
	if err != nil || pair != nil {
		t.Fatalf("expected silent no-op, got %+v, %v", pair, err)
	}
	if f.blame.calls != 0 || f.working.calls != 0 {
		t.Fatalf("no-op must not call collaborators")
	}
}

func TestResolveBlameMissing(t *testing.T) {
	f := newFixture()

	pair, err := f.resolver().Resolve(context.Background(), Request{File: current, Line: intPtr(3)})
	if !errors.Is(err, ErrNotUnderSourceControl) {
		t.Fatalf("expected ErrNotUnderSourceControl, got %v", err)
	}
	if pair != nil {
		t.Fatalf("expected no pair")
	}
	if f.status.calls != 0 || f.working.calls != 0 {
		t.Fatalf("missing blame must stop resolution")
	}
}

func TestResolveBlameNotTrackedError(t *testing.T) {
	f := newFixture()
	f.blame.err = errors.Join(ErrNotUnderSourceControl, errors.New("no such path"))

	_, err := f.resolver().Resolve(context.Background(), Request{File: current, Line: intPtr(3)})
	if !errors.Is(err, ErrNotUnderSourceControl) {
		t.Fatalf("expected ErrNotUnderSourceControl, got %v", err)
	}
	var lerr *LookupError
	if errors.As(err, &lerr) {
		t.Fatalf("untracked file is not an unexpected fault")
	}
}

func TestResolveWorkingFileMissing(t *testing.T) {
	f := newFixture()
	f.working.location = nil
	f.blame.entry = &BlameEntry{
		Commit: NewCommit(repo, "abc123", &CommitFile{Location: current}),
		Line:   BlameLine{Line: 3},
	}

	pair, err := f.resolver().Resolve(context.Background(), Request{File: current, Line: intPtr(2)})
	if !errors.Is(err, ErrWorkingFileMissing) {
		t.Fatalf("expected ErrWorkingFileMissing, got %v", err)
	}
	if pair != nil {
		t.Fatalf("expected no partial pair, got %+v", pair)
	}
}

func TestResolveCollaboratorFaults(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		setup  func(*fixture)
		wantOp string
	}{
		{
			name:   "blame",
			setup:  func(f *fixture) { f.blame.err = boom },
			wantOp: "BlameForLine",
		},
		{
			name: "status",
			setup: func(f *fixture) {
				f.blame.entry = &BlameEntry{Commit: NewUncommitted(repo, &CommitFile{Location: current}), Line: BlameLine{Line: 9}}
				f.status.err = boom
			},
			wantOp: "StatusForFile",
		},
		{
			name: "working copy",
			setup: func(f *fixture) {
				f.blame.entry = &BlameEntry{Commit: NewCommit(repo, "abc", &CommitFile{Location: current}), Line: BlameLine{Line: 9}}
				f.working.err = boom
			},
			wantOp: "WorkingLocation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			_, err := f.resolver().Resolve(context.Background(), Request{File: current, Line: intPtr(8)})
			var lerr *LookupError
			if !errors.As(err, &lerr) {
				t.Fatalf("expected LookupError, got %v", err)
			}
			if lerr.Op != tt.wantOp {
				t.Fatalf("op = %q, want %q", lerr.Op, tt.wantOp)
			}
			if !errors.Is(err, boom) {
				t.Fatalf("expected wrapped cause")
			}
		})
	}
}

func TestResolveCancelledContext(t *testing.T) {
	f := newFixture()
	f.blame.entry = &BlameEntry{Commit: NewCommit(repo, "abc", &CommitFile{Location: current}), Line: BlameLine{Line: 1}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pair, err := f.resolver().Resolve(ctx, Request{File: current, Line: intPtr(0)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if pair != nil {
		t.Fatalf("cancelled resolution must discard its result")
	}
	if f.working.calls != 0 {
		t.Fatalf("cancelled resolution must stop after blame")
	}
}

func TestResolveRefetchesEachTime(t *testing.T) {
	f := newFixture()
	f.blame.entry = &BlameEntry{Commit: NewUncommitted(repo, &CommitFile{Location: current}), Line: BlameLine{Line: 1}}
	r := f.resolver()

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background(), Request{File: current, Line: intPtr(0)}); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if f.blame.calls != 3 || f.status.calls != 3 {
		t.Fatalf("expected fresh lookups per call, got blame=%d status=%d", f.blame.calls, f.status.calls)
	}
}
