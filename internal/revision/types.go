package revision

import (
	"path"
	"path/filepath"
)

// FileIdentity names a file inside a repository. Path is repo-relative and
// slash separated. OriginalPath is set when the identity carries a rename.
type FileIdentity struct {
	RepoPath     string
	Path         string
	OriginalPath string
}

// Abs returns the absolute filesystem path of the file.
func (f FileIdentity) Abs() string {
	return filepath.Join(f.RepoPath, filepath.FromSlash(f.Path))
}

// Base returns the file name without directories.
func (f FileIdentity) Base() string {
	return path.Base(f.Path)
}

// IsZero reports whether the identity is unset.
func (f FileIdentity) IsZero() bool {
	return f.RepoPath == "" && f.Path == ""
}

// BlameLine holds 1-based line numbers as reported by blame.
type BlameLine struct {
	Line         int
	OriginalLine int
}

// BlameEntry maps a line to the commit that last touched it.
type BlameEntry struct {
	Commit Commit
	Line   BlameLine
}

type commitKind int

const (
	committed commitKind = iota
	uncommitted
)

// Commit is either a real commit or the virtual uncommitted commit that
// stands for changes in the index or working tree.
type Commit struct {
	RepoPath string
	File     *CommitFile

	kind commitKind
	sha  string
}

// CommitFile describes a file as it appears in a commit.
type CommitFile struct {
	Location FileIdentity
	// OriginalLocation is set when the commit renamed the file.
	OriginalLocation *FileIdentity
	// PreviousSHA is the commit holding the prior version of the file.
	// Empty when the file was added.
	PreviousSHA string
}

// NewCommit returns a committed revision.
func NewCommit(repoPath, sha string, file *CommitFile) Commit {
	return Commit{RepoPath: repoPath, File: file, kind: committed, sha: sha}
}

// NewUncommitted returns the placeholder commit for uncommitted changes.
func NewUncommitted(repoPath string, file *CommitFile) Commit {
	return Commit{RepoPath: repoPath, File: file, kind: uncommitted}
}

// Uncommitted reports whether c is the uncommitted placeholder.
func (c Commit) Uncommitted() bool {
	return c.kind == uncommitted
}

// SHA returns the commit id, or "" for the uncommitted placeholder.
func (c Commit) SHA() string {
	if c.kind == uncommitted {
		return ""
	}
	return c.sha
}

// FileStatus is the working-tree state of a single file.
type FileStatus struct {
	Path         string
	OriginalPath string
	// IndexStatus is the porcelain X code, 0 when nothing is staged.
	IndexStatus byte
	// WorkTreeStatus is the porcelain Y code, 0 when the work tree is clean.
	WorkTreeStatus byte
}

// Staged reports whether the file has changes in the index.
func (s FileStatus) Staged() bool {
	return s.IndexStatus != 0
}

// DocumentHint carries the contents of an open, possibly unsaved, document
// so blame can attribute lines that only exist in the editor buffer.
type DocumentHint struct {
	Contents []byte
}

// Side is one half of a comparison.
type Side struct {
	Revision Revision
	Location FileIdentity
}

// RevisionPair is the result of a resolution: the historical LHS, the working
// RHS and the 0-based line to reveal.
type RevisionPair struct {
	RepoPath string
	LHS      Side
	RHS      Side
	Line     int
}
