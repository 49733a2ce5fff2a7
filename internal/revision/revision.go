package revision

// Kind enumerates the revision variants that can sit on either side of a
// comparison.
type Kind int

const (
	// KindNone is the zero value and never leaves the resolver.
	KindNone Kind = iota
	// KindCommit names a blob in a real commit.
	KindCommit
	// KindStaged names the blob in the index.
	KindStaged
	// KindDeletedOrMissing means no prior blob exists.
	KindDeletedOrMissing
	// KindWorking is the live working-tree content.
	KindWorking
)

// UncommittedSHA is the id git reports for lines that are not committed yet.
const UncommittedSHA = "0000000000000000000000000000000000000000"

// Revision identifies a version of a file.
type Revision struct {
	kind Kind
	sha  string
}

var (
	// Staged is the uncommitted-staged sentinel.
	Staged = Revision{kind: KindStaged}
	// DeletedOrMissing is the sentinel for a blob that does not exist.
	DeletedOrMissing = Revision{kind: KindDeletedOrMissing}
	// Working is the sentinel for the working-tree content.
	Working = Revision{kind: KindWorking}
)

// CommitRevision returns the revision of a file at sha.
func CommitRevision(sha string) Revision {
	return Revision{kind: KindCommit, sha: sha}
}

// Kind returns the variant.
func (r Revision) Kind() Kind {
	return r.kind
}

// SHA returns the commit id and true for commit revisions.
func (r Revision) SHA() (string, bool) {
	if r.kind != KindCommit {
		return "", false
	}
	return r.sha, true
}

// IsZero reports whether no revision has been chosen.
func (r Revision) IsZero() bool {
	return r.kind == KindNone
}

// String renders the revision the way git object names are written: the sha,
// ":" for the index, "-" for a missing blob and "" for the working tree.
func (r Revision) String() string {
	switch r.kind {
	case KindCommit:
		return r.sha
	case KindStaged:
		return ":"
	case KindDeletedOrMissing:
		return "-"
	default:
		return ""
	}
}

// Label is a short human form used in titles.
func (r Revision) Label() string {
	switch r.kind {
	case KindCommit:
		if len(r.sha) > 8 {
			return r.sha[:8]
		}
		return r.sha
	case KindStaged:
		return "index"
	case KindDeletedOrMissing:
		return "(missing)"
	case KindWorking:
		return "working tree"
	default:
		return "(none)"
	}
}
