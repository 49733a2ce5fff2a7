package git

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cj3636/linediff/internal/revision"
)

// ReadLines returns the content of loc at rev, split into lines.
func (c *Client) ReadLines(ctx context.Context, rev revision.Revision, loc revision.FileIdentity) ([]string, error) {
	switch rev.Kind() {
	case revision.KindWorking:
		data, err := os.ReadFile(loc.Abs())
		if err != nil {
			return nil, err
		}
		return splitLines(string(data)), nil

	case revision.KindDeletedOrMissing:
		return []string{}, nil

	case revision.KindStaged:
		out, err := c.show(ctx, rev, loc.RepoPath, loc.Path)
		if err != nil {
			// a staged rename leaves only the destination in the index
			dest, ok, lerr := c.stagedRenameOf(ctx, loc)
			if lerr != nil || !ok {
				return nil, err
			}
			if out, err = c.show(ctx, rev, loc.RepoPath, dest); err != nil {
				return nil, err
			}
		}
		return splitLines(string(out)), nil

	case revision.KindCommit:
		out, err := c.show(ctx, rev, loc.RepoPath, loc.Path)
		if err != nil {
			return nil, err
		}
		return splitLines(string(out)), nil

	default:
		return nil, fmt.Errorf("cannot read revision %q", rev.Label())
	}
}

func (c *Client) show(ctx context.Context, rev revision.Revision, repoRoot, p string) ([]byte, error) {
	return c.run(ctx, repoRoot, nil, "show", fmt.Sprintf("%s:%s", objectPrefix(rev), p))
}

// stagedRenameOf returns the index path that loc was renamed to, if any.
func (c *Client) stagedRenameOf(ctx context.Context, loc revision.FileIdentity) (string, bool, error) {
	out, err := c.run(ctx, loc.RepoPath, nil, "status", "--porcelain=v1", "-z", "--untracked-files=no")
	if err != nil {
		return "", false, err
	}
	for _, st := range parseStatusPorcelain(out) {
		if st.OriginalPath == loc.Path && st.IndexStatus == 'R' {
			return st.Path, true, nil
		}
	}
	return "", false, nil
}

// objectPrefix is the part before ':' in a git object name; the index is
// addressed with an empty prefix (":path").
func objectPrefix(rev revision.Revision) string {
	if sha, ok := rev.SHA(); ok {
		return sha
	}
	return ""
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
