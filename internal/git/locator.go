package git

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/cj3636/linediff/internal/revision"
)

// WorkingLocation returns where the commit's file lives in the working tree,
// following renames made since the commit. Nil means the file is gone.
func (c *Client) WorkingLocation(ctx context.Context, commit revision.Commit) (*revision.FileIdentity, error) {
	if commit.File == nil {
		return nil, nil
	}

	candidate := revision.FileIdentity{RepoPath: commit.File.Location.RepoPath, Path: commit.File.Location.Path}
	if candidate.RepoPath == "" {
		candidate.RepoPath = commit.RepoPath
	}

	found, err := exists(candidate.Abs())
	if err != nil {
		return nil, err
	}
	if found {
		return &candidate, nil
	}
	if commit.Uncommitted() {
		return nil, nil
	}

	out, err := c.run(ctx, candidate.RepoPath, nil, "diff", "--name-status", "-M", "-z", commit.SHA(), "--")
	if err != nil {
		return nil, err
	}

	renamed, ok := renamedTo(out, candidate.Path)
	if !ok {
		return nil, nil
	}

	moved := revision.FileIdentity{RepoPath: candidate.RepoPath, Path: renamed, OriginalPath: candidate.Path}
	found, err = exists(moved.Abs())
	if err != nil || !found {
		return nil, err
	}
	return &moved, nil
}

// renamedTo scans `git diff --name-status -z` output for a rename of from.
func renamedTo(out []byte, from string) (string, bool) {
	records := bytes.Split(out, []byte{0})
	for i := 0; i < len(records); i++ {
		status := string(records[i])
		if status == "" {
			continue
		}
		switch status[0] {
		case 'R', 'C':
			if i+2 >= len(records) {
				return "", false
			}
			src, dst := string(records[i+1]), string(records[i+2])
			i += 2
			if status[0] == 'R' && src == from {
				return dst, true
			}
		default:
			i++
		}
	}
	return "", false
}

func exists(p string) (bool, error) {
	info, err := os.Stat(p)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) || strings.Contains(err.Error(), "not a directory") {
		return false, nil
	}
	return false, err
}
