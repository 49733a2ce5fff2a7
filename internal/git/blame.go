package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cj3636/linediff/internal/revision"
)

// porcelainEntry is one line of `git blame --porcelain` output.
type porcelainEntry struct {
	sha          string
	originalLine int
	finalLine    int
	filename     string
	previousSHA  string
	previousPath string
}

// BlameForLine blames the 0-based line of file. Untracked files and paths
// outside a repository produce a nil entry.
func (c *Client) BlameForLine(ctx context.Context, file revision.FileIdentity, line int, hint *revision.DocumentHint) (*revision.BlameEntry, error) {
	args := []string{"blame", "--porcelain", "-L", fmt.Sprintf("%d,%d", line+1, line+1)}

	var stdin io.Reader
	if hint != nil {
		args = append(args, "--contents", "-")
		stdin = bytes.NewReader(hint.Contents)
	}
	args = append(args, "--", file.Path)

	out, err := c.run(ctx, file.RepoPath, stdin, args...)
	if err != nil {
		var cerr *CommandError
		if errors.As(err, &cerr) && cerr.untracked() {
			c.logger.Debug("no blame", "file", file.Path, "stderr", strings.TrimSpace(cerr.Stderr))
			return nil, nil
		}
		return nil, err
	}

	entry, err := parseBlamePorcelain(out)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	return c.toBlameEntry(ctx, file, entry)
}

func (c *Client) toBlameEntry(ctx context.Context, file revision.FileIdentity, entry *porcelainEntry) (*revision.BlameEntry, error) {
	location := file
	if entry.filename != "" {
		location = revision.FileIdentity{RepoPath: file.RepoPath, Path: entry.filename}
	}

	descriptor := &revision.CommitFile{Location: location, PreviousSHA: entry.previousSHA}
	if entry.previousPath != "" && entry.previousPath != location.Path {
		original := revision.FileIdentity{RepoPath: file.RepoPath, Path: entry.previousPath}
		descriptor.OriginalLocation = &original
		location.OriginalPath = entry.previousPath
		descriptor.Location = location
	}

	var commit revision.Commit
	if entry.sha == revision.UncommittedSHA {
		if descriptor.PreviousSHA == "" {
			prev, err := c.lastCommit(ctx, file.RepoPath, location.Path)
			if err != nil {
				return nil, err
			}
			descriptor.PreviousSHA = prev
		}
		commit = revision.NewUncommitted(file.RepoPath, descriptor)
	} else {
		commit = revision.NewCommit(file.RepoPath, entry.sha, descriptor)
	}

	return &revision.BlameEntry{
		Commit: commit,
		Line:   revision.BlameLine{Line: entry.finalLine, OriginalLine: entry.originalLine},
	}, nil
}

// parseBlamePorcelain reads the first entry of porcelain blame output.
func parseBlamePorcelain(out []byte) (*porcelainEntry, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entry *porcelainEntry
	for scanner.Scan() {
		line := scanner.Text()

		if entry == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed blame header %q", line)
			}
			orig, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("malformed blame header %q: %w", line, err)
			}
			final, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("malformed blame header %q: %w", line, err)
			}
			entry = &porcelainEntry{sha: fields[0], originalLine: orig, finalLine: final}
			continue
		}

		// the content line closes the entry
		if strings.HasPrefix(line, "\t") {
			break
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "filename":
			entry.filename = value
		case "previous":
			sha, p, _ := strings.Cut(value, " ")
			entry.previousSHA = sha
			entry.previousPath = p
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entry, nil
}
