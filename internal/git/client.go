package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cj3636/linediff/internal/revision"
)

// CommandError reports a failed git invocation along with its stderr.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// untracked reports whether git refused because the path has no history.
func (e *CommandError) untracked() bool {
	stderr := strings.ToLower(e.Stderr)
	for _, marker := range []string{"no such path", "not a git repository", "no such file", "is outside repository"} {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}

// Client answers blame, status and content questions by shelling out to git.
// It holds no per-repository state, so one client serves every repository.
type Client struct {
	binary string
	logger *log.Logger
}

// NewClient returns a client using the git executable on PATH.
func NewClient(logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{binary: "git", logger: logger.WithPrefix("git")}
}

func (c *Client) run(ctx context.Context, repoRoot string, stdin io.Reader, args ...string) ([]byte, error) {
	full := append([]string{"-C", repoRoot}, args...)
	cmd := exec.CommandContext(ctx, c.binary, full...)
	cmd.Stdin = stdin

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("exec", "args", args, "repo", repoRoot)
	out, err := cmd.Output()
	if err != nil {
		return nil, &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return out, nil
}

// FindRepoRoot returns the top-level directory of the repository that
// contains path.
func FindRepoRoot(ctx context.Context, path string) (string, error) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return filepath.FromSlash(strings.TrimSpace(string(out))), nil
}

// Identify turns a filesystem path into a file identity rooted at its
// repository.
func (c *Client) Identify(ctx context.Context, target string) (revision.FileIdentity, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return revision.FileIdentity{}, err
	}

	root, err := FindRepoRoot(ctx, abs)
	if err != nil {
		return revision.FileIdentity{}, fmt.Errorf("%w: %s", revision.ErrNotUnderSourceControl, target)
	}

	// rev-parse reports the resolved root, so resolve the directory too
	dir := filepath.Dir(abs)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	rel, err := filepath.Rel(root, filepath.Join(dir, filepath.Base(abs)))
	if err != nil {
		return revision.FileIdentity{}, err
	}
	return revision.FileIdentity{RepoPath: root, Path: filepath.ToSlash(rel)}, nil
}

// AbsoluteLocation resolves p against repoRoot. Absolute paths inside the
// root are made relative; relative paths are cleaned.
func (c *Client) AbsoluteLocation(p, repoRoot string) revision.FileIdentity {
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(repoRoot, p); err == nil {
			p = rel
		}
	}
	return revision.FileIdentity{RepoPath: repoRoot, Path: path.Clean(filepath.ToSlash(p))}
}

// CommitForFile builds a known commit for file from a user supplied revision.
// The all-zero id yields the uncommitted placeholder.
func (c *Client) CommitForFile(ctx context.Context, rev string, file revision.FileIdentity) (revision.Commit, error) {
	descriptor := &revision.CommitFile{Location: file}
	if rev == revision.UncommittedSHA {
		return revision.NewUncommitted(file.RepoPath, descriptor), nil
	}

	out, err := c.run(ctx, file.RepoPath, nil, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return revision.Commit{}, fmt.Errorf("unknown revision %q: %w", rev, err)
	}
	return revision.NewCommit(file.RepoPath, strings.TrimSpace(string(out)), descriptor), nil
}

// lastCommit returns the most recent commit in which p exists, or "" when
// the path has no history. Commits that delete p are skipped so the result
// can always be read with `git show <sha>:<p>`.
func (c *Client) lastCommit(ctx context.Context, repoRoot, p string) (string, error) {
	out, err := c.run(ctx, repoRoot, nil, "log", "-n", "1", "--diff-filter=d", "--format=%H", "--", p)
	if err != nil {
		var cerr *CommandError
		if errors.As(err, &cerr) && strings.Contains(cerr.Stderr, "does not have any commits") {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
