package git

import (
	"bytes"
	"context"

	"github.com/cj3636/linediff/internal/revision"
)

// StatusForFile returns the porcelain status of file, or nil when the file is
// clean. The whole tree is queried so staged renames are detected; a
// pathspec would hide the deleted side of the rename.
func (c *Client) StatusForFile(ctx context.Context, repoPath string, file revision.FileIdentity) (*revision.FileStatus, error) {
	out, err := c.run(ctx, repoPath, nil, "status", "--porcelain=v1", "-z", "--untracked-files=no")
	if err != nil {
		return nil, err
	}

	for _, st := range parseStatusPorcelain(out) {
		if st.Path == file.Path {
			return &st, nil
		}
	}
	return nil, nil
}

// parseStatusPorcelain parses `git status --porcelain=v1 -z` output.
func parseStatusPorcelain(out []byte) []revision.FileStatus {
	records := bytes.Split(out, []byte{0})

	var statuses []revision.FileStatus
	for i := 0; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 4 {
			continue
		}

		x, y := rec[0], rec[1]
		st := revision.FileStatus{
			Path:           string(rec[3:]),
			IndexStatus:    statusCode(x),
			WorkTreeStatus: statusCode(y),
		}

		// renames and copies carry the source path in the next record
		if isRenameOrCopy(x) || isRenameOrCopy(y) {
			if i+1 < len(records) {
				st.OriginalPath = string(records[i+1])
				i++
			}
		}

		statuses = append(statuses, st)
	}
	return statuses
}

func statusCode(c byte) byte {
	switch c {
	case ' ', '?', '!':
		return 0
	default:
		return c
	}
}

func isRenameOrCopy(c byte) bool {
	return c == 'R' || c == 'C'
}
