package revision

import (
	"errors"
	"fmt"
)

var (
	// ErrNotUnderSourceControl means blame produced nothing for the file.
	ErrNotUnderSourceControl = errors.New("file is not under source control")
	// ErrWorkingFileMissing means the file is tracked but gone from the
	// working tree.
	ErrWorkingFileMissing = errors.New("file has been deleted from the working tree")
)

// LookupError wraps an unexpected collaborator failure with the operation
// and the line that triggered it.
type LookupError struct {
	Op   string
	Line int
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s(%d): %v", e.Op, e.Line, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
