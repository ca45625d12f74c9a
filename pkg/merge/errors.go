package merge

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the scan root does not exist.
	ErrNotFound = errors.New("source directory not found")
	// ErrNotADirectory is returned when the scan root is not a directory.
	ErrNotADirectory = errors.New("source path is not a directory")
	// ErrNotText marks a file whose content is not valid UTF-8.
	ErrNotText = errors.New("file is not valid UTF-8 text")
)

// IOError reports a read, write or creation failure that aborts a run.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
