package commands

import (
	"errors"
	"fmt"
)

const (
	// errorInvalidRootFormat is used when the traversal root cannot be used.
	errorInvalidRootFormat = "invalid root %s: %v"
	// errorFilesystemFormat is used when a directory cannot be listed mid-traversal.
	errorFilesystemFormat = "reading directory %s: %v"
)

var (
	// ErrEmptyRoot reports a missing root argument.
	ErrEmptyRoot = errors.New("root path is empty")
	// ErrNotDirectory reports a root that exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// InvalidRootError is returned before any output when the root does not exist
// or is not a directory.
type InvalidRootError struct {
	Path string
	Err  error
}

func (invalidRootError *InvalidRootError) Error() string {
	return fmt.Sprintf(errorInvalidRootFormat, invalidRootError.Path, invalidRootError.Err)
}

func (invalidRootError *InvalidRootError) Unwrap() error {
	return invalidRootError.Err
}

// FilesystemError is returned when a directory's contents cannot be listed.
// It aborts the remainder of the traversal.
type FilesystemError struct {
	Path string
	Err  error
}

func (filesystemError *FilesystemError) Error() string {
	return fmt.Sprintf(errorFilesystemFormat, filesystemError.Path, filesystemError.Err)
}

func (filesystemError *FilesystemError) Unwrap() error {
	return filesystemError.Err
}
