// Package commands contains the directory traversal behind the pfs listing.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/pfs/internal/types"
)

const (
	// DefaultMaxDepth is the number of directory levels expanded below the root.
	DefaultMaxDepth = 3
	// DefaultIndentUnit is repeated once per depth level in front of each line.
	DefaultIndentUnit = "| "

	errorNilHandler          = "tree stream handler is nil"
	errorNegativeDepthFormat = "max depth must not be negative, got %d"
	errorAbsolutePathFormat  = "getting absolute path for %s: %w"
)

type TreeEventKind int

const (
	TreeEventRoot TreeEventKind = iota
	TreeEventFile
	TreeEventEnterDir
	TreeEventLeaveDir
)

// DirectoryEntry is a single name found directly inside a directory.
type DirectoryEntry struct {
	Name  string
	IsDir bool
}

// TreeEntryEvent describes one emitted line. Prefix is the indentation for
// that line; Expanded reports whether a directory's children were listed.
type TreeEntryEvent struct {
	Path     string
	Name     string
	Depth    int
	Prefix   string
	Expanded bool
}

type TreeEvent struct {
	Kind  TreeEventKind
	Entry *TreeEntryEvent
}

// TreeStreamOptions configures a single traversal.
type TreeStreamOptions struct {
	Root       string
	MaxDepth   int
	IndentUnit string
	Rules      ExclusionRules
}

type treeWalker struct {
	maxDepth   int
	indentUnit string
	rules      ExclusionRules
	handler    func(TreeEvent) error
}

// ValidateRoot resolves the root to an absolute path and checks that it is an
// existing directory.
func ValidateRoot(rootPath string) (types.ValidatedPath, error) {
	if rootPath == "" {
		return types.ValidatedPath{}, &InvalidRootError{Path: rootPath, Err: ErrEmptyRoot}
	}
	absolutePath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, &InvalidRootError{Path: rootPath, Err: fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)}
	}
	info, statError := os.Stat(absolutePath)
	if statError != nil {
		return types.ValidatedPath{}, &InvalidRootError{Path: rootPath, Err: statError}
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, &InvalidRootError{Path: rootPath, Err: ErrNotDirectory}
	}
	return types.ValidatedPath{AbsolutePath: absolutePath}, nil
}

// ListEntries returns the entries directly under directoryPath sorted by name.
// Symbolic links are classified by their target; a dangling link is a file.
func ListEntries(directoryPath string) ([]DirectoryEntry, error) {
	// os.ReadDir returns entries sorted by filename and releases the handle before returning.
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, &FilesystemError{Path: directoryPath, Err: readDirectoryError}
	}
	entries := make([]DirectoryEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entries = append(entries, DirectoryEntry{
			Name:  directoryEntry.Name(),
			IsDir: isDirectoryEntry(directoryPath, directoryEntry),
		})
	}
	return entries, nil
}

func isDirectoryEntry(parentPath string, directoryEntry fs.DirEntry) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(filepath.Join(parentPath, directoryEntry.Name()))
	return statError == nil && targetInfo.IsDir()
}

// StreamTree walks the root depth first and calls handler for every line of the
// listing as it is visited: the root, then each non-excluded entry in sorted
// order. A directory is reported before its children. Directories at MaxDepth
// are reported but never listed, so nothing below MaxDepth is visited. With
// MaxDepth 0 only the root is reported.
//
// The first FilesystemError or handler error stops the walk and is returned.
func StreamTree(options TreeStreamOptions, handler func(TreeEvent) error) error {
	if handler == nil {
		return errors.New(errorNilHandler)
	}
	if options.MaxDepth < 0 {
		return fmt.Errorf(errorNegativeDepthFormat, options.MaxDepth)
	}
	validatedRoot, validationError := ValidateRoot(options.Root)
	if validationError != nil {
		return validationError
	}

	walker := treeWalker{
		maxDepth:   options.MaxDepth,
		indentUnit: options.IndentUnit,
		rules:      options.Rules,
		handler:    handler,
	}
	if walker.indentUnit == "" {
		walker.indentUnit = DefaultIndentUnit
	}

	rootPath := validatedRoot.AbsolutePath
	rootEvent := TreeEntryEvent{
		Path:     rootPath,
		Name:     filepath.Base(rootPath),
		Depth:    0,
		Expanded: walker.maxDepth > 0,
	}
	if err := handler(TreeEvent{Kind: TreeEventRoot, Entry: &rootEvent}); err != nil {
		return err
	}
	if !rootEvent.Expanded {
		return nil
	}
	return walker.walkDirectory(rootPath, walker.indentUnit, 1)
}

func (walker *treeWalker) walkDirectory(directoryPath string, prefix string, depth int) error {
	entries, listError := ListEntries(directoryPath)
	if listError != nil {
		return listError
	}

	for _, entry := range entries {
		if walker.rules.IsExcluded(entry.Name) {
			continue
		}
		entryEvent := TreeEntryEvent{
			Path:   filepath.Join(directoryPath, entry.Name),
			Name:   entry.Name,
			Depth:  depth,
			Prefix: prefix,
		}

		if !entry.IsDir {
			if err := walker.handler(TreeEvent{Kind: TreeEventFile, Entry: &entryEvent}); err != nil {
				return err
			}
			continue
		}

		entryEvent.Expanded = depth < walker.maxDepth
		if err := walker.handler(TreeEvent{Kind: TreeEventEnterDir, Entry: &entryEvent}); err != nil {
			return err
		}
		if entryEvent.Expanded {
			if err := walker.walkDirectory(entryEvent.Path, prefix+walker.indentUnit, depth+1); err != nil {
				return err
			}
		}
		leaveEvent := entryEvent
		if err := walker.handler(TreeEvent{Kind: TreeEventLeaveDir, Entry: &leaveEvent}); err != nil {
			return err
		}
	}
	return nil
}
