package commands

import (
	"fmt"

	"github.com/temirov/pfs/internal/types"
)

const (
	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"
	// errorStackMismatchFormat is used when leave events do not match enter events.
	errorStackMismatchFormat = "directory stack mismatch for %s"
	// errorOrphanEventFormat is used when an entry arrives before the root.
	errorOrphanEventFormat = "entry %s received before the root"
)

// TreeBuilder builds directory tree nodes using configured options.
type TreeBuilder struct {
	MaxDepth   int
	IndentUnit string
	Rules      ExclusionRules
}

// GetTreeData walks rootDirectoryPath and returns the root node of the listing.
func (treeBuilder *TreeBuilder) GetTreeData(rootDirectoryPath string) (*types.TreeOutputNode, error) {
	assembler := &TreeAssembler{}
	options := TreeStreamOptions{
		Root:       rootDirectoryPath,
		MaxDepth:   treeBuilder.MaxDepth,
		IndentUnit: treeBuilder.IndentUnit,
		Rules:      treeBuilder.Rules,
	}
	if streamError := StreamTree(options, assembler.Handle); streamError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, rootDirectoryPath, streamError)
	}
	return assembler.Root(), nil
}

// TreeAssembler turns a stream of tree events back into nested nodes.
type TreeAssembler struct {
	root  *types.TreeOutputNode
	stack []*types.TreeOutputNode
}

// Handle consumes one event. It has the signature StreamTree expects.
func (assembler *TreeAssembler) Handle(event TreeEvent) error {
	entry := event.Entry
	if entry == nil {
		return nil
	}
	switch event.Kind {
	case TreeEventRoot:
		assembler.root = newTreeNode(entry, types.NodeTypeDirectory)
		assembler.stack = []*types.TreeOutputNode{assembler.root}
	case TreeEventFile:
		parent, parentError := assembler.parent(entry)
		if parentError != nil {
			return parentError
		}
		parent.Children = append(parent.Children, newTreeNode(entry, types.NodeTypeFile))
	case TreeEventEnterDir:
		parent, parentError := assembler.parent(entry)
		if parentError != nil {
			return parentError
		}
		node := newTreeNode(entry, types.NodeTypeDirectory)
		parent.Children = append(parent.Children, node)
		assembler.stack = append(assembler.stack, node)
	case TreeEventLeaveDir:
		if len(assembler.stack) < 2 {
			return fmt.Errorf(errorStackMismatchFormat, entry.Path)
		}
		top := assembler.stack[len(assembler.stack)-1]
		if top.Path != entry.Path {
			return fmt.Errorf(errorStackMismatchFormat, entry.Path)
		}
		assembler.stack = assembler.stack[:len(assembler.stack)-1]
	}
	return nil
}

// Root returns the assembled root node, or nil when no root event was seen.
func (assembler *TreeAssembler) Root() *types.TreeOutputNode {
	return assembler.root
}

func (assembler *TreeAssembler) parent(entry *TreeEntryEvent) (*types.TreeOutputNode, error) {
	if len(assembler.stack) == 0 {
		return nil, fmt.Errorf(errorOrphanEventFormat, entry.Path)
	}
	return assembler.stack[len(assembler.stack)-1], nil
}

func newTreeNode(entry *TreeEntryEvent, nodeType string) *types.TreeOutputNode {
	return &types.TreeOutputNode{
		Path:     entry.Path,
		Name:     entry.Name,
		Type:     nodeType,
		Depth:    entry.Depth,
		Expanded: entry.Expanded,
	}
}
