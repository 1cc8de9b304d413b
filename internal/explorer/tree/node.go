// Package tree implements the tree items a host shows when browsing document
// collections: a collection node that pages its documents and the document
// nodes it produces.
package tree

import (
	"context"
	"path/filepath"
)

// IconPath holds the icon file shown for each editor theme.
type IconPath struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

// TreeItem is the contract every node offers the host.
type TreeItem interface {
	ID() string
	Label() string
	IconPath() IconPath
	ContextValue() string
}

// ParentTreeItem is a node with lazily loaded children.
type ParentTreeItem interface {
	TreeItem
	HasMoreChildren() bool
	LoadMoreChildren(ctx context.Context, clearCache bool) ([]TreeItem, error)
	// CreateChild calls showCreatingPlaceholder with the new child's label
	// before the remote create is issued.
	CreateChild(ctx context.Context, showCreatingPlaceholder func(label string)) (TreeItem, error)
}

// DeletableTreeItem is a node the user can delete from the tree.
type DeletableTreeItem interface {
	TreeItem
	DeleteTreeItem(ctx context.Context) error
}

// Icons resolves icon files under a resources directory.
type Icons struct {
	dir string
}

// NewIcons returns an icon resolver rooted at resourcesDir.
func NewIcons(resourcesDir string) Icons {
	return Icons{dir: resourcesDir}
}

// ThemeAgnostic returns the same svg for light and dark themes.
func (i Icons) ThemeAgnostic(name string) IconPath {
	p := filepath.Join(i.dir, "icons", "theme-agnostic", name+".svg")
	return IconPath{Light: p, Dark: p}
}
