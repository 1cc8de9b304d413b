package http

import (
	"context"
	"sync"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/tree"
	"docdb-explorer/internal/shared/link"
)

type registryEntry struct {
	mu   sync.Mutex
	node *tree.CollectionNode
}

// NodeRegistry keeps one collection node per collection link so paging state
// survives between requests. Operations on one node run one at a time.
type NodeRegistry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	conn    client.ConnectionContext
	opts    tree.Options
}

func NewNodeRegistry(conn client.ConnectionContext, opts tree.Options) *NodeRegistry {
	return &NodeRegistry{
		entries: make(map[string]*registryEntry),
		conn:    conn,
		opts:    opts,
	}
}

// WithNode runs fn holding the lock of the collection's node, creating the
// node from the collection metadata on first use.
func (r *NodeRegistry) WithNode(ctx context.Context, databaseID, collectionID string, fn func(node *tree.CollectionNode) error) error {
	entry, err := r.entry(ctx, link.BuildCollectionLink(databaseID, collectionID))
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.node)
}

// Remove forgets the node for collectionLink.
func (r *NodeRegistry) Remove(collectionLink string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, collectionLink)
}

// Len reports how many collection nodes are registered.
func (r *NodeRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *NodeRegistry) entry(ctx context.Context, collectionLink string) (*registryEntry, error) {
	r.mu.Lock()
	entry, ok := r.entries[collectionLink]
	r.mu.Unlock()
	if ok {
		return entry, nil
	}

	c, err := r.opts.Factory.NewClient(ctx, r.conn)
	if err != nil {
		return nil, err
	}
	meta, err := c.ReadCollection(ctx, collectionLink)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[collectionLink]; ok {
		return existing, nil
	}
	entry = &registryEntry{node: tree.NewCollectionNode(*meta, r.conn, r.opts)}
	r.entries[collectionLink] = entry
	return entry, nil
}
