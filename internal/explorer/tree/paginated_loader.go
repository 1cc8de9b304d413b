package tree

import (
	"context"

	"docdb-explorer/internal/explorer/domain/client"
)

// DefaultPageSize is the number of children requested per page.
const DefaultPageSize = 50

// ChildSource supplies what a PaginatedLoader needs: a client, an iterator
// over raw records, and a way to turn a record into a tree item.
type ChildSource[T any] interface {
	DocumentClient(ctx context.Context) (client.DocumentClient, error)
	Iterator(ctx context.Context, c client.DocumentClient, opts client.FeedOptions) (client.DocumentIterator[T], error)
	WrapChild(item T) TreeItem
}

type loaderState int

const (
	stateFresh loaderState = iota
	stateActive
	stateExhausted
)

func (s loaderState) String() string {
	switch s {
	case stateFresh:
		return "fresh"
	case stateActive:
		return "active"
	default:
		return "exhausted"
	}
}

// PaginatedLoader pulls children page by page from a single server-side
// iterator per session. A session starts on the first LoadMore and ends with
// Reset. Calls must not overlap for the same loader; the host serialises them.
type PaginatedLoader[T any] struct {
	source   ChildSource[T]
	pageSize int
	iterator client.DocumentIterator[T]
	state    loaderState
}

// NewPaginatedLoader creates a loader in the fresh state.
func NewPaginatedLoader[T any](source ChildSource[T], pageSize int) *PaginatedLoader[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &PaginatedLoader[T]{
		source:   source,
		pageSize: pageSize,
	}
}

// HasMore is true until the iterator reported completion.
func (l *PaginatedLoader[T]) HasMore() bool {
	return l.state != stateExhausted
}

// Reset discards the live iterator. The next LoadMore starts over.
func (l *PaginatedLoader[T]) Reset() {
	l.iterator = nil
	l.state = stateFresh
}

// PageSize returns the fixed page size requested from the iterator.
func (l *PaginatedLoader[T]) PageSize() int {
	return l.pageSize
}

// LoadMore returns the next page of children. Once exhausted it returns an
// empty slice without touching the network until clearCache is passed.
// Errors from the client or iterator are returned unchanged.
func (l *PaginatedLoader[T]) LoadMore(ctx context.Context, clearCache bool) ([]TreeItem, error) {
	if clearCache {
		l.Reset()
	}

	if l.state == stateExhausted {
		return []TreeItem{}, nil
	}

	if l.state == stateFresh {
		c, err := l.source.DocumentClient(ctx)
		if err != nil {
			return nil, err
		}
		it, err := l.source.Iterator(ctx, c, client.FeedOptions{MaxItemCount: l.pageSize})
		if err != nil {
			return nil, err
		}
		l.iterator = it
		l.state = stateActive
	}

	page, err := l.iterator.ExecuteNext(ctx)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 || !l.iterator.HasMoreResults() {
		l.state = stateExhausted
		l.iterator = nil
	}

	children := make([]TreeItem, 0, len(page))
	for _, item := range page {
		children = append(children, l.source.WrapChild(item))
	}
	return children, nil
}
