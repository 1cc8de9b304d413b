package client

import (
	"context"

	"docdb-explorer/internal/explorer/domain/model"
)

// ConnectionContext holds what is needed to build a client for one account.
// No connection object is kept alongside it.
type ConnectionContext struct {
	Endpoint   string
	Credential string
	IsEmulator bool
}

// FeedOptions controls paging of a read feed.
type FeedOptions struct {
	// MaxItemCount is the page size; zero lets the client choose.
	MaxItemCount int
	// Continuation resumes a feed where a previous iterator left off.
	Continuation string
}

// DocumentIterator is a server-side paged query. Continuation state is opaque
// and owned by the iterator.
type DocumentIterator[T any] interface {
	// ExecuteNext fetches the next page. An empty page means the feed is drained.
	ExecuteNext(ctx context.Context) ([]T, error)
	// HasMoreResults reports whether the server indicated another page.
	HasMoreResults() bool
	// Continuation returns the token for the next page, "" when drained.
	Continuation() string
}

// DocumentClient is the remote data client bound to one account.
type DocumentClient interface {
	ReadDocuments(ctx context.Context, collectionLink string, opts FeedOptions) (DocumentIterator[model.Document], error)
	// CreateDocument creates body under the collection. A body without "id"
	// asks the server to generate one.
	CreateDocument(ctx context.Context, collectionLink string, body map[string]interface{}) (model.Document, error)
	DeleteDocument(ctx context.Context, documentLink string) error
	DeleteCollection(ctx context.Context, collectionLink string) error
	ReadCollection(ctx context.Context, collectionLink string) (*model.CollectionMeta, error)
}

// Factory builds a DocumentClient for a connection context. Implementations are
// expected to be cheap to call once per operation.
type Factory interface {
	NewClient(ctx context.Context, conn ConnectionContext) (DocumentClient, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, conn ConnectionContext) (DocumentClient, error)

// NewClient calls f.
func (f FactoryFunc) NewClient(ctx context.Context, conn ConnectionContext) (DocumentClient, error) {
	return f(ctx, conn)
}
