package tree

import (
	"context"
	"errors"
	"testing"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is a ChildSource that hands out a fresh iterator over items for
// every session.
type stubSource struct {
	items       []model.Document
	clientCalls int
	iterators   []*sliceIterator
	lastOpts    client.FeedOptions
	clientErr   error
	iteratorErr error
}

func (s *stubSource) DocumentClient(ctx context.Context) (client.DocumentClient, error) {
	s.clientCalls++
	if s.clientErr != nil {
		return nil, s.clientErr
	}
	return &MockDocumentClient{}, nil
}

func (s *stubSource) Iterator(ctx context.Context, c client.DocumentClient, opts client.FeedOptions) (client.DocumentIterator[model.Document], error) {
	if s.iteratorErr != nil {
		return nil, s.iteratorErr
	}
	s.lastOpts = opts
	it := newSliceIterator(s.items, opts.MaxItemCount)
	s.iterators = append(s.iterators, it)
	return it, nil
}

func (s *stubSource) WrapChild(item model.Document) TreeItem {
	return newDocumentNode(item, model.CollectionMeta{ID: "c1", SelfLink: "dbs/db1/colls/c1"}, &services{icons: NewIcons("resources")})
}

func ids(items []TreeItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID())
	}
	return out
}

func TestPaginatedLoader_FreshHasMore(t *testing.T) {
	loader := NewPaginatedLoader[model.Document](&stubSource{}, 0)
	assert.True(t, loader.HasMore())
	assert.Equal(t, DefaultPageSize, loader.PageSize())
}

func TestPaginatedLoader_ReturnsEveryRecordOnceInOrder(t *testing.T) {
	source := &stubSource{items: documents("a", "b", "c", "d", "e")}
	loader := NewPaginatedLoader[model.Document](source, 2)

	var all []string
	for loader.HasMore() {
		page, err := loader.LoadMore(context.Background(), false)
		require.NoError(t, err)
		all = append(all, ids(page)...)
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, all)
	assert.Equal(t, 1, source.clientCalls)
	require.Len(t, source.iterators, 1)
	assert.Equal(t, 3, source.iterators[0].calls)
	assert.Equal(t, 2, source.lastOpts.MaxItemCount)
	assert.Empty(t, source.lastOpts.Continuation)
}

func TestPaginatedLoader_ExhaustedIssuesNoCalls(t *testing.T) {
	source := &stubSource{items: documents("a")}
	loader := NewPaginatedLoader[model.Document](source, 10)

	page, err := loader.LoadMore(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(page))
	assert.False(t, loader.HasMore())

	for i := 0; i < 3; i++ {
		page, err = loader.LoadMore(context.Background(), false)
		require.NoError(t, err)
		assert.NotNil(t, page)
		assert.Empty(t, page)
		assert.False(t, loader.HasMore())
	}
	assert.Equal(t, 1, source.clientCalls)
	assert.Equal(t, 1, source.iterators[0].calls)
}

func TestPaginatedLoader_EmptyCollection(t *testing.T) {
	source := &stubSource{}
	loader := NewPaginatedLoader[model.Document](source, 10)

	page, err := loader.LoadMore(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, loader.HasMore())
}

func TestPaginatedLoader_ClearCacheRestarts(t *testing.T) {
	source := &stubSource{items: documents("a", "b", "c")}
	loader := NewPaginatedLoader[model.Document](source, 2)

	first, err := loader.LoadMore(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(first))

	restarted, err := loader.LoadMore(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(restarted))
	assert.Len(t, source.iterators, 2)

	rest, err := loader.LoadMore(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(rest))
	assert.False(t, loader.HasMore())

	again, err := loader.LoadMore(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(again))
	assert.True(t, loader.HasMore())
	assert.Len(t, source.iterators, 3)
}

func TestPaginatedLoader_ResetReturnsToFresh(t *testing.T) {
	source := &stubSource{items: documents("a")}
	loader := NewPaginatedLoader[model.Document](source, 5)
	_, err := loader.LoadMore(context.Background(), false)
	require.NoError(t, err)
	require.False(t, loader.HasMore())

	loader.Reset()
	assert.True(t, loader.HasMore())
	page, err := loader.LoadMore(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(page))
}

func TestPaginatedLoader_ErrorsPropagateUnchanged(t *testing.T) {
	clientErr := errors.New("no client")
	loader := NewPaginatedLoader[model.Document](&stubSource{clientErr: clientErr}, 5)
	_, err := loader.LoadMore(context.Background(), false)
	assert.Same(t, clientErr, err)
	assert.True(t, loader.HasMore())

	iterErr := errors.New("bad query")
	loader = NewPaginatedLoader[model.Document](&stubSource{iteratorErr: iterErr}, 5)
	_, err = loader.LoadMore(context.Background(), false)
	assert.Same(t, iterErr, err)
}

func TestPaginatedLoader_PageErrorKeepsSession(t *testing.T) {
	source := &stubSource{items: documents("a", "b", "c")}
	loader := NewPaginatedLoader[model.Document](source, 2)
	_, err := loader.LoadMore(context.Background(), false)
	require.NoError(t, err)

	pageErr := errors.New("throttled")
	source.iterators[0].err = pageErr
	_, err = loader.LoadMore(context.Background(), false)
	assert.Same(t, pageErr, err)
	assert.True(t, loader.HasMore())

	source.iterators[0].err = nil
	page, err := loader.LoadMore(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(page))
	assert.Len(t, source.iterators, 1)
}
