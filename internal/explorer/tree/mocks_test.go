package tree

import (
	"context"
	"sync"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/domain/prompt"
	"docdb-explorer/internal/shared/logger"

	"github.com/stretchr/testify/mock"
)

// MockDocumentClient is a testify mock of client.DocumentClient.
type MockDocumentClient struct {
	mock.Mock
}

func (m *MockDocumentClient) ReadDocuments(ctx context.Context, collectionLink string, opts client.FeedOptions) (client.DocumentIterator[model.Document], error) {
	args := m.Called(ctx, collectionLink, opts)
	if it := args.Get(0); it != nil {
		return it.(client.DocumentIterator[model.Document]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentClient) CreateDocument(ctx context.Context, collectionLink string, body map[string]interface{}) (model.Document, error) {
	args := m.Called(ctx, collectionLink, body)
	if doc := args.Get(0); doc != nil {
		return doc.(model.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentClient) DeleteDocument(ctx context.Context, documentLink string) error {
	return m.Called(ctx, documentLink).Error(0)
}

func (m *MockDocumentClient) DeleteCollection(ctx context.Context, collectionLink string) error {
	return m.Called(ctx, collectionLink).Error(0)
}

func (m *MockDocumentClient) ReadCollection(ctx context.Context, collectionLink string) (*model.CollectionMeta, error) {
	args := m.Called(ctx, collectionLink)
	if meta := args.Get(0); meta != nil {
		return meta.(*model.CollectionMeta), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPrompter is a testify mock of prompt.Prompter.
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) ShowWarningMessage(ctx context.Context, message string, modal bool, choices ...string) (string, bool) {
	args := m.Called(ctx, message, modal, choices)
	return args.String(0), args.Bool(1)
}

func (m *MockPrompter) ShowInputBox(ctx context.Context, opts prompt.InputBoxOptions) *string {
	args := m.Called(ctx, opts)
	if v := args.Get(0); v != nil {
		return v.(*string)
	}
	return nil
}

// sliceIterator serves fixed pages and counts round trips.
type sliceIterator struct {
	pages [][]model.Document
	next  int
	calls int
	err   error
}

func newSliceIterator(items []model.Document, pageSize int) *sliceIterator {
	it := &sliceIterator{}
	for start := 0; start < len(items); start += pageSize {
		end := start + pageSize
		if end > len(items) {
			end = len(items)
		}
		it.pages = append(it.pages, items[start:end])
	}
	return it
}

func (s *sliceIterator) ExecuteNext(ctx context.Context) ([]model.Document, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.next >= len(s.pages) {
		return []model.Document{}, nil
	}
	page := s.pages[s.next]
	s.next++
	return page, nil
}

func (s *sliceIterator) HasMoreResults() bool {
	return s.next < len(s.pages)
}

func (s *sliceIterator) Continuation() string {
	if !s.HasMoreResults() {
		return ""
	}
	return "page-token"
}

// recordingPublisher keeps every published tree event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.TreeEvent
	err    error
}

func (r *recordingPublisher) PublishTreeEvent(ctx context.Context, event model.TreeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func documents(ids ...string) []model.Document {
	docs := make([]model.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, model.Document{"id": id})
	}
	return docs
}

func strPtr(s string) *string {
	return &s
}

func testLogger() logger.Logger {
	return logger.NewLoggerWithConfig("panic", "text")
}
