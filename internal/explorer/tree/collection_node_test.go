package tree

import (
	"context"
	"errors"
	"testing"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/domain/prompt"
	apperrors "docdb-explorer/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCollectionLink = "dbs/db1/colls/orders"

type collectionFixture struct {
	node      *CollectionNode
	client    *MockDocumentClient
	prompter  *MockPrompter
	publisher *recordingPublisher
	conns     []client.ConnectionContext
}

func newCollectionFixture(t *testing.T, pageSize int) *collectionFixture {
	t.Helper()
	f := &collectionFixture{
		client:    &MockDocumentClient{},
		prompter:  &MockPrompter{},
		publisher: &recordingPublisher{},
	}
	factory := client.FactoryFunc(func(ctx context.Context, conn client.ConnectionContext) (client.DocumentClient, error) {
		f.conns = append(f.conns, conn)
		return f.client, nil
	})
	meta := model.CollectionMeta{
		ID:           "orders",
		SelfLink:     testCollectionLink,
		PartitionKey: &model.PartitionKeyDefinition{Paths: []string{"/customer/id"}, Kind: "Hash"},
	}
	conn := client.ConnectionContext{Endpoint: "mongodb://localhost:27017", Credential: "key", IsEmulator: true}
	f.node = NewCollectionNode(meta, conn, Options{
		Factory:   factory,
		Prompter:  f.prompter,
		Publisher: f.publisher,
		Icons:     NewIcons("/ext/resources"),
		Logger:    testLogger(),
		PageSize:  pageSize,
	})
	return f
}

func TestCollectionNode_Identity(t *testing.T) {
	f := newCollectionFixture(t, 0)
	n := f.node

	assert.Equal(t, "orders", n.ID())
	assert.Equal(t, "orders", n.Label())
	assert.Equal(t, CollectionContextValue, n.ContextValue())
	assert.Equal(t, testCollectionLink, n.Link())
	require.NotNil(t, n.PartitionKey())
	assert.Equal(t, []string{"/customer/id"}, n.PartitionKey().Paths)
	icon := n.IconPath()
	assert.Equal(t, "/ext/resources/icons/theme-agnostic/Collection.svg", icon.Light)
	assert.Equal(t, icon.Light, icon.Dark)
	assert.True(t, n.HasMoreChildren())
}

func TestCollectionNode_DocumentClientUsesConnectionContext(t *testing.T) {
	f := newCollectionFixture(t, 0)
	c, err := f.node.DocumentClient(context.Background())
	require.NoError(t, err)
	assert.Same(t, f.client, c)
	require.Len(t, f.conns, 1)
	assert.Equal(t, "mongodb://localhost:27017", f.conns[0].Endpoint)
	assert.True(t, f.conns[0].IsEmulator)
}

func TestCollectionNode_LoadMoreChildren(t *testing.T) {
	f := newCollectionFixture(t, 2)
	it := newSliceIterator(documents("d1", "d2", "d3"), 2)
	f.client.On("ReadDocuments", mock.Anything, testCollectionLink, client.FeedOptions{MaxItemCount: 2}).Return(it, nil).Once()

	first, err := f.node.LoadMoreChildren(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, ids(first))
	assert.True(t, f.node.HasMoreChildren())

	second, err := f.node.LoadMoreChildren(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"d3"}, ids(second))
	assert.False(t, f.node.HasMoreChildren())

	done, err := f.node.LoadMoreChildren(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, done)

	doc, ok := first[0].(*DocumentNode)
	require.True(t, ok)
	assert.Equal(t, testCollectionLink, doc.CollectionLink())
	f.client.AssertExpectations(t)
}

func TestCollectionNode_LoadMoreChildrenError(t *testing.T) {
	f := newCollectionFixture(t, 2)
	readErr := errors.New("read failed")
	f.client.On("ReadDocuments", mock.Anything, testCollectionLink, mock.Anything).Return(nil, readErr)

	_, err := f.node.LoadMoreChildren(context.Background(), false)
	assert.Same(t, readErr, err)
	assert.True(t, f.node.HasMoreChildren())
}

func TestCollectionNode_DeleteConfirmed(t *testing.T) {
	f := newCollectionFixture(t, 0)
	f.prompter.On("ShowWarningMessage", mock.Anything,
		"Are you sure you want to delete collection 'orders' and its contents?", true,
		[]string{prompt.DialogYes, prompt.DialogCancel}).Return(prompt.DialogYes, true)
	f.client.On("DeleteCollection", mock.Anything, testCollectionLink).Return(nil).Once()

	require.NoError(t, f.node.DeleteTreeItem(context.Background()))

	f.client.AssertNumberOfCalls(t, "DeleteCollection", 1)
	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, model.TreeEventCollectionDeleted, event.Type)
	assert.Equal(t, testCollectionLink, event.Link)
	assert.Equal(t, "orders", event.ItemID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestCollectionNode_DeleteCancelled(t *testing.T) {
	for name, answer := range map[string]struct {
		choice string
		ok     bool
	}{
		"cancel":    {prompt.DialogCancel, true},
		"dismissed": {"", false},
	} {
		t.Run(name, func(t *testing.T) {
			f := newCollectionFixture(t, 0)
			f.prompter.On("ShowWarningMessage", mock.Anything, mock.Anything, true, mock.Anything).Return(answer.choice, answer.ok)

			err := f.node.DeleteTreeItem(context.Background())
			require.Error(t, err)
			assert.True(t, apperrors.IsOperationCancelled(err))
			assert.ErrorIs(t, err, apperrors.ErrOperationCancelled)
			f.client.AssertNotCalled(t, "DeleteCollection", mock.Anything, mock.Anything)
			assert.Empty(t, f.conns)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestCollectionNode_DeleteRemoteFailure(t *testing.T) {
	f := newCollectionFixture(t, 0)
	remoteErr := errors.New("403 forbidden")
	f.prompter.On("ShowWarningMessage", mock.Anything, mock.Anything, true, mock.Anything).Return(prompt.DialogYes, true)
	f.client.On("DeleteCollection", mock.Anything, testCollectionLink).Return(remoteErr)

	err := f.node.DeleteTreeItem(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsRemoteOperation(err))
	assert.ErrorIs(t, err, remoteErr)
	assert.Empty(t, f.publisher.events)
}

func TestCollectionNode_DeleteResetsLoader(t *testing.T) {
	f := newCollectionFixture(t, 5)
	f.client.On("ReadDocuments", mock.Anything, testCollectionLink, mock.Anything).Return(newSliceIterator(documents("d1"), 5), nil).Once()
	_, err := f.node.LoadMoreChildren(context.Background(), false)
	require.NoError(t, err)
	require.False(t, f.node.HasMoreChildren())

	f.prompter.On("ShowWarningMessage", mock.Anything, mock.Anything, true, mock.Anything).Return(prompt.DialogYes, true)
	f.client.On("DeleteCollection", mock.Anything, testCollectionLink).Return(nil)
	require.NoError(t, f.node.DeleteTreeItem(context.Background()))
	assert.True(t, f.node.HasMoreChildren())
}

func TestCollectionNode_CreateChildTrimsID(t *testing.T) {
	f := newCollectionFixture(t, 0)
	f.prompter.On("ShowInputBox", mock.Anything, prompt.InputBoxOptions{
		PlaceHolder:    "Enter a unique document ID or leave blank for a generated ID",
		IgnoreFocusOut: true,
	}).Return(strPtr("  abc  "))
	f.client.On("CreateDocument", mock.Anything, testCollectionLink, map[string]interface{}{"id": "abc"}).
		Return(model.Document{"id": "abc", "_self": testCollectionLink + "/docs/abc"}, nil).Once()

	var placeholder []string
	child, err := f.node.CreateChild(context.Background(), func(label string) {
		placeholder = append(placeholder, label)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, placeholder)
	assert.Equal(t, "abc", child.ID())
	assert.Equal(t, DocumentContextValue, child.ContextValue())

	doc := child.(*DocumentNode)
	assert.Equal(t, testCollectionLink+"/docs/abc", doc.Link())
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, model.TreeEventDocumentCreated, f.publisher.events[0].Type)
	assert.Equal(t, testCollectionLink, f.publisher.events[0].CollectionLink)
	f.client.AssertExpectations(t)
}

func TestCollectionNode_CreateChildBlankIDOmitsField(t *testing.T) {
	for _, input := range []string{"", "   "} {
		f := newCollectionFixture(t, 0)
		f.prompter.On("ShowInputBox", mock.Anything, mock.Anything).Return(strPtr(input))
		f.client.On("CreateDocument", mock.Anything, testCollectionLink, map[string]interface{}{}).
			Return(model.Document{"id": "generated-1"}, nil).Once()

		child, err := f.node.CreateChild(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "generated-1", child.ID())
		f.client.AssertExpectations(t)
	}
}

func TestCollectionNode_CreateChildDismissed(t *testing.T) {
	f := newCollectionFixture(t, 0)
	f.prompter.On("ShowInputBox", mock.Anything, mock.Anything).Return(nil)

	called := false
	_, err := f.node.CreateChild(context.Background(), func(string) { called = true })
	require.Error(t, err)
	assert.True(t, apperrors.IsOperationCancelled(err))
	assert.False(t, called)
	f.client.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.conns)
}

func TestCollectionNode_CreateChildRemoteFailure(t *testing.T) {
	f := newCollectionFixture(t, 0)
	remoteErr := errors.New("conflict")
	f.prompter.On("ShowInputBox", mock.Anything, mock.Anything).Return(strPtr("dup"))
	f.client.On("CreateDocument", mock.Anything, testCollectionLink, map[string]interface{}{"id": "dup"}).Return(nil, remoteErr)

	_, err := f.node.CreateChild(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsRemoteOperation(err))
	assert.ErrorIs(t, err, remoteErr)
	assert.Empty(t, f.publisher.events)
}

func TestCollectionNode_PublisherFailureDoesNotFailOperation(t *testing.T) {
	f := newCollectionFixture(t, 0)
	f.publisher.err = errors.New("redis down")
	f.prompter.On("ShowWarningMessage", mock.Anything, mock.Anything, true, mock.Anything).Return(prompt.DialogYes, true)
	f.client.On("DeleteCollection", mock.Anything, testCollectionLink).Return(nil)

	assert.NoError(t, f.node.DeleteTreeItem(context.Background()))
	assert.Len(t, f.publisher.events, 1)
}

func TestCollectionNode_PickTreeItem(t *testing.T) {
	f := newCollectionFixture(t, 0)
	assert.Same(t, f.node, f.node.PickTreeItem(DocumentContextValue))
	assert.Same(t, f.node, f.node.PickTreeItem(CollectionContextValue))
	assert.Nil(t, f.node.PickTreeItem("cosmosDBStoredProcedure"))
}
