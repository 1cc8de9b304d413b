package tree

import (
	"context"
	"errors"
	"testing"

	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/domain/prompt"
	apperrors "docdb-explorer/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDocumentNode_Identity(t *testing.T) {
	f := newCollectionFixture(t, 0)
	child := f.node.WrapChild(model.Document{"id": "d1", "customer": map[string]interface{}{"id": "cust-9"}})
	doc, ok := child.(*DocumentNode)
	require.True(t, ok)

	assert.Equal(t, "d1", doc.ID())
	assert.Equal(t, "d1", doc.Label())
	assert.Equal(t, DocumentContextValue, doc.ContextValue())
	assert.Equal(t, "/ext/resources/icons/theme-agnostic/Document.svg", doc.IconPath().Light)
	assert.Equal(t, testCollectionLink, doc.CollectionLink())
	assert.Equal(t, testCollectionLink+"/docs/d1", doc.Link())
	assert.Equal(t, "cust-9", doc.Document()["customer"].(map[string]interface{})["id"])

	value, ok := doc.PartitionKeyValue()
	assert.True(t, ok)
	assert.Equal(t, "cust-9", value)
}

func TestDocumentNode_PrefersServerSelfLink(t *testing.T) {
	f := newCollectionFixture(t, 0)
	doc := f.node.WrapChild(model.Document{"id": "d1", "_self": "dbs/xyz/colls/abc/docs/def"}).(*DocumentNode)
	assert.Equal(t, "dbs/xyz/colls/abc/docs/def", doc.Link())
}

func TestDocumentNode_NoPartitionKey(t *testing.T) {
	doc := newDocumentNode(model.Document{"id": "d1"}, model.CollectionMeta{ID: "c", SelfLink: "dbs/db/colls/c"}, &services{})
	_, ok := doc.PartitionKeyValue()
	assert.False(t, ok)
}

func TestDocumentNode_DeleteConfirmed(t *testing.T) {
	f := newCollectionFixture(t, 0)
	doc := f.node.WrapChild(model.Document{"id": "d1"}).(*DocumentNode)
	f.prompter.On("ShowWarningMessage", mock.Anything, "Are you sure you want to delete document 'd1'?", true,
		[]string{prompt.DialogYes, prompt.DialogCancel}).Return(prompt.DialogYes, true)
	f.client.On("DeleteDocument", mock.Anything, testCollectionLink+"/docs/d1").Return(nil).Once()

	require.NoError(t, doc.DeleteTreeItem(context.Background()))
	f.client.AssertExpectations(t)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, model.TreeEventDocumentDeleted, f.publisher.events[0].Type)
	assert.Equal(t, "d1", f.publisher.events[0].ItemID)
}

func TestDocumentNode_DeleteCancelled(t *testing.T) {
	f := newCollectionFixture(t, 0)
	doc := f.node.WrapChild(model.Document{"id": "d1"}).(*DocumentNode)
	f.prompter.On("ShowWarningMessage", mock.Anything, mock.Anything, true, mock.Anything).Return(prompt.DialogCancel, true)

	err := doc.DeleteTreeItem(context.Background())
	assert.True(t, apperrors.IsOperationCancelled(err))
	f.client.AssertNotCalled(t, "DeleteDocument", mock.Anything, mock.Anything)
}

func TestDocumentNode_DeleteRemoteFailure(t *testing.T) {
	f := newCollectionFixture(t, 0)
	doc := f.node.WrapChild(model.Document{"id": "d1"}).(*DocumentNode)
	remoteErr := errors.New("gone")
	f.prompter.On("ShowWarningMessage", mock.Anything, mock.Anything, true, mock.Anything).Return(prompt.DialogYes, true)
	f.client.On("DeleteDocument", mock.Anything, mock.Anything).Return(remoteErr)

	err := doc.DeleteTreeItem(context.Background())
	assert.True(t, apperrors.IsRemoteOperation(err))
	assert.ErrorIs(t, err, remoteErr)
}
