package tree

import (
	"context"
	"fmt"

	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/domain/prompt"
	"docdb-explorer/internal/shared/errors"
	"docdb-explorer/internal/shared/link"
	"docdb-explorer/internal/shared/utils"
)

// DocumentContextValue identifies document nodes to the host's menus.
const DocumentContextValue = "cosmosDBDocument"

// DocumentNode wraps one retrieved document. It knows its collection by link
// only.
type DocumentNode struct {
	doc            model.Document
	collectionLink string
	partitionKey   *model.PartitionKeyDefinition
	svc            *services
}

var _ DeletableTreeItem = (*DocumentNode)(nil)

func newDocumentNode(doc model.Document, coll model.CollectionMeta, svc *services) *DocumentNode {
	return &DocumentNode{
		doc:            doc,
		collectionLink: coll.SelfLink,
		partitionKey:   coll.PartitionKey,
		svc:            svc,
	}
}

func (d *DocumentNode) ID() string {
	return d.doc.ID()
}

func (d *DocumentNode) Label() string {
	return d.doc.ID()
}

func (d *DocumentNode) IconPath() IconPath {
	return d.svc.icons.ThemeAgnostic("Document")
}

func (d *DocumentNode) ContextValue() string {
	return DocumentContextValue
}

// Document returns the wrapped record.
func (d *DocumentNode) Document() model.Document {
	return d.doc
}

// CollectionLink is the self link of the collection the document belongs to.
func (d *DocumentNode) CollectionLink() string {
	return d.collectionLink
}

// Link is the document's self link, derived from the collection link when the
// record does not carry one.
func (d *DocumentNode) Link() string {
	if self := d.doc.SelfLink(); self != "" {
		return self
	}
	return link.BuildDocumentLink(d.collectionLink, d.doc.ID())
}

// PartitionKeyValue reads the document's value for the collection's first
// partition key path.
func (d *DocumentNode) PartitionKeyValue() (interface{}, bool) {
	path, ok := d.partitionKey.FirstPath()
	if !ok {
		return nil, false
	}
	return d.doc.Value(path)
}

// DeleteTreeItem asks for confirmation and deletes the document.
func (d *DocumentNode) DeleteTreeItem(ctx context.Context) error {
	ctx = utils.WithCollectionLink(utils.WithOperation(ctx, "delete_document"), d.collectionLink)
	message := fmt.Sprintf("Are you sure you want to delete document '%s'?", d.Label())
	if !prompt.Confirm(ctx, d.svc.prompter, message) {
		d.svc.log.WithContext(ctx).Debug("document delete cancelled")
		return errors.NewOperationCancelledError("delete document")
	}

	c, err := d.svc.documentClient(ctx)
	if err != nil {
		return errors.NewRemoteOperationError("delete document", err)
	}
	if err := c.DeleteDocument(ctx, d.Link()); err != nil {
		d.svc.log.WithContext(ctx).Errorf("failed to delete document %s: %v", d.ID(), err)
		return errors.NewRemoteOperationError("delete document", err)
	}

	d.svc.log.WithContext(ctx).Infof("document %s deleted", d.ID())
	d.svc.publish(ctx, model.TreeEvent{
		Type:           model.TreeEventDocumentDeleted,
		Link:           d.Link(),
		CollectionLink: d.collectionLink,
		ItemID:         d.ID(),
	})
	return nil
}
