package tree

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/domain/prompt"
	"docdb-explorer/internal/shared/errors"
	"docdb-explorer/internal/shared/logger"
	"docdb-explorer/internal/shared/utils"
)

// CollectionContextValue identifies collection nodes to the host's menus.
const CollectionContextValue = "cosmosDBDocumentCollection"

const createDocumentPlaceHolder = "Enter a unique document ID or leave blank for a generated ID"

// CollectionNode represents one collection and pages its documents as children.
type CollectionNode struct {
	meta   model.CollectionMeta
	svc    *services
	loader *PaginatedLoader[model.Document]
}

var (
	_ ParentTreeItem              = (*CollectionNode)(nil)
	_ DeletableTreeItem           = (*CollectionNode)(nil)
	_ ChildSource[model.Document] = (*CollectionNode)(nil)
)

// NewCollectionNode creates a node for meta reachable through conn.
func NewCollectionNode(meta model.CollectionMeta, conn client.ConnectionContext, opts Options) *CollectionNode {
	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("tree")
	}
	n := &CollectionNode{
		meta: meta,
		svc: &services{
			conn:      conn,
			factory:   opts.Factory,
			prompter:  opts.Prompter,
			publisher: opts.Publisher,
			icons:     opts.Icons,
			log:       log,
			now:       time.Now,
		},
	}
	n.loader = NewPaginatedLoader[model.Document](n, opts.PageSize)
	return n
}

func (n *CollectionNode) ID() string {
	return n.meta.ID
}

func (n *CollectionNode) Label() string {
	return n.meta.ID
}

func (n *CollectionNode) IconPath() IconPath {
	return n.svc.icons.ThemeAgnostic("Collection")
}

func (n *CollectionNode) ContextValue() string {
	return CollectionContextValue
}

// Link is the collection's self link.
func (n *CollectionNode) Link() string {
	return n.meta.SelfLink
}

// PartitionKey is nil for collections without a partition key.
func (n *CollectionNode) PartitionKey() *model.PartitionKeyDefinition {
	return n.meta.PartitionKey
}

// DocumentClient returns a fresh client for the collection's account.
func (n *CollectionNode) DocumentClient(ctx context.Context) (client.DocumentClient, error) {
	return n.svc.documentClient(ctx)
}

// Iterator reads the collection's documents with the given paging options.
func (n *CollectionNode) Iterator(ctx context.Context, c client.DocumentClient, opts client.FeedOptions) (client.DocumentIterator[model.Document], error) {
	return c.ReadDocuments(ctx, n.Link(), opts)
}

// WrapChild turns one retrieved document into a child node.
func (n *CollectionNode) WrapChild(doc model.Document) TreeItem {
	return newDocumentNode(doc, n.meta, n.svc)
}

func (n *CollectionNode) HasMoreChildren() bool {
	return n.loader.HasMore()
}

func (n *CollectionNode) LoadMoreChildren(ctx context.Context, clearCache bool) ([]TreeItem, error) {
	ctx = n.operationContext(ctx, "load_children")
	children, err := n.loader.LoadMore(ctx, clearCache)
	if err != nil {
		n.svc.log.WithContext(ctx).Errorf("failed to load documents: %v", err)
		return nil, err
	}
	n.svc.log.WithContext(ctx).Debugf("loaded %d documents, more=%t", len(children), n.loader.HasMore())
	return children, nil
}

// DeleteTreeItem asks for confirmation and deletes the collection.
func (n *CollectionNode) DeleteTreeItem(ctx context.Context) error {
	ctx = n.operationContext(ctx, "delete_collection")
	message := fmt.Sprintf("Are you sure you want to delete collection '%s' and its contents?", n.Label())
	if !prompt.Confirm(ctx, n.svc.prompter, message) {
		n.svc.log.WithContext(ctx).Debug("collection delete cancelled")
		return errors.NewOperationCancelledError("delete collection")
	}

	c, err := n.DocumentClient(ctx)
	if err != nil {
		return errors.NewRemoteOperationError("delete collection", err)
	}
	if err := c.DeleteCollection(ctx, n.Link()); err != nil {
		n.svc.log.WithContext(ctx).Errorf("failed to delete collection: %v", err)
		return errors.NewRemoteOperationError("delete collection", err)
	}

	n.loader.Reset()
	n.svc.log.WithContext(ctx).Infof("collection %s deleted", n.ID())
	n.svc.publish(ctx, model.TreeEvent{
		Type:           model.TreeEventCollectionDeleted,
		Link:           n.Link(),
		CollectionLink: n.Link(),
		ItemID:         n.ID(),
	})
	return nil
}

// CreateChild prompts for a document id and creates the document. A blank id
// lets the server generate one.
func (n *CollectionNode) CreateChild(ctx context.Context, showCreatingPlaceholder func(label string)) (TreeItem, error) {
	ctx = n.operationContext(ctx, "create_document")
	input := n.svc.prompter.ShowInputBox(ctx, prompt.InputBoxOptions{
		PlaceHolder:    createDocumentPlaceHolder,
		IgnoreFocusOut: true,
	})
	if input == nil {
		n.svc.log.WithContext(ctx).Debug("document create cancelled")
		return nil, errors.NewOperationCancelledError("create document")
	}

	docID := strings.TrimSpace(*input)
	if showCreatingPlaceholder != nil {
		showCreatingPlaceholder(docID)
	}

	body := map[string]interface{}{}
	if docID != "" {
		body[model.FieldID] = docID
	}

	c, err := n.DocumentClient(ctx)
	if err != nil {
		return nil, errors.NewRemoteOperationError("create document", err)
	}
	doc, err := c.CreateDocument(ctx, n.Link(), body)
	if err != nil {
		n.svc.log.WithContext(ctx).Errorf("failed to create document %q: %v", docID, err)
		return nil, errors.NewRemoteOperationError("create document", err)
	}

	child := newDocumentNode(doc, n.meta, n.svc)
	n.svc.log.WithContext(ctx).Infof("document %s created", child.ID())
	n.svc.publish(ctx, model.TreeEvent{
		Type:           model.TreeEventDocumentCreated,
		Link:           child.Link(),
		CollectionLink: n.Link(),
		ItemID:         child.ID(),
	})
	return child, nil
}

// PickTreeItem returns the node holding items of the given context value.
// Documents live directly under the collection.
func (n *CollectionNode) PickTreeItem(expectedContextValue string) TreeItem {
	switch expectedContextValue {
	case CollectionContextValue, DocumentContextValue:
		return n
	default:
		return nil
	}
}

func (n *CollectionNode) operationContext(ctx context.Context, operation string) context.Context {
	ctx = utils.WithOperation(ctx, operation)
	return utils.WithCollectionLink(ctx, n.Link())
}
