package mongodb

import (
	"context"
	"fmt"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/shared/errors"
	"docdb-explorer/internal/shared/link"
	"docdb-explorer/internal/shared/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fields never written to the store; they are derived on read.
var systemFields = map[string]struct{}{
	model.FieldSelfLink: {},
	"_rid":              {},
	"_etag":             {},
	"_ts":               {},
	"_attachments":      {},
}

// collectionMetaDoc is the stored partition key declaration of a collection.
type collectionMetaDoc struct {
	ID           string                        `bson:"_id"`
	PartitionKey *model.PartitionKeyDefinition `bson:"partition_key,omitempty"`
}

// DocumentClient implements client.DocumentClient on a MongoDB deployment.
// Databases map to MongoDB databases, collections to collections and the
// document id to _id.
type DocumentClient struct {
	client             *mongo.Client
	metadataCollection string
	logger             logger.Logger
	newID              func() string
}

var _ client.DocumentClient = (*DocumentClient)(nil)

// NewDocumentClient wraps a connected mongo client.
func NewDocumentClient(mc *mongo.Client, metadataCollection string, log logger.Logger) *DocumentClient {
	if metadataCollection == "" {
		metadataCollection = "__collections"
	}
	return &DocumentClient{
		client:             mc,
		metadataCollection: metadataCollection,
		logger:             log,
		newID:              uuid.NewString,
	}
}

func (c *DocumentClient) collection(collectionLink string) (*mongo.Collection, *link.LinkInfo, error) {
	info, err := link.ParseCollectionLink(collectionLink)
	if err != nil {
		return nil, nil, err
	}
	return c.client.Database(info.DatabaseID).Collection(info.CollectionID), info, nil
}

// ReadDocuments returns a lazy iterator ordered by id. No query runs until the
// first ExecuteNext.
func (c *DocumentClient) ReadDocuments(ctx context.Context, collectionLink string, opts client.FeedOptions) (client.DocumentIterator[model.Document], error) {
	coll, _, err := c.collection(collectionLink)
	if err != nil {
		return nil, err
	}
	it, err := newDocumentIterator(coll, collectionLink, opts, c.logger)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// CreateDocument inserts body. An absent or blank id is replaced with a
// generated one.
func (c *DocumentClient) CreateDocument(ctx context.Context, collectionLink string, body map[string]interface{}) (model.Document, error) {
	coll, _, err := c.collection(collectionLink)
	if err != nil {
		return nil, err
	}

	id, _ := body[model.FieldID].(string)
	if raw, present := body[model.FieldID]; present && id == "" && raw != "" {
		return nil, errors.NewValidationError("document id must be a string").WithDetail("id", raw)
	}
	if id == "" {
		id = c.newID()
	}
	if !link.IsValidID(id) {
		return nil, errors.NewValidationError("invalid document id").
			WithDetail("id", id).
			WithDetail("reason", `ids cannot contain '/', '\', '?' or '#'`)
	}

	stored := bson.M{"_id": id}
	for k, v := range body {
		if k == model.FieldID {
			continue
		}
		if _, system := systemFields[k]; system {
			continue
		}
		stored[k] = v
	}

	if _, err := coll.InsertOne(ctx, stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.NewAppError(errors.ErrorTypeValidation, fmt.Sprintf("document %q already exists", id), 409).
				WithCode("conflict").
				WithCause(err)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	c.logger.Debugf("document %s created in %s", id, collectionLink)
	return toModelDocument(stored, collectionLink), nil
}

// DeleteDocument removes one document by its self link.
func (c *DocumentClient) DeleteDocument(ctx context.Context, documentLink string) error {
	info, err := link.ParseDocumentLink(documentLink)
	if err != nil {
		return err
	}
	coll := c.client.Database(info.DatabaseID).Collection(info.CollectionID)

	result, err := coll.DeleteOne(ctx, documentIDFilter(info.DocumentID))
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.DeletedCount == 0 {
		return errors.NewNotFoundError("document").WithCause(errors.ErrDocumentNotFound).WithDetail("link", documentLink)
	}
	return nil
}

// documentIDFilter matches id as stored. Listed ObjectId documents carry the
// hex form in their self link, so a hex id also matches the ObjectId.
func documentIDFilter(id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{"_id": id}
	}
	return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
}

// DeleteCollection drops the collection and its partition key declaration.
func (c *DocumentClient) DeleteCollection(ctx context.Context, collectionLink string) error {
	coll, info, err := c.collection(collectionLink)
	if err != nil {
		return err
	}

	if err := coll.Drop(ctx); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	meta := c.client.Database(info.DatabaseID).Collection(c.metadataCollection)
	if _, err := meta.DeleteOne(ctx, bson.M{"_id": info.CollectionID}); err != nil {
		c.logger.Warnf("collection %s dropped but its metadata was not removed: %v", collectionLink, err)
	}
	return nil
}

// ReadCollection reports the collection metadata, including the partition key
// declared in the metadata collection if there is one.
func (c *DocumentClient) ReadCollection(ctx context.Context, collectionLink string) (*model.CollectionMeta, error) {
	_, info, err := c.collection(collectionLink)
	if err != nil {
		return nil, err
	}
	db := c.client.Database(info.DatabaseID)

	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: info.CollectionID}})
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.NewNotFoundError("collection").WithCause(errors.ErrCollectionNotFound).WithDetail("link", collectionLink)
	}

	meta := &model.CollectionMeta{
		ID:       info.CollectionID,
		SelfLink: link.BuildCollectionLink(info.DatabaseID, info.CollectionID),
	}

	var stored collectionMetaDoc
	err = db.Collection(c.metadataCollection).FindOne(ctx, bson.M{"_id": info.CollectionID}).Decode(&stored)
	switch {
	case err == nil:
		meta.PartitionKey = stored.PartitionKey
	case err == mongo.ErrNoDocuments:
	default:
		return nil, fmt.Errorf("failed to read collection metadata: %w", err)
	}
	return meta, nil
}
