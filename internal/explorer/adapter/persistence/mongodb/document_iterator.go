package mongodb

import (
	"context"
	"fmt"
	"strings"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/shared/errors"
	"docdb-explorer/internal/shared/link"
	"docdb-explorer/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPageSize = 100

	// continuation prefixes name the BSON type of the last _id served
	continuationString   = "s:"
	continuationObjectID = "o:"
)

// documentIterator pages a collection ordered by _id using keyset
// continuation. String ids sort before ObjectIds, so a string continuation
// also admits every ObjectId.
type documentIterator struct {
	coll           *mongo.Collection
	collectionLink string
	pageSize       int64
	continuation   string
	done           bool
	logger         logger.Logger
}

var _ client.DocumentIterator[model.Document] = (*documentIterator)(nil)

func newDocumentIterator(coll *mongo.Collection, collectionLink string, opts client.FeedOptions, log logger.Logger) (*documentIterator, error) {
	pageSize := int64(opts.MaxItemCount)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if opts.Continuation != "" {
		if _, err := continuationFilter(opts.Continuation); err != nil {
			return nil, err
		}
	}
	return &documentIterator{
		coll:           coll,
		collectionLink: collectionLink,
		pageSize:       pageSize,
		continuation:   opts.Continuation,
		logger:         log,
	}, nil
}

func (it *documentIterator) HasMoreResults() bool {
	return !it.done
}

func (it *documentIterator) Continuation() string {
	return it.continuation
}

// ExecuteNext fetches one page. It asks for one extra record to learn whether
// another page exists.
func (it *documentIterator) ExecuteNext(ctx context.Context) ([]model.Document, error) {
	if it.done {
		return []model.Document{}, nil
	}

	filter, err := continuationFilter(it.continuation)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(it.pageSize + 1)

	cursor, err := it.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		raw = append(raw, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	if int64(len(raw)) > it.pageSize {
		raw = raw[:it.pageSize]
		next, err := encodeContinuation(raw[len(raw)-1]["_id"])
		if err != nil {
			return nil, err
		}
		it.continuation = next
	} else {
		it.done = true
		it.continuation = ""
	}

	page := make([]model.Document, 0, len(raw))
	for _, doc := range raw {
		page = append(page, toModelDocument(doc, it.collectionLink))
	}
	it.logger.Debugf("read %d documents from %s, more=%t", len(page), it.collectionLink, !it.done)
	return page, nil
}

func encodeContinuation(id interface{}) (string, error) {
	switch v := id.(type) {
	case string:
		return continuationString + v, nil
	case primitive.ObjectID:
		return continuationObjectID + v.Hex(), nil
	default:
		return "", errors.NewValidationError("documents with this id type cannot be paged").
			WithDetail("id_type", fmt.Sprintf("%T", id))
	}
}

func continuationFilter(token string) (bson.M, error) {
	switch {
	case token == "":
		return bson.M{}, nil
	case strings.HasPrefix(token, continuationString):
		last := strings.TrimPrefix(token, continuationString)
		return bson.M{"$or": bson.A{
			bson.M{"_id": bson.M{"$gt": last}},
			bson.M{"_id": bson.M{"$type": "objectId"}},
		}}, nil
	case strings.HasPrefix(token, continuationObjectID):
		oid, err := primitive.ObjectIDFromHex(strings.TrimPrefix(token, continuationObjectID))
		if err != nil {
			return nil, errors.NewValidationError("invalid continuation token").WithCause(err)
		}
		return bson.M{"_id": bson.M{"$gt": oid}}, nil
	default:
		return nil, errors.NewValidationError("invalid continuation token").WithDetail("token", token)
	}
}

// toModelDocument maps a stored record to a retrieved document: _id becomes
// id and the self link is derived from the collection link.
func toModelDocument(stored bson.M, collectionLink string) model.Document {
	doc := make(model.Document, len(stored)+1)
	for k, v := range stored {
		if k == "_id" {
			continue
		}
		doc[k] = normalizeValue(v)
	}

	var id string
	switch v := stored["_id"].(type) {
	case string:
		id = v
	case primitive.ObjectID:
		id = v.Hex()
	default:
		id = fmt.Sprint(v)
	}
	doc[model.FieldID] = id
	doc[model.FieldSelfLink] = link.BuildDocumentLink(collectionLink, id)
	return doc
}

// normalizeValue turns BSON container types into plain maps and slices so
// path lookups work on nested fields.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[k] = normalizeValue(inner)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}
