package utils

import (
	"context"
	"errors"

	"docdb-explorer/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound       = errors.New("requestID not found in context")
	ErrRequestIDNotString      = errors.New("requestID in context is not a string")
	ErrCollectionLinkNotFound  = errors.New("collectionLink not found in context")
	ErrCollectionLinkNotString = errors.New("collectionLink in context is not a string")
)

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// GetCollectionLinkFromContext retrieves the collection self link from the context.
func GetCollectionLinkFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.CollectionLinkKey)
	if val == nil {
		return "", ErrCollectionLinkNotFound
	}
	link, ok := val.(string)
	if !ok {
		return "", ErrCollectionLinkNotString
	}
	return link, nil
}

// Context builder functions

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithCollectionLink adds the collection self link to context
func WithCollectionLink(ctx context.Context, link string) context.Context {
	return context.WithValue(ctx, contextkeys.CollectionLinkKey, link)
}

// WithComponent adds component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// GetRequestIDOrDefault retrieves the request ID from context or returns a default value
func GetRequestIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetRequestIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// GetCollectionLinkOrDefault retrieves the collection link from context or returns a default value
func GetCollectionLinkOrDefault(ctx context.Context, def string) string {
	if v, err := GetCollectionLinkFromContext(ctx); err == nil {
		return v
	}
	return def
}

func HasRequestID(ctx context.Context) bool {
	_, err := GetRequestIDFromContext(ctx)
	return err == nil
}
