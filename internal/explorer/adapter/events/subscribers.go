package events

import (
	"context"

	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/shared/logger"
)

// EventStore persists tree events.
type EventStore interface {
	StoreEvent(ctx context.Context, event model.TreeEvent) (string, error)
}

// StoreHandler writes each tree event to store.
func StoreHandler(store EventStore) TreeEventHandler {
	return func(ctx context.Context, event model.TreeEvent) error {
		_, err := store.StoreEvent(ctx, event)
		return err
	}
}

// LogHandler logs each tree event at info level.
func LogHandler(log logger.Logger) TreeEventHandler {
	return func(ctx context.Context, event model.TreeEvent) error {
		log.WithContext(ctx).WithFields(map[string]interface{}{
			"event_type":      string(event.Type),
			"link":            event.Link,
			"collection_link": event.CollectionLink,
			"item_id":         event.ItemID,
		}).Info("Tree changed")
		return nil
	}
}
