package persistence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const defaultStreamMaxLen = 10000

// RedisEventStore keeps a capped log of tree events in one Redis stream.
type RedisEventStore struct {
	client *redis.Client
	stream string
	maxLen int64
	logger logger.Logger
}

// NewRedisEventStore creates a store appending to stream. A non-positive
// maxLen uses the default cap.
func NewRedisEventStore(client *redis.Client, stream string, maxLen int64, log logger.Logger) *RedisEventStore {
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}
	return &RedisEventStore{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: log,
	}
}

// StoreEvent appends event to the stream and returns its stream id.
func (r *RedisEventStore) StoreEvent(ctx context.Context, event model.TreeEvent) (string, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":           string(event.Type),
			"link":           event.Link,
			"collectionLink": event.CollectionLink,
			"itemId":         event.ItemID,
			"timestamp":      event.Timestamp.UnixNano(),
		},
	}).Result()
	if err != nil {
		r.logger.WithFields(map[string]interface{}{
			"stream":    r.stream,
			"eventType": string(event.Type),
		}).Errorf("Failed to store tree event in Redis: %v", err)
		return "", err
	}

	r.logger.WithFields(map[string]interface{}{
		"stream":    r.stream,
		"eventType": string(event.Type),
		"id":        id,
	}).Debug("Tree event stored in Redis")
	return id, nil
}

// RecentEvents returns up to count events, newest first.
func (r *RedisEventStore) RecentEvents(ctx context.Context, count int64) ([]model.TreeEvent, error) {
	msgs, err := r.client.XRevRangeN(ctx, r.stream, "+", "-", count).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.TreeEvent{}, nil
		}
		return nil, fmt.Errorf("failed to read tree events: %w", err)
	}
	return r.parseMessages(msgs), nil
}

// EventsSince returns up to count events stored after lastID, oldest first.
// An empty lastID reads from the start of the stream.
func (r *RedisEventStore) EventsSince(ctx context.Context, lastID string, count int64) ([]model.TreeEvent, error) {
	start := "-"
	if lastID != "" {
		start = "(" + lastID
	}
	msgs, err := r.client.XRangeN(ctx, r.stream, start, "+", count).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.TreeEvent{}, nil
		}
		return nil, fmt.Errorf("failed to read tree events: %w", err)
	}
	return r.parseMessages(msgs), nil
}

func (r *RedisEventStore) parseMessages(msgs []redis.XMessage) []model.TreeEvent {
	events := make([]model.TreeEvent, 0, len(msgs))
	for _, msg := range msgs {
		event, err := parseEventFromMessage(msg)
		if err != nil {
			r.logger.Warnf("Skipping malformed tree event %s: %v", msg.ID, err)
			continue
		}
		events = append(events, event)
	}
	return events
}

func parseEventFromMessage(msg redis.XMessage) (model.TreeEvent, error) {
	event := model.TreeEvent{ID: msg.ID}

	eventType, ok := msg.Values["type"].(string)
	if !ok || eventType == "" {
		return event, fmt.Errorf("missing event type")
	}
	event.Type = model.TreeEventType(eventType)
	event.Link, _ = msg.Values["link"].(string)
	event.CollectionLink, _ = msg.Values["collectionLink"].(string)
	event.ItemID, _ = msg.Values["itemId"].(string)

	if ts, ok := msg.Values["timestamp"].(string); ok {
		nanos, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return event, fmt.Errorf("invalid timestamp: %w", err)
		}
		event.Timestamp = time.Unix(0, nanos)
	}
	return event, nil
}
