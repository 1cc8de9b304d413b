// Package eventbus delivers tree change events to in-process subscribers.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"docdb-explorer/internal/shared/logger"
)

// Tree change event types
const (
	EventTypeCollectionDeleted = "collection.deleted"
	EventTypeDocumentCreated   = "document.created"
	EventTypeDocumentDeleted   = "document.deleted"
)

// Event is one published change.
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler reacts to one event.
type Handler func(ctx context.Context, event Event) error

// RetryPolicy controls how often a failing handler is run again.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultRetryPolicy applies to subscriptions made without WithRetry.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Delay: 50 * time.Millisecond}
}

// SubscribeOption tunes a single subscription.
type SubscribeOption func(*subscription)

// WithRetry overrides the bus retry policy for one subscription.
func WithRetry(policy RetryPolicy) SubscribeOption {
	return func(s *subscription) {
		s.retry = policy
	}
}

// Bus is what publishers and subscribers of tree events depend on.
type Bus interface {
	Subscribe(eventType string, handler Handler, opts ...SubscribeOption)
	Publish(ctx context.Context, event Event) error
	SubscriberCount(eventType string) int
}

type subscription struct {
	handler Handler
	retry   RetryPolicy
}

// EventBus runs subscribers synchronously, so a tree operation returns only
// after every subscriber saw the change. A failing subscriber does not keep
// the event from the ones after it.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	logger logger.Logger
	retry  RetryPolicy
}

var _ Bus = (*EventBus)(nil)

// NewEventBus creates a bus using DefaultRetryPolicy.
func NewEventBus(log logger.Logger) *EventBus {
	return NewEventBusWithRetry(log, DefaultRetryPolicy())
}

// NewEventBusWithRetry creates a bus whose subscriptions default to policy.
func NewEventBusWithRetry(log logger.Logger, policy RetryPolicy) *EventBus {
	if log == nil {
		log = logger.NewLoggerWithConfig("panic", "text")
	}
	return &EventBus{
		subs:   make(map[string][]subscription),
		logger: log,
		retry:  policy,
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler, opts ...SubscribeOption) {
	sub := subscription{handler: handler, retry: eb.retry}
	for _, opt := range opts {
		opt(&sub)
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subs[eventType] = append(eb.subs[eventType], sub)
	eb.logger.Debugf("Subscribed handler for event type: %s (retries: %d)", eventType, sub.retry.MaxRetries)
}

// Publish hands event to every subscriber of its type and joins their errors.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	eb.mu.RLock()
	subs := eb.subs[event.Type()]
	eb.mu.RUnlock()

	if len(subs) == 0 {
		eb.logger.Debugf("No handlers found for event type: %s", event.Type())
		return nil
	}

	var errs []error
	for i, sub := range subs {
		if err := eb.deliver(ctx, event, sub, i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (eb *EventBus) deliver(ctx context.Context, event Event, sub subscription, idx int) error {
	var lastErr error
	for attempt := 0; attempt <= sub.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			eb.logger.Warnf("Retrying handler %d for event %s (attempt %d/%d)",
				idx, event.Type(), attempt+1, sub.retry.MaxRetries+1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("handler %d aborted for event %s: %w", idx, event.Type(), ctx.Err())
			case <-time.After(sub.retry.Delay):
			}
		}

		if lastErr = sub.handler(ctx, event); lastErr == nil {
			return nil
		}
		eb.logger.Errorf("Handler %d failed for event %s: %v", idx, event.Type(), lastErr)
	}
	return fmt.Errorf("handler %d failed after %d attempts: %w", idx, sub.retry.MaxRetries+1, lastErr)
}

func (eb *EventBus) SubscriberCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subs[eventType])
}

type basicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewEvent stamps data with the current time.
func NewEvent(eventType string, data interface{}, source string) Event {
	return &basicEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now(),
		source:    source,
	}
}

func (e *basicEvent) Type() string         { return e.eventType }
func (e *basicEvent) Data() interface{}    { return e.data }
func (e *basicEvent) Timestamp() time.Time { return e.timestamp }
func (e *basicEvent) Source() string       { return e.source }
