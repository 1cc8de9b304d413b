// Package events carries tree events from the nodes to in-process
// subscribers over the shared event bus.
package events

import (
	"context"
	"fmt"

	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/tree"
	"docdb-explorer/internal/shared/eventbus"
)

const source = "explorer.tree"

// TreeEventTypes lists every bus event type a tree event can be published as.
var TreeEventTypes = []string{
	eventbus.EventTypeCollectionDeleted,
	eventbus.EventTypeDocumentCreated,
	eventbus.EventTypeDocumentDeleted,
}

// BusPublisher publishes tree events on an event bus.
type BusPublisher struct {
	bus eventbus.Bus
}

var _ tree.EventPublisher = (*BusPublisher)(nil)

func NewBusPublisher(bus eventbus.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// PublishTreeEvent publishes event under its own type.
func (p *BusPublisher) PublishTreeEvent(ctx context.Context, event model.TreeEvent) error {
	return p.bus.Publish(ctx, eventbus.NewEvent(string(event.Type), event, source))
}

// TreeEventHandler handles one decoded tree event.
type TreeEventHandler func(ctx context.Context, event model.TreeEvent) error

// SubscribeTreeEvents registers handler for every tree event type.
func SubscribeTreeEvents(bus eventbus.Bus, handler TreeEventHandler, opts ...eventbus.SubscribeOption) {
	for _, eventType := range TreeEventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event eventbus.Event) error {
			treeEvent, ok := event.Data().(model.TreeEvent)
			if !ok {
				return fmt.Errorf("unexpected payload %T for event %s", event.Data(), event.Type())
			}
			return handler(ctx, treeEvent)
		}, opts...)
	}
}
