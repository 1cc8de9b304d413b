package tree

import (
	"context"
	"time"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/domain/model"
	"docdb-explorer/internal/explorer/domain/prompt"
	"docdb-explorer/internal/shared/logger"
)

// EventPublisher receives a tree event after each successful mutation.
type EventPublisher interface {
	PublishTreeEvent(ctx context.Context, event model.TreeEvent) error
}

// Options configures the collaborators shared by a collection node and the
// document nodes it creates.
type Options struct {
	Factory   client.Factory
	Prompter  prompt.Prompter
	Publisher EventPublisher
	Icons     Icons
	Logger    logger.Logger
	// PageSize defaults to DefaultPageSize when zero.
	PageSize int
}

// services is shared between a collection node and the document nodes it
// produces. Document nodes never hold the collection node itself.
type services struct {
	conn      client.ConnectionContext
	factory   client.Factory
	prompter  prompt.Prompter
	publisher EventPublisher
	icons     Icons
	log       logger.Logger
	now       func() time.Time
}

func (s *services) documentClient(ctx context.Context) (client.DocumentClient, error) {
	return s.factory.NewClient(ctx, s.conn)
}

// publish reports a completed mutation. The mutation already happened, so a
// publisher failure is logged rather than returned.
func (s *services) publish(ctx context.Context, event model.TreeEvent) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = s.now()
	if err := s.publisher.PublishTreeEvent(ctx, event); err != nil {
		s.log.WithContext(ctx).Warnf("failed to publish %s for %s: %v", event.Type, event.Link, err)
	}
}
