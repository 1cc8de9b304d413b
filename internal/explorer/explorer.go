// Package explorer assembles the collection tree, its document store and the
// HTTP host into one module.
package explorer

import (
	"context"
	"fmt"

	"docdb-explorer/internal/explorer/adapter/events"
	httpadapter "docdb-explorer/internal/explorer/adapter/http"
	"docdb-explorer/internal/explorer/adapter/persistence"
	"docdb-explorer/internal/explorer/config"
	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/explorer/tree"
	"docdb-explorer/internal/shared/eventbus"
	"docdb-explorer/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ExplorerModule holds the wired components of the explorer.
type ExplorerModule struct {
	Config    *config.ExplorerConfig
	Logger    logger.Logger
	Factory   client.Factory
	EventBus  *eventbus.EventBus
	Publisher *events.BusPublisher
	Registry  *httpadapter.NodeRegistry
	Handler   *httpadapter.TreeHandler

	// Redis components, nil when the event log is disabled
	RedisClient *redis.Client
	EventStore  *persistence.RedisEventStore
}

// NewExplorerModule wires the module. redisClient may be nil.
func NewExplorerModule(cfg *config.ExplorerConfig, log logger.Logger, factory client.Factory, redisClient *redis.Client) (*ExplorerModule, error) {
	if cfg == nil {
		cfg = config.DefaultExplorerConfig()
		log.Info("No configuration provided, using defaults.")
	}
	if factory == nil {
		return nil, fmt.Errorf("document client factory is required")
	}
	log = log.WithComponent("explorer")
	log.Info("Initializing Explorer Module...")

	bus := eventbus.NewEventBus(log.WithComponent("eventbus"))
	events.SubscribeTreeEvents(bus, events.LogHandler(log.WithComponent("tree-events")))

	m := &ExplorerModule{
		Config:      cfg,
		Logger:      log,
		Factory:     factory,
		EventBus:    bus,
		Publisher:   events.NewBusPublisher(bus),
		RedisClient: redisClient,
	}

	var reader httpadapter.EventReader
	if redisClient != nil {
		m.EventStore = persistence.NewRedisEventStore(redisClient, cfg.Redis.Stream, cfg.Redis.StreamMaxLength, log.WithComponent("event-store"))
		// Store failures are only logged by the publisher, so no retries.
		events.SubscribeTreeEvents(bus, events.StoreHandler(m.EventStore), eventbus.WithRetry(eventbus.RetryPolicy{}))
		reader = m.EventStore
		log.Info("RedisEventStore initialized successfully.")
	}

	conn := client.ConnectionContext{
		Endpoint:   cfg.Connection.Endpoint,
		Credential: cfg.Connection.Credential,
		IsEmulator: cfg.Connection.IsEmulator,
	}
	m.Registry = httpadapter.NewNodeRegistry(conn, tree.Options{
		Factory:   factory,
		Prompter:  httpadapter.RequestPrompter{},
		Publisher: m.Publisher,
		Icons:     tree.NewIcons(cfg.Tree.ResourcesDir),
		Logger:    log.WithComponent("tree"),
		PageSize:  cfg.Tree.PageSize,
	})
	m.Handler = httpadapter.NewTreeHandler(m.Registry, reader, log.WithComponent("http"))

	log.Info("Explorer module initialized successfully.")
	return m, nil
}

// NewApp returns a fiber app serving the module's routes.
func (m *ExplorerModule) NewApp() *fiber.App {
	return httpadapter.NewApp(m.Handler, m.Logger)
}

// RegisterRoutes registers the tree routes on an existing router.
func (m *ExplorerModule) RegisterRoutes(router fiber.Router) {
	m.Handler.RegisterRoutes(router)
	m.Logger.Info("Explorer HTTP routes registered.")
}

// HealthCheck pings the event log when one is configured.
func (m *ExplorerModule) HealthCheck(ctx context.Context) error {
	if m.RedisClient != nil {
		if err := m.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}

// Stop releases the connections the module owns.
func (m *ExplorerModule) Stop(ctx context.Context) error {
	var firstErr error
	if closer, ok := m.Factory.(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if m.RedisClient != nil {
		if err := m.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	m.Logger.Info("Explorer module stopped.")
	return firstErr
}
