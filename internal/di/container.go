package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"docdb-explorer/internal/explorer"
	"docdb-explorer/internal/explorer/adapter/persistence/mongodb"
	"docdb-explorer/internal/explorer/config"
	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const closeTimeout = 30 * time.Second

// Container represents a dependency injection container with proper lifecycle management
type Container struct {
	mu        sync.RWMutex
	services  map[reflect.Type]interface{}
	factories map[reflect.Type]func() (interface{}, error)
	// Module instances
	ExplorerModule *explorer.ExplorerModule
	// Connections
	ClientFactory client.Factory
	RedisClient   *redis.Client
	// Configuration
	Config *config.ExplorerConfig
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer() *Container {
	return &Container{
		services:  make(map[reflect.Type]interface{}),
		factories: make(map[reflect.Type]func() (interface{}, error)),
	}
}

// InitializeExplorer builds the explorer module from cfg. The document client
// factory defaults to the MongoDB one; Redis is connected only when enabled.
func (c *Container) InitializeExplorer(cfg *config.ExplorerConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg == nil {
		return fmt.Errorf("explorer configuration is required")
	}
	c.Config = cfg

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}
	if c.ClientFactory == nil {
		c.ClientFactory = mongodb.NewClientFactory(cfg.Tree.MetadataCollection, c.Logger.WithComponent("mongodb"))
	}
	if cfg.Redis.Enabled && c.RedisClient == nil {
		c.RedisClient = config.NewRedisClient(&cfg.Redis)
	}

	module, err := explorer.NewExplorerModule(cfg, c.Logger, c.ClientFactory, c.RedisClient)
	if err != nil {
		return fmt.Errorf("failed to create explorer module: %w", err)
	}
	c.ExplorerModule = module

	c.registerLocked(module)
	c.registerLocked(module.Registry)
	return nil
}

// Register registers a service instance
func (c *Container) Register(service interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registerLocked(service)
	return nil
}

func (c *Container) registerLocked(service interface{}) {
	serviceType := reflect.TypeOf(service)
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}
	c.services[serviceType] = service
}

// RegisterFactory registers a factory function for a service
func (c *Container) RegisterFactory(serviceType reflect.Type, factory func() (interface{}, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.factories[serviceType] = factory
	return nil
}

// Resolve resolves a service by type
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	c.mu.RLock()

	if service, exists := c.services[serviceType]; exists {
		c.mu.RUnlock()
		return service, nil
	}

	if factory, exists := c.factories[serviceType]; exists {
		c.mu.RUnlock()

		service, err := factory()
		if err != nil {
			return nil, fmt.Errorf("failed to create service: %w", err)
		}

		c.mu.Lock()
		c.services[serviceType] = service
		c.mu.Unlock()

		return service, nil
	}

	c.mu.RUnlock()
	return nil, fmt.Errorf("service of type %v not registered", serviceType)
}

// GetService is a generic helper for resolving services. Pointer types are
// looked up by their element type, matching Register.
func GetService[T any](c *Container) (T, error) {
	var zero T
	serviceType := reflect.TypeOf((*T)(nil)).Elem()
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}

	service, err := c.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	if typedService, ok := service.(T); ok {
		return typedService, nil
	}

	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// GetExplorerModule returns the explorer module instance
func (c *Container) GetExplorerModule() *explorer.ExplorerModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ExplorerModule
}

// HealthCheck performs health check on all registered services
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ExplorerModule != nil {
		if err := c.ExplorerModule.HealthCheck(ctx); err != nil {
			return fmt.Errorf("explorer health check failed: %w", err)
		}
	}
	return nil
}

// Cleanup stops the module and releases registered services
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.ExplorerModule != nil {
		if err := c.ExplorerModule.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop explorer module: %w", err))
		}
		c.ExplorerModule = nil
		c.RedisClient = nil
	}

	for _, service := range c.services {
		if cleaner, ok := service.(interface{ Cleanup(context.Context) error }); ok {
			if err := cleaner.Cleanup(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup service: %w", err))
			}
		}
	}

	c.services = make(map[reflect.Type]interface{})
	c.factories = make(map[reflect.Type]func() (interface{}, error))

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return c.Cleanup(ctx)
}
