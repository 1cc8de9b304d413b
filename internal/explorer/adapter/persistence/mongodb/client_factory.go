package mongodb

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"docdb-explorer/internal/explorer/domain/client"
	"docdb-explorer/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

type connectFunc func(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)

// ClientFactory hands out document clients for a connection context. The
// underlying mongo client is shared per connection context and kept until
// Close.
type ClientFactory struct {
	mu                 sync.Mutex
	clients            map[client.ConnectionContext]*mongo.Client
	metadataCollection string
	logger             logger.Logger
	connect            connectFunc
}

var _ client.Factory = (*ClientFactory)(nil)

func NewClientFactory(metadataCollection string, log logger.Logger) *ClientFactory {
	return &ClientFactory{
		clients:            make(map[client.ConnectionContext]*mongo.Client),
		metadataCollection: metadataCollection,
		logger:             log,
		connect:            connectAndPing,
	}
}

// NewClient returns a document client for conn, connecting on first use.
func (f *ClientFactory) NewClient(ctx context.Context, conn client.ConnectionContext) (client.DocumentClient, error) {
	mc, err := f.mongoClient(ctx, conn)
	if err != nil {
		return nil, err
	}
	return NewDocumentClient(mc, f.metadataCollection, f.logger), nil
}

func (f *ClientFactory) mongoClient(ctx context.Context, conn client.ConnectionContext) (*mongo.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if mc, ok := f.clients[conn]; ok {
		return mc, nil
	}

	opts, err := clientOptions(conn)
	if err != nil {
		return nil, err
	}

	mc, err := f.connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	f.clients[conn] = mc
	f.logger.Infof("connected to document store at %s", redactEndpoint(conn.Endpoint))
	return mc, nil
}

// Close disconnects every client the factory created.
func (f *ClientFactory) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	for conn, mc := range f.clients {
		if err := mc.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to disconnect from %s: %w", redactEndpoint(conn.Endpoint), err)
		}
		delete(f.clients, conn)
	}
	return firstErr
}

func connectAndPing(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	if err := mc.Ping(ctx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}
	return mc, nil
}

// clientOptions builds driver options from a connection context. A credential
// is used as the password, with the account name taken from the first host
// label, unless the endpoint already carries user info. Emulators get a
// direct connection and skip TLS verification.
func clientOptions(conn client.ConnectionContext) (*options.ClientOptions, error) {
	if conn.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	opts := options.Client().ApplyURI(conn.Endpoint)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	// multi-host seed lists do not parse as URLs; they must carry their own user info
	u, parseErr := url.Parse(conn.Endpoint)

	if conn.Credential != "" && parseErr == nil && u.User == nil {
		opts.SetAuth(options.Credential{
			Username: accountName(u.Hostname()),
			Password: conn.Credential,
		})
	}

	if conn.IsEmulator {
		opts.SetDirect(true)
		if parseErr == nil {
			q := u.Query()
			if q.Get("tls") == "true" || q.Get("ssl") == "true" {
				opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
			}
		}
	}
	return opts, nil
}

func accountName(host string) string {
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}

func redactEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "<invalid endpoint>"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
