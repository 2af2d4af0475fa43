package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Handle owns the process-wide MongoDB client. It is constructed once at
// startup and passed to every repository; the driver multiplexes concurrent
// commands over its own pool, so no per-operation locking is needed.
type Handle struct {
	client    *mongo.Client
	database  *mongo.Database
	logger    *slog.Logger
	closeOnce sync.Once
	closeErr  error
}

// ConnectionOptions tunes the client pool.
type ConnectionOptions struct {
	MaxPoolSize            uint64
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
}

// DefaultConnectionOptions returns pool settings for the environment.
// Production gets a larger pool.
func DefaultConnectionOptions(environment string) ConnectionOptions {
	opts := ConnectionOptions{
		MaxPoolSize:            10,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          45 * time.Second,
	}
	if environment == "prod" {
		opts.MaxPoolSize = 50
	}
	return opts
}

// Connect creates the client, verifies it with a ping and selects the database.
func Connect(ctx context.Context, uri, databaseName string, connOpts ConnectionOptions, logger *slog.Logger) (*Handle, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(connOpts.MaxPoolSize).
		SetServerSelectionTimeout(connOpts.ServerSelectionTimeout).
		SetSocketTimeout(connOpts.SocketTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Handle{
		client:   client,
		database: client.Database(databaseName),
		logger:   logger,
	}, nil
}

// Collection returns a collection of the selected database.
func (h *Handle) Collection(name string) *mongo.Collection {
	return h.database.Collection(name)
}

// Ping checks the primary is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client. Only the first call disconnects; later calls
// return the first result.
func (h *Handle) Close(ctx context.Context) error {
	h.closeOnce.Do(func() {
		h.closeErr = h.client.Disconnect(ctx)
		if h.closeErr != nil {
			h.logger.Error("mongodb disconnect failed", "error", h.closeErr)
			return
		}
		h.logger.Info("mongodb connection closed")
	})
	return h.closeErr
}
