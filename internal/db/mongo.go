package db

import (
	"context"
	"fmt"

	"github.com/yigit/roster/internal/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoDB holds the single client shared by all requests and the group collection handle.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Groups   *mongo.Collection
}

// NewMongoDB connects to MongoDB and resolves the configured group collection.
func NewMongoDB(ctx context.Context, cfg *config.Config) (*MongoDB, error) {
	timeout := cfg.MongoConnectTimeout()

	clientOpts := options.Client().
		ApplyURI(cfg.GetMongoURI()).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to establish mongo connection: %w", err)
	}

	database := client.Database(cfg.Mongo.Database)
	return &MongoDB{
		Client:   client,
		Database: database,
		Groups:   database.Collection(cfg.Mongo.Collection),
	}, nil
}

// Ping checks the primary is reachable
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
