package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	appconfig "github.com/Haroldke13/geniusbabycosmetics/internal/config"
)

// Connect establishes a MongoDB connection using the provided configuration.
// It applies a small retry strategy to handle transient bootstrapping issues
// (e.g., DB container starting up). The returned handle points at the
// configured database and is pinged before returning.
func Connect(cfg *appconfig.MongoConfig) (*mongo.Database, error) {
	if cfg == nil {
		return nil, errors.New("nil mongo config")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute)

	// Retry policy: up to 5 attempts, exponential backoff starting at 500ms.
	const (
		maxAttempts = 5
		baseDelay   = 500 * time.Millisecond
	)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongo.Connect(connectCtx, opts)
		cancel()
		if err != nil {
			lastErr = err
			sleepWithBackoff(attempt, baseDelay)
			continue
		}

		// Ping with timeout to validate the connection.
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if lastErr == nil {
			return client.Database(cfg.Database), nil
		}

		// Disconnect and retry on ping failure.
		_ = client.Disconnect(context.Background())
		sleepWithBackoff(attempt, baseDelay)
	}

	return nil, fmt.Errorf("failed to connect to mongodb after %d attempts: %w", maxAttempts, lastErr)
}

// EnsureIndexes creates the indexes the catalog and engagement queries rely
// on. Creation is idempotent: MongoDB treats an existing identical index as
// a no-op, so this can run on every boot.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	productIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("slug_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "brand", Value: 1}},
			Options: options.Index().SetName("brand_idx"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_idx"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "brand", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().SetName("text_search"),
		},
	}
	if _, err := db.Collection("products").Indexes().CreateMany(ctx, productIndexes); err != nil {
		return fmt.Errorf("products indexes: %w", err)
	}

	subscriberIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
	}
	if _, err := db.Collection("subscribers").Indexes().CreateMany(ctx, subscriberIndexes); err != nil {
		return fmt.Errorf("subscribers indexes: %w", err)
	}

	contactIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("contact_created_at_idx"),
		},
	}
	if _, err := db.Collection("contacts").Indexes().CreateMany(ctx, contactIndexes); err != nil {
		return fmt.Errorf("contacts indexes: %w", err)
	}

	paymentIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "checkout_request_id", Value: 1}},
			Options: options.Index().SetName("checkout_request_id_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("status_created_at_idx"),
		},
	}
	if _, err := db.Collection("payments").Indexes().CreateMany(ctx, paymentIndexes); err != nil {
		return fmt.Errorf("payments indexes: %w", err)
	}

	return nil
}

// sleepWithBackoff sleeps for an exponentially increasing duration.
func sleepWithBackoff(attempt int, base time.Duration) {
	// Simple exponential backoff: base * 2^(attempt-1), capped to 5s.
	d := base << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	time.Sleep(d)
}
