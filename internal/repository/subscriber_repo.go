package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// SubscriberRepository handles data access for newsletter subscribers.
type SubscriberRepository interface {
	Create(ctx context.Context, s *models.Subscriber) error
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context, page, limit int) ([]models.Subscriber, int, error)
}

type subscriberRepository struct {
	coll *mongo.Collection
}

// NewSubscriberRepository creates a SubscriberRepository backed by the
// subscribers collection.
func NewSubscriberRepository(db *mongo.Database) SubscriberRepository {
	return &subscriberRepository{coll: db.Collection("subscribers")}
}

// Create inserts a subscriber. The unique email index turns a concurrent
// double signup into utils.ErrAlreadySubscribed.
func (r *subscriberRepository) Create(ctx context.Context, s *models.Subscriber) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.ErrAlreadySubscribed
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

// DeleteByEmail removes a subscriber.
func (r *subscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrSubscriberNotFound
	}
	return nil
}

// List returns subscribers newest first with the total count.
func (r *subscriberRepository) List(ctx context.Context, page, limit int) ([]models.Subscriber, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}

	subscribers := make([]models.Subscriber, 0, limit)
	if err := cur.All(ctx, &subscribers); err != nil {
		return nil, 0, err
	}
	return subscribers, int(total), nil
}
