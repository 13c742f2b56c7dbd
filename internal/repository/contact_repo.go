package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
)

// ContactRepository handles data access for contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context, page, limit int) ([]models.ContactMessage, int, error)
}

type contactRepository struct {
	coll *mongo.Collection
}

// NewContactRepository creates a ContactRepository backed by the contacts
// collection.
func NewContactRepository(db *mongo.Database) ContactRepository {
	return &contactRepository{coll: db.Collection("contacts")}
}

// Create stores a contact message.
func (r *contactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

// List returns contact messages newest first with the total count.
func (r *contactRepository) List(ctx context.Context, page, limit int) ([]models.ContactMessage, int, error) {
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

	messages := make([]models.ContactMessage, 0, limit)
	if err := cur.All(ctx, &messages); err != nil {
		return nil, 0, err
	}
	return messages, int(total), nil
}
