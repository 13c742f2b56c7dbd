package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// PaymentResult carries the terminal outcome applied to a pending payment.
type PaymentResult struct {
	Status          models.PaymentStatus
	ResultCode      *int
	ResultDesc      string
	MpesaReceipt    string
	TransactionDate string
}

// PaymentRepository handles data access for STK push payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByCheckoutID(ctx context.Context, checkoutRequestID string) (*models.Payment, error)
	ApplyResult(ctx context.Context, checkoutRequestID string, result PaymentResult) (*models.Payment, bool, error)
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.Payment, error)
}

type paymentRepository struct {
	coll *mongo.Collection
}

// NewPaymentRepository creates a PaymentRepository backed by the payments
// collection.
func NewPaymentRepository(db *mongo.Database) PaymentRepository {
	return &paymentRepository{coll: db.Collection("payments")}
}

// Create records a freshly initiated payment in pending state.
func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.PaymentStatusPending
	}

	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// GetByCheckoutID returns the payment tracked under a checkout request id.
func (r *paymentRepository) GetByCheckoutID(ctx context.Context, checkoutRequestID string) (*models.Payment, error) {
	var p models.Payment
	err := r.coll.FindOne(ctx, bson.M{"checkout_request_id": checkoutRequestID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ApplyResult finalizes a pending payment and returns the updated document
// plus whether this call performed the transition. Applying a result twice
// is a no-op: the first terminal state wins and the stored payment comes
// back unchanged with changed=false. An unknown checkout request id
// surfaces as utils.ErrPaymentNotFound.
func (r *paymentRepository) ApplyResult(ctx context.Context, checkoutRequestID string, result PaymentResult) (*models.Payment, bool, error) {
	set := bson.M{
		"status":     result.Status,
		"updated_at": time.Now().UTC(),
	}
	if result.ResultCode != nil {
		set["result_code"] = *result.ResultCode
	}
	if result.ResultDesc != "" {
		set["result_desc"] = result.ResultDesc
	}
	if result.MpesaReceipt != "" {
		set["mpesa_receipt"] = result.MpesaReceipt
	}
	if result.TransactionDate != "" {
		set["transaction_date"] = result.TransactionDate
	}

	filter := bson.M{
		"checkout_request_id": checkoutRequestID,
		"status":              models.PaymentStatusPending,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Payment
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&p)
	if err == nil {
		return &p, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	// Not pending anymore, or never existed.
	stored, err := r.GetByCheckoutID(ctx, checkoutRequestID)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// ListStalePending returns pending payments created before olderThan,
// oldest first, capped at limit. The sweep worker feeds on this.
func (r *paymentRepository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.Payment, error) {
	filter := bson.M{
		"status":     models.PaymentStatusPending,
		"created_at": bson.M{"$lt": olderThan},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	payments := make([]models.Payment, 0, limit)
	if err := cur.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
