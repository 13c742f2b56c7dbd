package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus enumerates the lifecycle states of an STK push payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// Terminal reports whether the status can no longer change.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed || s == PaymentStatusExpired
}

// Payment tracks one M-Pesa STK push from initiation to its final result.
// CheckoutRequestID is the Daraja correlation key used by the callback,
// the status endpoint and the sweep worker.
type Payment struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MerchantRequestID string             `bson:"merchant_request_id" json:"merchant_request_id"`
	CheckoutRequestID string             `bson:"checkout_request_id" json:"checkout_request_id"`
	Phone             string             `bson:"phone" json:"phone"`
	Amount            int                `bson:"amount" json:"amount"`
	AccountReference  string             `bson:"account_reference" json:"account_reference"`
	Description       string             `bson:"description" json:"description"`
	Status            PaymentStatus      `bson:"status" json:"status"`
	ResultCode        *int               `bson:"result_code,omitempty" json:"result_code,omitempty"`
	ResultDesc        string             `bson:"result_desc,omitempty" json:"result_desc,omitempty"`
	MpesaReceipt      string             `bson:"mpesa_receipt,omitempty" json:"mpesa_receipt,omitempty"`
	TransactionDate   string             `bson:"transaction_date,omitempty" json:"transaction_date,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
