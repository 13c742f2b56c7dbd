package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidID          = errors.New("INVALID_ID")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrDuplicateSlug      = errors.New("DUPLICATE_SLUG")
	ErrInvalidEmail       = errors.New("INVALID_EMAIL")
	ErrAlreadySubscribed  = errors.New("ALREADY_SUBSCRIBED")
	ErrSubscriberNotFound = errors.New("SUBSCRIBER_NOT_FOUND")
	ErrInvalidSignature   = errors.New("INVALID_SIGNATURE")
	ErrMissingFields      = errors.New("MISSING_FIELDS")
	ErrInvalidPhone       = errors.New("INVALID_PHONE")
	ErrInvalidAmount      = errors.New("INVALID_AMOUNT")
	ErrPaymentNotFound    = errors.New("PAYMENT_NOT_FOUND")
	ErrMpesaDisabled      = errors.New("MPESA_DISABLED")
	ErrStkPushRejected    = errors.New("STK_PUSH_REJECTED")
)
