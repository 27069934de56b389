package gateway

import (
	"context"
	"errors"
)

// Session is a hosted checkout session as reported by the processor.
// ClientReferenceID carries our order_id so webhooks can find the order
// without any other shared key.
type Session struct {
	ID                string            `json:"id"`
	URL               string            `json:"url"`
	ClientReferenceID string            `json:"client_reference_id"`
	CustomerRef       string            `json:"customer"`
	PaymentIntentRef  string            `json:"payment_intent"`
	PaymentStatus     string            `json:"payment_status"` // paid | unpaid
	AmountTotalCents  int64             `json:"amount_total"`
	Currency          string            `json:"currency"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"
)

// PaymentIntent is the processor's view of a captured payment.
type PaymentIntent struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	ReceiptURL string `json:"receipt_url"`
}

// Charge carries refund state on charge.refunded events.
type Charge struct {
	ID                string   `json:"id"`
	PaymentIntentRef  string   `json:"payment_intent"`
	AmountRefundedCents int64  `json:"amount_refunded"`
	Refunds           []Refund `json:"refunds"`
}

type Refund struct {
	ID          string `json:"id"`
	PaymentRef  string `json:"payment_intent"`
	AmountCents int64  `json:"amount"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
}

type SessionLineItem struct {
	Name            string `json:"name"`
	UnitAmountCents int64  `json:"unit_amount"`
	Quantity        int    `json:"quantity"`
	Currency        string `json:"currency"`
	Image           string `json:"image,omitempty"`
}

type SessionRequest struct {
	LineItems         []SessionLineItem `json:"line_items"`
	SuccessURL        string            `json:"success_url"`
	CancelURL         string            `json:"cancel_url"`
	ClientReferenceID string            `json:"client_reference_id"`
	CustomerEmail     string            `json:"customer_email"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// RefundRequest asks the processor to refund a captured payment.
// AmountCents 0 means full refund.
type RefundRequest struct {
	PaymentRef  string `json:"payment_intent"`
	AmountCents int64  `json:"amount,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

var (
	ErrBadSignature = errors.New("invalid webhook signature")
	ErrNotFound     = errors.New("gateway: not found")
)

// Gateway is the processor boundary. The processor is the source of truth
// for capture, fraud and currency; this interface only moves state across.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	CreateRefund(ctx context.Context, req RefundRequest) (*Refund, error)
	VerifyEvent(body []byte, signature string) (*Event, error)
}
