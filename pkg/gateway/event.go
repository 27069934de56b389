package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Event types delivered by the processor. Delivery is at-least-once; every
// consumer must tolerate redelivery.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentSucceeded  = "payment_intent.succeeded"
	EventPaymentFailed     = "payment_intent.payment_failed"
	EventChargeRefunded    = "charge.refunded"
)

// Event is a verified webhook notification. Data.Object is decoded lazily
// by type-specific accessors.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

func (e *Event) Session() (*Session, error) {
	var s Session
	if err := json.Unmarshal(e.Data.Object, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (e *Event) PaymentIntent() (*PaymentIntent, error) {
	var pi PaymentIntent
	if err := json.Unmarshal(e.Data.Object, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	return &pi, nil
}

func (e *Event) Charge() (*Charge, error) {
	var ch Charge
	if err := json.Unmarshal(e.Data.Object, &ch); err != nil {
		return nil, fmt.Errorf("decode charge: %w", err)
	}
	return &ch, nil
}

// Sign computes the hex HMAC-SHA256 of body with secret. Exported so tests
// and the stub can produce valid signatures.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyEvent checks the signature over the raw body and decodes the event.
// A bad signature is rejected outright; the processor retries delivery on
// its own schedule, never us.
func VerifyEvent(secret string, body []byte, signature string) (*Event, error) {
	if !hmac.Equal([]byte(signature), []byte(Sign(secret, body))) {
		return nil, ErrBadSignature
	}
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &evt, nil
}
