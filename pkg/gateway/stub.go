package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Stub is an in-process gateway for development; sessions are created
// unpaid and can be marked paid via MarkPaid (e.g. from a dev-only tool).
type Stub struct {
	WebhookSecret string

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStub(webhookSecret string) *Stub {
	return &Stub{WebhookSecret: webhookSecret, sessions: make(map[string]*Session)}
}

func (s *Stub) CreateSession(_ context.Context, req SessionRequest) (*Session, error) {
	var total int64
	currency := "USD"
	for _, li := range req.LineItems {
		total += li.UnitAmountCents * int64(li.Quantity)
		if li.Currency != "" {
			currency = li.Currency
		}
	}
	sess := &Session{
		ID:                fmt.Sprintf("cs_stub_%s", uuid.New().String()),
		URL:               "https://pay.stub.local/s/" + uuid.New().String(),
		ClientReferenceID: req.ClientReferenceID,
		PaymentStatus:     SessionUnpaid,
		AmountTotalCents:  total,
		Currency:          currency,
		Metadata:          req.Metadata,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *Stub) GetSession(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

// MarkPaid flips a stub session to paid and assigns a payment ref, which is
// what the real processor does when the shopper completes the hosted page.
func (s *Stub) MarkPaid(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.PaymentStatus != SessionPaid {
		sess.PaymentStatus = SessionPaid
		sess.PaymentIntentRef = fmt.Sprintf("pi_stub_%s", uuid.New().String())
		sess.CustomerRef = fmt.Sprintf("cus_stub_%s", uuid.New().String())
	}
	cp := *sess
	return &cp, nil
}

func (s *Stub) CreateRefund(_ context.Context, req RefundRequest) (*Refund, error) {
	return &Refund{
		ID:          fmt.Sprintf("re_stub_%s", uuid.New().String()),
		PaymentRef:  req.PaymentRef,
		AmountCents: req.AmountCents,
		Reason:      req.Reason,
		Status:      "succeeded",
	}, nil
}

func (s *Stub) VerifyEvent(body []byte, signature string) (*Event, error) {
	return VerifyEvent(s.WebhookSecret, body, signature)
}
