package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"duka/internal/domain"
	"duka/internal/models"
	"duka/pkg/gateway"

	"github.com/google/uuid"
)

// SettlementService owns every mutation of the order/payment pair after
// checkout: the four webhook handlers, the client-triggered verifier, and
// refund initiation. Webhook delivery is at-least-once, so every handler
// here is safe to run any number of times with the same event.
type SettlementService struct {
	orders   OrderStore
	payments PaymentStore
	gw       gateway.Gateway
}

func NewSettlementService(orders OrderStore, payments PaymentStore, gw gateway.Gateway) *SettlementService {
	return &SettlementService{orders: orders, payments: payments, gw: gw}
}

// HandleEvent routes a verified webhook event. A returned error makes the
// HTTP handler answer 5xx so the gateway redelivers; nil acknowledges.
func (s *SettlementService) HandleEvent(ctx context.Context, evt *gateway.Event) error {
	switch evt.Type {
	case gateway.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(evt)
	case gateway.EventPaymentSucceeded:
		return s.handlePaymentSucceeded(evt)
	case gateway.EventPaymentFailed:
		return s.handlePaymentFailed(evt)
	case gateway.EventChargeRefunded:
		return s.handleChargeRefunded(evt)
	default:
		log.Printf("[webhook] ignoring event type=%s id=%s", evt.Type, evt.ID)
		return nil
	}
}

// handleCheckoutCompleted promotes the order to processing and settles the
// payment. A session pointing at an order we never created is a fatal
// inconsistency: the error propagates so the gateway redelivers instead of
// us silently acknowledging.
func (s *SettlementService) handleCheckoutCompleted(evt *gateway.Event) error {
	sess, err := evt.Session()
	if err != nil {
		return err
	}
	order, err := s.orders.GetByOrderID(sess.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("checkout completed for %q: %w", sess.ClientReferenceID, err)
	}
	if sess.PaymentIntentRef == "" {
		return fmt.Errorf("order %s: %w", order.OrderID, domain.ErrMissingPaymentRef)
	}

	if domain.OrderCanTransition(order.Status, domain.OrderProcessing) {
		order.Status = domain.OrderProcessing
	}
	order.GatewayPaymentRef = sess.PaymentIntentRef
	if sess.CustomerRef != "" {
		order.GatewayCustomerRef = sess.CustomerRef
	}
	if err := s.orders.Update(order); err != nil {
		return err
	}

	now := time.Now()
	payment := &models.Payment{
		PaymentID:         fmt.Sprintf("pay-%s", uuid.New().String()),
		OrderID:           order.OrderID,
		UserID:            order.UserID,
		AmountCents:       order.TotalCents,
		Currency:          order.Currency,
		Status:            domain.PaymentSucceeded,
		GatewayPaymentRef: sess.PaymentIntentRef,
		CompletedAt:       &now,
	}
	created, err := s.payments.Settle(order, payment)
	if err != nil {
		return fmt.Errorf("settle order %s: %w", order.OrderID, err)
	}
	if created {
		log.Printf("[webhook] checkout completed order=%s payment_ref=%s", order.OrderID, sess.PaymentIntentRef)
	} else {
		log.Printf("[webhook] duplicate checkout completed order=%s payment_ref=%s — no-op", order.OrderID, sess.PaymentIntentRef)
	}
	return nil
}

// handlePaymentSucceeded confirms the capture. The event can race ahead of
// checkout.session.completed, in which case there is no payment row yet and
// we acknowledge without acting; the completed handler carries the state.
func (s *SettlementService) handlePaymentSucceeded(evt *gateway.Event) error {
	pi, err := evt.PaymentIntent()
	if err != nil {
		return err
	}
	p, err := s.payments.GetByGatewayRef(pi.ID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			log.Printf("[webhook] payment succeeded for unknown ref=%s — tolerating", pi.ID)
			return nil
		}
		return err
	}
	if !domain.PaymentCanTransition(p.Status, domain.PaymentSucceeded) {
		log.Printf("[webhook] payment %s is %s — ignoring succeeded", p.PaymentID, p.Status)
		return nil
	}
	p.Status = domain.PaymentSucceeded
	if pi.ReceiptURL != "" {
		p.ReceiptRef = pi.ReceiptURL
	}
	if p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
	}
	if err := s.payments.Update(p); err != nil {
		return err
	}

	order, err := s.orders.GetByOrderID(p.OrderID)
	if err != nil {
		return err
	}
	if domain.OrderCanTransition(order.Status, domain.OrderCompleted) {
		order.Status = domain.OrderCompleted
		if err := s.orders.Update(order); err != nil {
			return err
		}
	}
	log.Printf("[webhook] payment succeeded ref=%s order=%s", pi.ID, p.OrderID)
	return nil
}

func (s *SettlementService) handlePaymentFailed(evt *gateway.Event) error {
	pi, err := evt.PaymentIntent()
	if err != nil {
		return err
	}
	p, err := s.payments.GetByGatewayRef(pi.ID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			log.Printf("[webhook] payment failed for unknown ref=%s — tolerating", pi.ID)
			return nil
		}
		return err
	}
	if !domain.PaymentCanTransition(p.Status, domain.PaymentFailed) {
		log.Printf("[webhook] payment %s is %s — ignoring failed", p.PaymentID, p.Status)
		return nil
	}
	p.Status = domain.PaymentFailed
	if err := s.payments.Update(p); err != nil {
		return err
	}

	order, err := s.orders.GetByOrderID(p.OrderID)
	if err != nil {
		return err
	}
	if domain.OrderCanTransition(order.Status, domain.OrderFailed) {
		order.Status = domain.OrderFailed
		if err := s.orders.Update(order); err != nil {
			return err
		}
	}
	log.Printf("[webhook] payment failed ref=%s order=%s", pi.ID, p.OrderID)
	return nil
}

// handleChargeRefunded appends the charge's refund line items and marks the
// pair refunded. Dedupe is per gateway refund id, so redelivery appends
// nothing new.
func (s *SettlementService) handleChargeRefunded(evt *gateway.Event) error {
	ch, err := evt.Charge()
	if err != nil {
		return err
	}
	p, err := s.payments.GetByGatewayRef(ch.PaymentIntentRef)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			log.Printf("[webhook] charge refunded for unknown ref=%s — tolerating", ch.PaymentIntentRef)
			return nil
		}
		return err
	}
	order, err := s.orders.GetByOrderID(p.OrderID)
	if err != nil {
		return err
	}

	for _, r := range ch.Refunds {
		status := r.Status
		if status == "" {
			status = domain.RefundSucceeded
		}
		appended, err := s.payments.AppendRefund(p, order, &models.Refund{
			GatewayRefundID: r.ID,
			AmountCents:     r.AmountCents,
			Reason:          r.Reason,
			Status:          status,
		})
		if err != nil {
			return err
		}
		if !appended {
			log.Printf("[webhook] refund %s already recorded for payment %s", r.ID, p.PaymentID)
		}
	}

	if domain.PaymentCanTransition(p.Status, domain.PaymentRefunded) {
		p.Status = domain.PaymentRefunded
		if err := s.payments.Update(p); err != nil {
			return err
		}
	}
	if domain.OrderCanTransition(order.Status, domain.OrderRefunded) {
		order.Status = domain.OrderRefunded
		if err := s.orders.Update(order); err != nil {
			return err
		}
	}
	log.Printf("[webhook] charge refunded ref=%s order=%s refunds=%d", ch.PaymentIntentRef, p.OrderID, len(ch.Refunds))
	return nil
}

// VerifyView is the reconciled state returned to a client coming back from
// the hosted page before the webhook is guaranteed to have landed.
type VerifyView struct {
	Session *gateway.Session
	Payment *models.Payment
	Order   *models.Order
}

// Verify fetches the session straight from the gateway and backfills the
// payment row if the webhook has not arrived. It shares the idempotency key
// with the webhook path, so whichever side lands second finds the existing
// row. Verify never decrements stock and never transitions the order — that
// stays with the checkout.session.completed handler.
func (s *SettlementService) Verify(ctx context.Context, sessionID string) (*VerifyView, error) {
	sess, err := s.gw.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByOrderID(sess.ClientReferenceID)
	if err != nil {
		return nil, err
	}
	view := &VerifyView{Session: sess, Order: order}
	if sess.PaymentIntentRef == "" {
		return view, nil // shopper has not paid yet; nothing to backfill
	}

	p, err := s.payments.GetByGatewayRef(sess.PaymentIntentRef)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		status := domain.PaymentPending
		var completedAt *time.Time
		if sess.PaymentStatus == gateway.SessionPaid {
			status = domain.PaymentSucceeded
			now := time.Now()
			completedAt = &now
		}
		backfill := &models.Payment{
			PaymentID:         fmt.Sprintf("pay-%s", uuid.New().String()),
			OrderID:           order.OrderID,
			UserID:            order.UserID,
			AmountCents:       order.TotalCents,
			Currency:          order.Currency,
			Status:            status,
			GatewayPaymentRef: sess.PaymentIntentRef,
			CompletedAt:       completedAt,
		}
		created, err := s.payments.CreateIfAbsent(backfill)
		if err != nil {
			return nil, err
		}
		if created {
			log.Printf("[verify] backfilled payment ref=%s order=%s status=%s", sess.PaymentIntentRef, order.OrderID, status)
		}
		// re-read either way: a concurrent webhook may have won the insert
		p, err = s.payments.GetByGatewayRef(sess.PaymentIntentRef)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	view.Payment = p
	return view, nil
}

// Refund asks the gateway to refund a captured payment. Local state is
// deliberately untouched: the charge.refunded webhook is the single writer
// for refund state, so a synchronous call cannot race the confirmation.
func (s *SettlementService) Refund(ctx context.Context, gatewayRef string, amountCents int64, reason string) (*gateway.Refund, error) {
	p, err := s.payments.GetByGatewayRef(gatewayRef)
	if err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		amountCents = p.AmountCents
	}
	ref, err := s.gw.CreateRefund(ctx, gateway.RefundRequest{
		PaymentRef:  gatewayRef,
		AmountCents: amountCents,
		Reason:      reason,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[refund] initiated ref=%s payment=%s amount=%d", ref.ID, p.PaymentID, amountCents)
	return ref, nil
}
