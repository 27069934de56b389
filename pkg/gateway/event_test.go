package gateway

import (
	"errors"
	"testing"
)

const testSecret = "whsec_unit"

func TestVerifyEventRoundTrip(t *testing.T) {
	body := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"created": 1700000000,
		"data": {"object": {
			"id": "cs_1",
			"client_reference_id": "ord-abc",
			"customer": "cus_1",
			"payment_intent": "pi_1",
			"payment_status": "paid",
			"amount_total": 5000,
			"currency": "usd"
		}}
	}`)
	evt, err := VerifyEvent(testSecret, body, Sign(testSecret, body))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if evt.ID != "evt_1" || evt.Type != EventCheckoutCompleted {
		t.Errorf("event = %s/%s", evt.ID, evt.Type)
	}
	sess, err := evt.Session()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if sess.ClientReferenceID != "ord-abc" || sess.PaymentIntentRef != "pi_1" {
		t.Errorf("session = %+v", sess)
	}
	if sess.PaymentStatus != SessionPaid || sess.AmountTotalCents != 5000 {
		t.Errorf("session = %+v", sess)
	}
}

func TestVerifyEventRejectsBadSignature(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	if _, err := VerifyEvent(testSecret, body, "0000"); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
	if _, err := VerifyEvent(testSecret, body, Sign("other-secret", body)); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("wrong secret: err = %v, want ErrBadSignature", err)
	}
}

func TestVerifyEventRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	sig := Sign(testSecret, body)
	tampered := []byte(`{"id":"evt_2","type":"payment_intent.succeeded"}`)
	if _, err := VerifyEvent(testSecret, tampered, sig); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestChargeDecodesNestedRefunds(t *testing.T) {
	body := []byte(`{
		"id": "evt_9",
		"type": "charge.refunded",
		"data": {"object": {
			"id": "ch_1",
			"payment_intent": "pi_1",
			"amount_refunded": 5000,
			"refunds": [
				{"id": "re_1", "amount": 3000, "reason": "requested_by_customer", "status": "succeeded"},
				{"id": "re_2", "amount": 2000, "status": "succeeded"}
			]
		}}
	}`)
	evt, err := VerifyEvent(testSecret, body, Sign(testSecret, body))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	ch, err := evt.Charge()
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if ch.PaymentIntentRef != "pi_1" || len(ch.Refunds) != 2 {
		t.Fatalf("charge = %+v", ch)
	}
	if ch.Refunds[0].ID != "re_1" || ch.Refunds[0].AmountCents != 3000 {
		t.Errorf("refund = %+v", ch.Refunds[0])
	}
}
