package domain

import "time"

const (
	RoleClient = "CLIENT"
	RoleAdmin  = "ADMIN"
)

// Order lifecycle. Orders are created pending and only ever transition
// forward; they are never deleted.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
	OrderFailed     = "failed"
	OrderRefunded   = "refunded"
)

const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

const (
	RefundPending   = "pending"
	RefundSucceeded = "succeeded"
	RefundFailed    = "failed"
)

// StalePendingAfter is the window after which a pending order with no
// webhook activity counts as an abandoned checkout for operational
// tooling. Abandoned orders are never cancelled automatically.
const StalePendingAfter = 24 * time.Hour

// orderTransitions encodes the order state machine. refunded and failed
// are terminal; pending with no further events is a valid abandoned state.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderFailed},
	OrderProcessing: {OrderCompleted, OrderFailed, OrderRefunded},
	OrderCompleted:  {OrderRefunded},
}

// OrderCanTransition reports whether an order may move from one status to
// another. Self-transitions are allowed so redelivered webhooks are no-ops.
func OrderCanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PaymentCanTransition mirrors OrderCanTransition for payment rows.
// A backfilled pending payment may settle either way; refunded and failed
// are terminal.
func PaymentCanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case PaymentPending:
		return to == PaymentSucceeded || to == PaymentFailed || to == PaymentRefunded
	case PaymentSucceeded:
		return to == PaymentRefunded
	}
	return false
}
