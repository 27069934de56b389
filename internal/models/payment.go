package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the authoritative record of a captured payment. At most one
// row may exist per GatewayPaymentRef; the unique index is the idempotency
// key for webhook redelivery and verifier backfill.
type Payment struct {
	ID                uint           `gorm:"primaryKey" json:"-"`
	PaymentID         string         `gorm:"uniqueIndex;size:64;not null" json:"payment_id"`
	OrderID           string         `gorm:"size:64;not null;index" json:"order_id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	AmountCents       int64          `gorm:"not null" json:"amount_cents"`
	Currency          string         `gorm:"size:3;default:'USD'" json:"currency"`
	Status            string         `gorm:"size:20;not null;index" json:"status"` // pending, succeeded, failed, refunded
	GatewayPaymentRef string         `gorm:"uniqueIndex;size:255;not null" json:"gateway_payment_ref"`
	ReceiptRef        string         `gorm:"size:512" json:"receipt_ref"`
	CompletedAt       *time.Time     `json:"completed_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Refunds []Refund `gorm:"foreignKey:PaymentRowID" json:"refunds"`
}

func (Payment) TableName() string {
	return "payments"
}
