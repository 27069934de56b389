package models

import "time"

// Refund is one refund line item. Rows hang off both the payment (the
// authoritative copy) and the order so either projection can preload them.
// GatewayRefundID is unique: a redelivered charge.refunded event cannot
// append the same refund twice.
type Refund struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	PaymentRowID    uint      `gorm:"not null;index" json:"-"`
	OrderRowID      uint      `gorm:"not null;index" json:"-"`
	GatewayRefundID string    `gorm:"uniqueIndex;size:255;not null" json:"gateway_refund_id"`
	AmountCents     int64     `gorm:"not null" json:"amount_cents"`
	Reason          string    `gorm:"size:255" json:"reason"`
	Status          string    `gorm:"size:20;not null" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Refund) TableName() string {
	return "refunds"
}
