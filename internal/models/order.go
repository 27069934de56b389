package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is the durable record of a checkout. Created pending before the
// gateway session exists; transitioned only by webhook handling afterwards.
type Order struct {
	ID                 uint           `gorm:"primaryKey" json:"-"`
	OrderID            string         `gorm:"uniqueIndex;size:64;not null" json:"order_id"`
	UserID             uint           `gorm:"not null;index" json:"user_id"`
	TotalCents         int64          `gorm:"not null" json:"total_cents"`
	Currency           string         `gorm:"size:3;default:'USD'" json:"currency"`
	Status             string         `gorm:"size:20;not null;index" json:"status"` // pending, processing, completed, cancelled, failed, refunded
	GatewaySessionRef  string         `gorm:"size:255;index" json:"gateway_session_ref"`
	GatewayPaymentRef  string         `gorm:"size:255;index" json:"gateway_payment_ref"`
	GatewayCustomerRef string         `gorm:"size:255" json:"gateway_customer_ref"`
	ShippingAddress    string         `gorm:"type:text" json:"shipping_address"`
	CustomerEmail      string         `gorm:"size:255" json:"customer_email"`
	Metadata           string         `gorm:"type:text" json:"metadata"` // JSON
	StockDecremented   bool           `gorm:"not null;default:false" json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Items   []OrderItem `gorm:"foreignKey:OrderRowID" json:"items"`
	Refunds []Refund    `gorm:"foreignKey:OrderRowID" json:"refunds"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots product name and unit price at checkout time.
// Later catalog price changes never touch an existing order.
type OrderItem struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	OrderRowID     uint      `gorm:"not null;index" json:"-"`
	ProductID      uint      `gorm:"not null" json:"product_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	Image          string    `gorm:"size:512" json:"image"`
	Size           string    `gorm:"size:32" json:"size,omitempty"`
	Color          string    `gorm:"size:32" json:"color,omitempty"`
	CreatedAt      time.Time `json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
