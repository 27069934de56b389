package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	PriceCents int64          `gorm:"not null" json:"price_cents"`
	Currency   string         `gorm:"size:3;default:'USD'" json:"currency"`
	Stock      int            `gorm:"not null;default:0" json:"stock"`
	Image      string         `gorm:"size:512" json:"image"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
