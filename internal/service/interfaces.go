package service

import "duka/internal/models"

// Store interfaces let tests substitute in-memory fakes for the GORM
// repositories. Implementations translate not-found to the domain errors.

type OrderStore interface {
	Create(o *models.Order) error
	GetByOrderID(orderID string) (*models.Order, error)
	Update(o *models.Order) error
	ListByUser(userID uint) ([]models.Order, error)
}

type PaymentStore interface {
	CreateIfAbsent(p *models.Payment) (bool, error)
	Settle(o *models.Order, p *models.Payment) (bool, error)
	GetByPaymentID(paymentID string) (*models.Payment, error)
	GetByGatewayRef(ref string) (*models.Payment, error)
	Update(p *models.Payment) error
	AppendRefund(p *models.Payment, o *models.Order, ref *models.Refund) (bool, error)
	ListByUser(userID uint) ([]models.Payment, error)
}

type StockLedger interface {
	GetByIDs(ids []uint) ([]models.Product, error)
}
