package repository

import (
	"errors"

	"duka/internal/domain"
	"duka/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateIfAbsent inserts p unless a payment with the same gateway ref
// already exists. Returns whether this call created the row. Concurrent
// writers race on the unique index; the loser re-reads the winner's row.
func (r *PaymentRepository) CreateIfAbsent(p *models.Payment) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gateway_payment_ref"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Settle is the one atomic unit of checkout settlement: upsert the payment
// row, claim the order's stock decrement, and apply it — all in one
// transaction. The claim is keyed by the order, not the payment insert, so
// a verifier backfill does not swallow the decrement and a redelivered
// webhook cannot apply it twice.
func (r *PaymentRepository) Settle(o *models.Order, p *models.Payment) (created bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gateway_payment_ref"}},
			DoNothing: true,
		}).Create(p)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0

		claim := tx.Model(&models.Order{}).
			Where("id = ? AND stock_decremented = ?", o.ID, false).
			Update("stock_decremented", true)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return nil // already decremented for this order
		}
		o.StockDecremented = true
		return decrementStock(tx, o.Items)
	})
	return created, err
}

func (r *PaymentRepository) GetByPaymentID(paymentID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Preload("Refunds").Where("payment_id = ?", paymentID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByGatewayRef(ref string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Preload("Refunds").Where("gateway_payment_ref = ?", ref).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Update(p *models.Payment) error {
	return r.db.Save(p).Error
}

// AppendRefund records one gateway refund against both the payment and its
// order. The unique index on gateway_refund_id makes redelivered refund
// events no-ops; returns whether the row was appended.
func (r *PaymentRepository) AppendRefund(p *models.Payment, o *models.Order, ref *models.Refund) (bool, error) {
	ref.PaymentRowID = p.ID
	ref.OrderRowID = o.ID
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gateway_refund_id"}},
		DoNothing: true,
	}).Create(ref)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentRepository) ListByUser(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Preload("Refunds").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&payments).Error
	return payments, err
}
