package repository

import (
	"fmt"

	"duka/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("name asc").Find(&products).Error
	return products, err
}

func (r *ProductRepository) GetByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// DecrementStock subtracts each line item's quantity from its product's
// stock. Not idempotent: callers guard repetition (the settlement path
// claims the order's stock_decremented flag first).
func (r *ProductRepository) DecrementStock(items []models.OrderItem) error {
	return decrementStock(r.db, items)
}

func decrementStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, it := range items {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
			Update("stock", gorm.Expr("stock - ?", it.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("decrement stock: product %d below %d", it.ProductID, it.Quantity)
		}
	}
	return nil
}
