package database

import (
	"duka/config"
	"duka/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Refund{},
	)
}

// SeedProducts inserts a small starter catalog so checkout works on a fresh
// database. No-op once any product exists.
func SeedProducts(db *gorm.DB) {
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return
	}
	products := []models.Product{
		{Name: "Canvas Tote", PriceCents: 2500, Currency: "USD", Stock: 120, Image: "https://cdn.duka.example.com/p/tote.jpg"},
		{Name: "Enamel Mug", PriceCents: 1800, Currency: "USD", Stock: 200, Image: "https://cdn.duka.example.com/p/mug.jpg"},
		{Name: "Wool Beanie", PriceCents: 3200, Currency: "USD", Stock: 80, Image: "https://cdn.duka.example.com/p/beanie.jpg"},
	}
	db.Create(&products)
}
