package database

import (
	"fmt"
	"os"

	"acme-storefront/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=acme_store port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Session{},
		&models.FlashMessage{},
		&models.Purchase{},
		&models.LineItem{},
	)
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@acme-store.com"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Name:     "Store Admin",
		Role:     "admin",
	}

	return db.Create(&admin).Error
}

// SeedCatalog inserts a small demo catalog when the products table is
// empty, so a fresh install has something to browse.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	category := models.Category{Name: "General", Description: "Everyday items"}
	if err := db.Create(&category).Error; err != nil {
		return err
	}

	products := []models.Product{
		{
			Name:        "Canvas Tote Bag",
			Description: "Sturdy cotton tote for groceries and books",
			Price:       decimal.RequireFromString("12.50"),
			Quantity:    40,
			CategoryID:  category.ID,
		},
		{
			Name:        "Enamel Mug",
			Description: "Campfire-style enamel mug, 350ml",
			Price:       decimal.RequireFromString("8.99"),
			Quantity:    25,
			CategoryID:  category.ID,
		},
		{
			Name:        "Notebook A5",
			Description: "Dotted A5 notebook, 120 pages",
			Price:       decimal.RequireFromString("4.25"),
			Quantity:    60,
			CategoryID:  category.ID,
		},
	}

	return db.Create(&products).Error
}
