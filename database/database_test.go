package database

import (
	"os"
	"testing"

	"acme-storefront/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"name" TEXT,
			"role" TEXT DEFAULT 'admin',
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "categories" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL UNIQUE,
			"description" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "products" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"description" TEXT,
			"price" TEXT NOT NULL,
			"quantity" INTEGER DEFAULT 0,
			"category_id" TEXT NOT NULL,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_products_category FOREIGN KEY ("category_id") REFERENCES "categories"("id")
		)`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func TestCreateDefaultAdminNew(t *testing.T) {
	db := setupTestDB(t)
	os.Setenv("ADMIN_EMAIL", "testadmin@test.com")
	os.Setenv("ADMIN_PASSWORD", "testpassword123")
	defer os.Unsetenv("ADMIN_EMAIL")
	defer os.Unsetenv("ADMIN_PASSWORD")

	if err := CreateDefaultAdmin(db); err != nil {
		t.Fatal(err)
	}

	var user models.User
	if err := db.Where("email = ?", "testadmin@test.com").First(&user).Error; err != nil {
		t.Fatal("admin user not created")
	}
	if user.Role != "admin" {
		t.Errorf("expected role 'admin', got '%s'", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("testpassword123")); err != nil {
		t.Errorf("stored password hash does not match: %v", err)
	}
}

func TestCreateDefaultAdminAlreadyExists(t *testing.T) {
	db := setupTestDB(t)
	os.Setenv("ADMIN_EMAIL", "existing@test.com")
	os.Setenv("ADMIN_PASSWORD", "password123")
	defer os.Unsetenv("ADMIN_EMAIL")
	defer os.Unsetenv("ADMIN_PASSWORD")

	if err := CreateDefaultAdmin(db); err != nil {
		t.Fatal(err)
	}
	// Second call should skip (no error, no duplicate)
	if err := CreateDefaultAdmin(db); err != nil {
		t.Fatal(err)
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", "existing@test.com").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 admin user, got %d", count)
	}
}

func TestSeedCatalogOnEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)

	if err := SeedCatalog(db); err != nil {
		t.Fatal(err)
	}

	var products int64
	db.Model(&models.Product{}).Count(&products)
	if products == 0 {
		t.Error("expected demo products to be seeded")
	}

	var categories int64
	db.Model(&models.Category{}).Count(&categories)
	if categories == 0 {
		t.Error("expected a demo category to be seeded")
	}
}

func TestSeedCatalogSkipsNonEmpty(t *testing.T) {
	db := setupTestDB(t)

	if err := SeedCatalog(db); err != nil {
		t.Fatal(err)
	}
	var before int64
	db.Model(&models.Product{}).Count(&before)

	// A second run must not duplicate the catalog.
	if err := SeedCatalog(db); err != nil {
		t.Fatal(err)
	}
	var after int64
	db.Model(&models.Product{}).Count(&after)
	if after != before {
		t.Errorf("expected %d products, got %d", before, after)
	}
}
