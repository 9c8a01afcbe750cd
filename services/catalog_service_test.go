package services

import (
	"errors"
	"testing"

	"acme-storefront/models"

	"github.com/google/uuid"
)

func TestFindByID(t *testing.T) {
	db := freshDB()
	catalog := NewCatalogService(testDB)

	prod := seedProduct(db, "Apple", "1.99", 5)

	found, err := catalog.FindByID(prod.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Name != "Apple" {
		t.Errorf("expected Apple, got %s", found.Name)
	}
	if !found.Price.Equal(prod.Price) {
		t.Errorf("expected price %s, got %s", prod.Price, found.Price)
	}
}

func TestFindByIDUnknown(t *testing.T) {
	freshDB()
	catalog := NewCatalogService(testDB)

	if _, err := catalog.FindByID(uuid.New()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestFindByIDCaches(t *testing.T) {
	db := freshDB()
	catalog := NewCatalogService(testDB)

	prod := seedProduct(db, "Apple", "1.99", 5)

	if _, err := catalog.FindByID(prod.ID); err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	// A stale name comes back until the entry is invalidated.
	db.Model(&models.Product{}).Where("id = ?", prod.ID).Update("name", "Renamed")

	cached, err := catalog.FindByID(prod.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if cached.Name != "Apple" {
		t.Errorf("expected cached name Apple, got %s", cached.Name)
	}

	catalog.Invalidate(prod.ID)

	fresh, err := catalog.FindByID(prod.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if fresh.Name != "Renamed" {
		t.Errorf("expected fresh name after invalidation, got %s", fresh.Name)
	}
}

func TestCheckStock(t *testing.T) {
	db := freshDB()
	catalog := NewCatalogService(testDB)

	prod := seedProduct(db, "Apple", "1.99", 3)

	if err := catalog.CheckStock(&prod, 3); err != nil {
		t.Errorf("expected 3 of 3 to pass, got %v", err)
	}

	err := catalog.CheckStock(&prod, 4)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ProductName != "Apple" || stockErr.Available != 3 || stockErr.Requested != 4 {
		t.Errorf("unexpected error detail: %+v", stockErr)
	}
}
