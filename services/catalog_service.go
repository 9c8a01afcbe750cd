package services

import (
	"errors"

	"acme-storefront/models"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"
)

// catalogCacheSize bounds the product read cache. The storefront catalog
// is small; this mostly absorbs repeated lookups from cart mutations.
const catalogCacheSize = 256

// CatalogService resolves products for the storefront and the cart. It is
// read-only from the cart's point of view; admin writes go through the
// product handler, which invalidates the cache.
type CatalogService struct {
	DB    *gorm.DB
	cache *lru.Cache[uuid.UUID, models.Product]
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	cache, err := lru.New[uuid.UUID, models.Product](catalogCacheSize)
	if err != nil {
		panic("failed to create catalog cache: " + err.Error())
	}
	return &CatalogService{DB: db, cache: cache}
}

// FindByID returns the product with the given id, or ErrProductNotFound.
func (s *CatalogService) FindByID(id uuid.UUID) (*models.Product, error) {
	if p, ok := s.cache.Get(id); ok {
		return &p, nil
	}

	var product models.Product
	err := s.DB.Preload("Category").Preload("Images").Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	s.cache.Add(id, product)
	return &product, nil
}

// Invalidate drops one product from the cache. Called after admin writes.
func (s *CatalogService) Invalidate(id uuid.UUID) {
	s.cache.Remove(id)
}

// CheckStock verifies that the requested quantity does not exceed what is
// available. Pure check, no side effects.
func (s *CatalogService) CheckStock(product *models.Product, requested int) error {
	if requested > product.Quantity {
		return &InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Quantity,
			Requested:   requested,
		}
	}
	return nil
}
