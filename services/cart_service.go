package services

import (
	"errors"

	"acme-storefront/models"
	"acme-storefront/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService owns the per-session cart: merging adds, quantity
// overwrites, removals and emptying. Every mutation runs under a
// per-session lock and inside one transaction, and returns the canonical
// persisted purchase.
type CartService struct {
	DB      *gorm.DB
	Catalog *CatalogService
	locks   *utils.SessionLocks
}

func NewCartService(db *gorm.DB, catalog *CatalogService) *CartService {
	return &CartService{
		DB:      db,
		Catalog: catalog,
		locks:   utils.NewSessionLocks(),
	}
}

// CartUpdate describes the outcome of a cart mutation for the boundary
// layer: the persisted purchase, the product the request referenced and
// whether a line item was removed.
type CartUpdate struct {
	Purchase *models.Purchase
	Product  *models.Product
	Removed  bool
}

// Get returns the session's purchase with line items and products
// preloaded, or ErrNoActiveCart.
func (s *CartService) Get(sessionID uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.DB.Where("session_id = ?", sessionID).First(&purchase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveCart
	}
	if err != nil {
		return nil, err
	}
	return s.reload(s.DB, purchase.ID)
}

// AddItem merges the requested quantity into the session's cart. Repeated
// adds of the same product accumulate into a single line item. The stock
// check runs against the merged quantity and blocks the mutation when it
// fails.
func (s *CartService) AddItem(sessionID, productID uuid.UUID, quantity int) (*CartUpdate, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.Catalog.FindByID(productID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	var purchase *models.Purchase
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Purchase
		err := tx.Where("session_id = ?", sessionID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p = models.Purchase{ID: uuid.New(), SessionID: sessionID}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var line models.LineItem
		err = tx.Where("purchase_id = ? AND product_id = ?", p.ID, productID).First(&line).Error
		switch {
		case err == nil:
			merged := line.Quantity + quantity
			if err := s.Catalog.CheckStock(product, merged); err != nil {
				return err
			}
			line.Quantity = merged
			if err := tx.Save(&line).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := s.Catalog.CheckStock(product, quantity); err != nil {
				return err
			}
			line = models.LineItem{
				ID:         uuid.New(),
				PurchaseID: p.ID,
				ProductID:  productID,
				Quantity:   quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		default:
			return err
		}

		purchase, err = s.reload(tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CartUpdate{Purchase: purchase, Product: product}, nil
}

// SetItemQuantity overwrites the quantity of the product's line item. A
// new quantity of zero or less removes the line instead.
func (s *CartService) SetItemQuantity(sessionID, productID uuid.UUID, newQuantity int) (*CartUpdate, error) {
	product, err := s.Catalog.FindByID(productID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	var (
		purchase *models.Purchase
		removed  bool
	)
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Purchase
		err := tx.Where("session_id = ?", sessionID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveCart
		}
		if err != nil {
			return err
		}

		var line models.LineItem
		err = tx.Where("purchase_id = ? AND product_id = ?", p.ID, productID).First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		if err != nil {
			return err
		}

		if newQuantity > 0 {
			if err := s.Catalog.CheckStock(product, newQuantity); err != nil {
				return err
			}
			line.Quantity = newQuantity
			if err := tx.Save(&line).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Delete(&line).Error; err != nil {
				return err
			}
			removed = true
		}

		purchase, err = s.reload(tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CartUpdate{Purchase: purchase, Product: product, Removed: removed}, nil
}

// RemoveItem removes the product's line item if present. Removing a
// product that is not in the cart is a no-op, mirroring a double-submit
// of the same remove form.
func (s *CartService) RemoveItem(sessionID, productID uuid.UUID) (*CartUpdate, error) {
	product, err := s.Catalog.FindByID(productID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	var (
		purchase *models.Purchase
		removed  bool
	)
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Purchase
		err := tx.Where("session_id = ?", sessionID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveCart
		}
		if err != nil {
			return err
		}

		var line models.LineItem
		err = tx.Where("purchase_id = ? AND product_id = ?", p.ID, productID).First(&line).Error
		switch {
		case err == nil:
			if err := tx.Delete(&line).Error; err != nil {
				return err
			}
			removed = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			// nothing to remove
		default:
			return err
		}

		purchase, err = s.reload(tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CartUpdate{Purchase: purchase, Product: product, Removed: removed}, nil
}

// Empty removes every line item but keeps the purchase row, so the
// session's cart survives as an empty cart.
func (s *CartService) Empty(sessionID uuid.UUID) (*models.Purchase, error) {
	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	var purchase *models.Purchase
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Purchase
		err := tx.Where("session_id = ?", sessionID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveCart
		}
		if err != nil {
			return err
		}

		if err := tx.Where("purchase_id = ?", p.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}

		purchase, err = s.reload(tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// reload fetches the canonical persisted purchase, line items ordered by
// insertion so the cart renders stably.
func (s *CartService) reload(tx *gorm.DB, purchaseID uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.created_at ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Images").
		Where("id = ?", purchaseID).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Subtotal walks the purchase's line items and sums unit price times
// quantity. Recomputed on every call, never cached.
func Subtotal(purchase *models.Purchase) decimal.Decimal {
	total := decimal.Zero
	if purchase == nil {
		return total
	}
	for _, item := range purchase.Items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
