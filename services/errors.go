package services

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a referenced product id has no
	// matching catalog entry.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoActiveCart is returned when a mutation or view runs against a
	// session that has never had anything added to its cart.
	ErrNoActiveCart = errors.New("cart not found")

	// ErrLineItemNotFound is returned by quantity updates for a product
	// that is not currently in the cart.
	ErrLineItemNotFound = errors.New("product is not in the cart")

	// ErrInvalidQuantity is returned when an add requests a quantity of
	// zero or less.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// InsufficientStockError reports a requested quantity above what the
// catalog has available. It carries enough detail for a user-facing
// message.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d of %s in stock, %d requested", e.Available, e.ProductName, e.Requested)
}
