package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"acme-storefront/models"
	"acme-storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Redirect targets for the storefront flows.
const (
	ProductListPath = "/product/"
	CartPath        = "/cart"
	ErrorPath       = "/error"
)

type CartHandler struct {
	DB   *gorm.DB
	Cart *services.CartService
}

// ViewCart assembles the cart view: the purchase, the subtotal when it is
// strictly positive, and any pending flash message (consumed on read).
// A session with no cart redirects to the error page.
func (h *CartHandler) ViewCart(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	purchase, err := h.Cart.Get(sessionID)
	if errors.Is(err, services.ErrNoActiveCart) {
		log.Error().Str("session_id", sessionID.String()).Msg("no purchase found for session")
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load cart")
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	resp := gin.H{"purchase": purchase}
	if subTotal := services.Subtotal(purchase); subTotal.IsPositive() {
		resp["sub_total"] = subTotal
	}
	if flash := popFlash(h.DB, sessionID); flash != nil {
		resp["flash"] = flash
	}

	c.JSON(http.StatusOK, resp)
}

// AddToCart merges the posted quantity of a product into the session's
// cart and redirects back to the product listing.
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	productID, err := uuid.Parse(c.PostForm("productId"))
	if err != nil {
		log.Warn().Str("product_id", c.PostForm("productId")).Msg("add to cart with malformed product id")
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil || quantity <= 0 {
		putFlash(h.DB, sessionID, "Quantity must be a positive number", models.FlashFailure)
		c.Redirect(http.StatusSeeOther, backTo(c, ProductListPath))
		return
	}

	update, err := h.Cart.AddItem(sessionID, productID, quantity)
	if err != nil {
		h.failMutation(c, sessionID, productID, err, ProductListPath)
		return
	}

	message := fmt.Sprintf("Added %d of %s to cart", quantity, update.Product.Name)
	log.Debug().Str("session_id", sessionID.String()).Msg(message)
	putFlash(h.DB, sessionID, message, models.FlashSuccess)
	c.Redirect(http.StatusSeeOther, ProductListPath)
}

// UpdateCart sets a line item's quantity to exactly the posted value. A
// value of zero or less removes the line instead.
func (h *CartHandler) UpdateCart(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	productID, err := uuid.Parse(c.PostForm("productId"))
	if err != nil {
		log.Warn().Str("product_id", c.PostForm("productId")).Msg("cart update with malformed product id")
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	newQuantity, err := strconv.Atoi(c.PostForm("newQuantity"))
	if err != nil {
		putFlash(h.DB, sessionID, "Quantity must be a number", models.FlashFailure)
		c.Redirect(http.StatusSeeOther, backTo(c, CartPath))
		return
	}

	update, err := h.Cart.SetItemQuantity(sessionID, productID, newQuantity)
	if errors.Is(err, services.ErrLineItemNotFound) {
		putFlash(h.DB, sessionID, "That product is not in the cart", models.FlashFailure)
		c.Redirect(http.StatusSeeOther, CartPath)
		return
	}
	if err != nil {
		h.failMutation(c, sessionID, productID, err, CartPath)
		return
	}

	if update.Removed {
		// The pass-through of a negative value into the message is gone;
		// a removal always reads as "set to 0".
		message := fmt.Sprintf("Removed %s because quantity was set to 0", update.Product.Name)
		log.Debug().Str("session_id", sessionID.String()).Msg(message)
		putFlash(h.DB, sessionID, message, models.FlashFailure)
	} else {
		message := fmt.Sprintf("Updated %s to %d", update.Product.Name, newQuantity)
		log.Debug().Str("session_id", sessionID.String()).Msg(message)
		putFlash(h.DB, sessionID, message, models.FlashSuccess)
	}

	c.Redirect(http.StatusSeeOther, CartPath)
}

// RemoveFromCart drops a product's line item. When the last item goes,
// the shopper is sent back to the product listing instead of the cart.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	productID, err := uuid.Parse(c.PostForm("productId"))
	if err != nil {
		log.Warn().Str("product_id", c.PostForm("productId")).Msg("cart remove with malformed product id")
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	update, err := h.Cart.RemoveItem(sessionID, productID)
	if err != nil {
		h.failMutation(c, sessionID, productID, err, CartPath)
		return
	}

	if update.Removed {
		message := fmt.Sprintf("Removed %s from cart", update.Product.Name)
		log.Debug().Str("session_id", sessionID.String()).Msg(message)
		putFlash(h.DB, sessionID, message, models.FlashSuccess)
	}

	if len(update.Purchase.Items) == 0 {
		c.Redirect(http.StatusSeeOther, ProductListPath)
		return
	}
	c.Redirect(http.StatusSeeOther, CartPath)
}

// EmptyCart clears every line item but keeps the purchase itself.
func (h *CartHandler) EmptyCart(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, ErrorPath)
		return
	}

	_, err := h.Cart.Empty(sessionID)
	if err != nil {
		h.failMutation(c, sessionID, uuid.Nil, err, ProductListPath)
		return
	}

	putFlash(h.DB, sessionID, "Cart is emptied.", models.FlashSuccess)
	c.Redirect(http.StatusSeeOther, ProductListPath)
}

// failMutation translates the cart service's error kinds into redirects
// and flash messages. Stock failures bounce back to the referring page
// with a FAILURE flash; unknown products and missing carts go to the
// error page.
func (h *CartHandler) failMutation(c *gin.Context, sessionID, productID uuid.UUID, err error, fallback string) {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		log.Warn().
			Str("session_id", sessionID.String()).
			Str("product", stockErr.ProductName).
			Int("available", stockErr.Available).
			Int("requested", stockErr.Requested).
			Msg("stock check blocked cart mutation")
		putFlash(h.DB, sessionID, stockErr.Error(), models.FlashFailure)
		c.Redirect(http.StatusSeeOther, backTo(c, fallback))
	case errors.Is(err, services.ErrProductNotFound):
		log.Error().Str("product_id", productID.String()).Msg("attempt to use unknown product")
		c.Redirect(http.StatusSeeOther, ErrorPath)
	case errors.Is(err, services.ErrNoActiveCart):
		log.Error().Str("session_id", sessionID.String()).Msg("unable to find shopping cart")
		c.Redirect(http.StatusSeeOther, ErrorPath)
	default:
		log.Error().Err(err).Msg("cart mutation failed")
		c.Redirect(http.StatusSeeOther, ErrorPath)
	}
}

// backTo returns the referring page when the browser sent one, so flash
// failures land where the shopper was, and the fallback otherwise.
func backTo(c *gin.Context, fallback string) string {
	if referer := c.Request.Referer(); referer != "" {
		return referer
	}
	return fallback
}
