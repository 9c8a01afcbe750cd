package handlers

import (
	"net/http"
	"strconv"

	"acme-storefront/models"
	"acme-storefront/services"
	"acme-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB      *gorm.DB
	Catalog *services.CatalogService
}

const defaultPageSize = 10

// GetProducts lists the catalog for browsing, paginated and filterable by
// category and name search.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 || size > 100 {
		size = defaultPageSize
	}

	query := h.DB.Model(&models.Product{}).Preload("Category").Preload("Images")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	var products []models.Product
	if err := query.Order("name ASC").Offset((page - 1) * size).Limit(size).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	c.JSON(http.StatusOK, gin.H{
		"products":    products,
		"page":        page,
		"size":        size,
		"total":       total,
		"total_pages": totalPages,
	})
}

// GetProduct returns one product's detail page payload.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.Catalog.FindByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductImage redirects to the product's primary full-size image.
func (h *ProductHandler) GetProductImage(c *gin.Context) {
	h.redirectToImage(c, false)
}

// GetProductThumb redirects to the product's primary thumbnail.
func (h *ProductHandler) GetProductThumb(c *gin.Context) {
	h.redirectToImage(c, true)
}

func (h *ProductHandler) redirectToImage(c *gin.Context, thumb bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.Catalog.FindByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	for _, img := range product.Images {
		if !img.IsPrimary {
			continue
		}
		url := img.FullURL
		if thumb && img.ThumbURL != "" {
			url = img.ThumbURL
		}
		c.Redirect(http.StatusFound, url)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Product has no image"})
}

type productRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Quantity    int             `json:"quantity"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	Images      []struct {
		FullURL   string `json:"full_url" binding:"required"`
		ThumbURL  string `json:"thumb_url"`
		IsPrimary bool   `json:"is_primary"`
	} `json:"images"`
}

// CreateProduct adds a catalog entry. Admin only; this is the "external
// catalog process" the cart reads from.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must not be negative"})
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	product := models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	}
	for _, img := range req.Images {
		product.Images = append(product.Images, models.ProductImage{
			FullURL:   img.FullURL,
			ThumbURL:  img.ThumbURL,
			IsPrimary: img.IsPrimary,
		})
	}

	if err := h.DB.Create(&product).Error; err != nil {
		log.Error().Err(err).Msg("failed to create product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct overwrites a catalog entry and invalidates the read cache.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must not be negative"})
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Quantity = req.Quantity
	product.CategoryID = req.CategoryID

	if err := h.DB.Save(&product).Error; err != nil {
		log.Error().Err(err).Msg("failed to update product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.Catalog.Invalidate(product.ID)
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a catalog entry (soft delete) and invalidates the
// read cache.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		log.Error().Err(err).Msg("failed to delete product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	h.Catalog.Invalidate(id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
