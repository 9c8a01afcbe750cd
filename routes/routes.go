package routes

import (
	"net/http"
	"time"

	"acme-storefront/handlers"
	"acme-storefront/middleware"
	"acme-storefront/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Services
	catalog := services.NewCatalogService(db)
	cartService := services.NewCartService(db, catalog)

	// Handlers
	authHandler := &handlers.AuthHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db, Catalog: catalog}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	cartHandler := &handlers.CartHandler{DB: db, Cart: cartService}

	// Storefront routes carry the browsing session cookie.
	store := r.Group("")
	store.Use(middleware.SessionMiddleware(db))
	{
		store.GET("/product/", productHandler.GetProducts)
		store.GET("/product/:id", productHandler.GetProduct)
		store.GET("/product/:id/image", productHandler.GetProductImage)
		store.GET("/product/:id/thumb", productHandler.GetProductThumb)

		store.GET("/cart", cartHandler.ViewCart)

		// Cart mutations are rate limited per session to damp double-submits.
		limiter := middleware.NewRateLimiter(30, time.Minute)
		mutations := store.Group("/cart")
		mutations.Use(limiter.Middleware())
		{
			mutations.POST("/add", cartHandler.AddToCart)
			mutations.POST("/update", cartHandler.UpdateCart)
			mutations.POST("/remove", cartHandler.RemoveFromCart)
			mutations.POST("/empty", cartHandler.EmptyCart)
		}
	}

	// Generic error page, the redirect target for failed flows.
	r.GET("/error", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"error": "Something went wrong. Please return to the product listing."})
	})

	// Admin catalog API (JWT)
	api := r.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		protected.GET("/auth/profile", authHandler.GetProfile)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/products", productHandler.CreateProduct)
			admin.PUT("/products/:id", productHandler.UpdateProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)

			admin.POST("/categories", categoryHandler.CreateCategory)
			admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
			admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
		}
	}

	// Public category routes
	r.GET("/api/categories", categoryHandler.GetCategories)
	r.GET("/api/categories/:id", categoryHandler.GetCategory)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
