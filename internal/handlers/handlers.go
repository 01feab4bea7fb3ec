package handlers

import (
	"net/http"

	"shopfront/internal/config"
	"shopfront/internal/middleware"
	"shopfront/internal/store"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, stores *store.Stores, cfg *config.Config) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(addStoreContext(stores))
	r.Use(addConfigContext(cfg))
	r.Use(middleware.TrimSpaces())

	r.GET("/", middleware.AuthOptional(stores.Session), handleHome)
	r.GET("/products", middleware.AuthOptional(stores.Session), handleProducts)
	r.GET("/register", handleRegisterPage)
	r.POST("/register", middleware.AuthRateLimit(cfg), handleRegister)
	r.GET("/login", handleLoginPage)
	r.POST("/login", middleware.AuthRateLimit(cfg), handleLogin)
	r.POST("/logout", middleware.AuthRequired(stores.Session), handleLogout)

	protected := r.Group("/")
	protected.Use(middleware.AuthRequired(stores.Session))
	protected.Use(middleware.CSRF(cfg))
	{
		protected.GET("/cart", handleCart)
		protected.POST("/cart/add", handleAddToCart)
		protected.POST("/cart/items/:id", handleUpdateCartItem)
		protected.POST("/cart/items/:id/delete", handleRemoveCartItem)

		protected.POST("/checkout", handleCheckout)
		protected.GET("/orders", handleOrders)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired(stores.Session))
	admin.Use(middleware.CSRF(cfg))
	{
		admin.GET("/", handleAdminPanel)
		admin.POST("/products", handleCreateProduct)
		admin.POST("/products/:id", handleUpdateProduct)
		admin.POST("/products/:id/delete", handleDeleteProduct)
		admin.POST("/orders/:id/status", handleOrderStatus)
	}
}

func handleHome(c *gin.Context) {
	user, _ := c.Get("user")
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title": "Shopfront",
		"User":  user,
	})
}

func addStoreContext(stores *store.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("stores", stores)
		c.Next()
	}
}

func addConfigContext(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func getStores(c *gin.Context) *store.Stores {
	return c.MustGet("stores").(*store.Stores)
}
