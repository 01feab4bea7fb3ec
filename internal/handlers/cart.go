package handlers

import (
	"net/http"
	"strconv"

	"shopfront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func handleCart(c *gin.Context) {
	stores := getStores(c)
	user, _ := c.Get("user")

	cart, err := stores.Basket.LoadCart(c.Request.Context())

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}

	c.HTML(status, "cart.html", gin.H{
		"Title":     "Cart - Shopfront",
		"User":      user,
		"Cart":      cart,
		"Total":     stores.Basket.Total(),
		"Error":     stores.Basket.Error(),
		"CSRFToken": middleware.IssueCSRFToken(),
	})
}

func handleAddToCart(c *gin.Context) {
	stores := getStores(c)

	productID, err := strconv.Atoi(c.PostForm("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product"})
		return
	}

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	// A failed add records its message in the store; the cart page shows it.
	stores.Basket.AddItem(c.Request.Context(), productID, quantity)

	c.Redirect(http.StatusFound, "/cart")
}

func handleUpdateCartItem(c *gin.Context) {
	stores := getStores(c)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item"})
		return
	}

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	// Non-positive quantities route to removal inside the store.
	stores.Basket.SetItemQuantity(c.Request.Context(), itemID, quantity)

	c.Redirect(http.StatusFound, "/cart")
}

func handleRemoveCartItem(c *gin.Context) {
	stores := getStores(c)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item"})
		return
	}

	stores.Basket.RemoveItem(c.Request.Context(), itemID)

	c.Redirect(http.StatusFound, "/cart")
}
