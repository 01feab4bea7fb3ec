package handlers

import (
	"net/http"

	"shopfront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func handleOrders(c *gin.Context) {
	stores := getStores(c)
	user, _ := c.Get("user")

	orders, err := stores.Orders.LoadMyOrders(c.Request.Context())

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}

	c.HTML(status, "orders.html", gin.H{
		"Title":  "My Orders - Shopfront",
		"User":   user,
		"Orders": orders,
		"Error":  stores.Orders.Error(),
	})
}

// handleCheckout places an order from the server-side cart. The basket store
// is not mutated here; the cleared cart shows up on the next cart load.
func handleCheckout(c *gin.Context) {
	stores := getStores(c)

	if _, err := stores.Orders.PlaceOrder(c.Request.Context()); err != nil {
		user, _ := c.Get("user")
		c.HTML(http.StatusBadGateway, "cart.html", gin.H{
			"Title":     "Cart - Shopfront",
			"User":      user,
			"Cart":      stores.Basket.Cart(),
			"Total":     stores.Basket.Total(),
			"Error":     stores.Orders.Error(),
			"CSRFToken": middleware.IssueCSRFToken(),
		})
		return
	}

	c.Redirect(http.StatusFound, "/orders")
}
