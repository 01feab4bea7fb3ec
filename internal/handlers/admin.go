package handlers

import (
	"net/http"
	"strconv"

	"shopfront/internal/middleware"
	"shopfront/internal/models"

	"github.com/gin-gonic/gin"
)

func handleAdminPanel(c *gin.Context) {
	stores := getStores(c)
	user, _ := c.Get("user")

	products, prodErr := stores.Catalog.LoadProducts(c.Request.Context(), models.Filter{})
	allOrders, orderErr := stores.Orders.LoadAllOrders(c.Request.Context())

	errMsg := stores.Catalog.Error()
	if errMsg == "" {
		errMsg = stores.Orders.Error()
	}

	status := http.StatusOK
	if prodErr != nil || orderErr != nil {
		status = http.StatusBadGateway
	}

	c.HTML(status, "admin.html", gin.H{
		"Title":     "Admin - Shopfront",
		"User":      user,
		"Products":  products,
		"Orders":    allOrders,
		"Statuses":  models.OrderStatuses,
		"Error":     errMsg,
		"CSRFToken": middleware.IssueCSRFToken(),
	})
}

func productInputFromForm(c *gin.Context) (models.ProductInput, map[string]string) {
	errors := make(map[string]string)

	name := c.PostForm("name")
	if name == "" {
		errors["name"] = "Name is required"
	}

	category := c.PostForm("category")
	if category == "" {
		errors["category"] = "Category is required"
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		errors["price"] = "Price must be a non-negative number"
	}

	return models.ProductInput{
		Name:        name,
		Description: c.PostForm("description"),
		Price:       price,
		Image:       c.PostForm("image"),
		Category:    category,
	}, errors
}

func handleCreateProduct(c *gin.Context) {
	stores := getStores(c)

	input, errors := productInputFromForm(c)
	if len(errors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errors})
		return
	}

	if _, err := stores.Catalog.CreateProduct(c.Request.Context(), input); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": stores.Catalog.Error()})
		return
	}

	c.Redirect(http.StatusFound, "/admin/")
}

func handleUpdateProduct(c *gin.Context) {
	stores := getStores(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product"})
		return
	}

	input, errors := productInputFromForm(c)
	if len(errors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errors})
		return
	}

	if _, err := stores.Catalog.UpdateProduct(c.Request.Context(), id, input); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": stores.Catalog.Error()})
		return
	}

	c.Redirect(http.StatusFound, "/admin/")
}

func handleDeleteProduct(c *gin.Context) {
	stores := getStores(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product"})
		return
	}

	if err := stores.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": stores.Catalog.Error()})
		return
	}

	c.Redirect(http.StatusFound, "/admin/")
}

func handleOrderStatus(c *gin.Context) {
	stores := getStores(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order"})
		return
	}

	status := models.OrderStatus(c.PostForm("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	if _, err := stores.Orders.SetStatus(c.Request.Context(), id, status); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": stores.Orders.Error()})
		return
	}

	c.Redirect(http.StatusFound, "/admin/")
}
