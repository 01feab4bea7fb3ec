package handlers

import (
	"net/http"
	"strconv"

	"shopfront/internal/middleware"
	"shopfront/internal/models"

	"github.com/gin-gonic/gin"
)

// handleProducts renders the catalog for the submitted filter. The filter
// fields present in the query are merged into the stored filter; the search
// input in the template debounces for 500ms before resubmitting, so typing
// does not fire a request per keystroke.
func handleProducts(c *gin.Context) {
	stores := getStores(c)
	user, _ := c.Get("user")

	if _, clear := c.GetQuery("clear"); clear {
		stores.Catalog.ClearFilters()
	} else {
		stores.Catalog.SetFilter(filterPatchFromQuery(c))
	}
	filter := stores.Catalog.Filter()

	products, err := stores.Catalog.LoadProducts(c.Request.Context(), filter)
	if _, catErr := stores.Catalog.LoadCategories(c.Request.Context()); catErr != nil && err == nil {
		err = catErr
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}

	c.HTML(status, "products.html", gin.H{
		"Title":      "Products - Shopfront",
		"User":       user,
		"Products":   products,
		"Categories": stores.Catalog.Categories(),
		"Filter":     filter,
		"Error":      stores.Catalog.Error(),
		"CSRFToken":  middleware.IssueCSRFToken(),
	})
}

// filterPatchFromQuery builds a partial filter update from the query string.
// A parameter must be present in the URL to count as specified; "clear" maps
// absent parameters of a submitted filter form to empty values.
func filterPatchFromQuery(c *gin.Context) models.FilterPatch {
	patch := models.FilterPatch{}

	if search, ok := c.GetQuery("search"); ok {
		patch.Search = &search
	}
	if category, ok := c.GetQuery("category"); ok {
		patch.Category = &category
	}
	if raw, ok := c.GetQuery("minPrice"); ok {
		price, _ := strconv.ParseFloat(raw, 64)
		patch.MinPrice = &price
	}
	if raw, ok := c.GetQuery("maxPrice"); ok {
		price, _ := strconv.ParseFloat(raw, 64)
		patch.MaxPrice = &price
	}

	return patch
}
