package store

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"shopfront/internal/api"
	"shopfront/internal/logger"
	"shopfront/internal/models"
)

// Catalog mirrors the server's product collection: the product list for the
// active filter, the known categories, and the filter itself. The displayed
// list always equals the most recently completed fetch; overlapping fetches
// are not sequenced, whichever completes last wins.
type Catalog struct {
	mu         sync.RWMutex
	client     *api.Client
	items      []models.Product
	categories []string
	filter     models.Filter
	lastErr    string
}

func NewCatalog(client *api.Client) *Catalog {
	return &Catalog{client: client}
}

// LoadProducts fetches the product list for the given filter and replaces
// the local list wholesale. Only the filter's set fields go into the query;
// unset fields are omitted rather than sent as empty values.
func (c *Catalog) LoadProducts(ctx context.Context, filter models.Filter) ([]models.Product, error) {
	c.clearError()

	var products []models.Product
	err := c.client.Get(ctx, "/products"+buildQuery(filter), &products)
	if err != nil {
		c.setError(api.Message(err, "Failed to fetch products"))
		return nil, err
	}

	c.mu.Lock()
	c.items = products
	c.mu.Unlock()

	logger.Debug("Products loaded", "count", len(products))
	return products, nil
}

// LoadCategories replaces the category list wholesale. It records its own
// failures but an earlier error stays put on success; only a retry of the
// failed operation or an explicit clear may erase it.
func (c *Catalog) LoadCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.client.Get(ctx, "/products/categories", &categories)
	if err != nil {
		c.setError(api.Message(err, "Failed to fetch categories"))
		return nil, err
	}

	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()

	return categories, nil
}

// SetFilter merges the patch's present fields into the current filter.
// Unspecified fields keep their prior values. No fetch is triggered.
func (c *Catalog) SetFilter(patch models.FilterPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if patch.Search != nil {
		c.filter.Search = *patch.Search
	}
	if patch.Category != nil {
		c.filter.Category = *patch.Category
	}
	if patch.MinPrice != nil {
		c.filter.MinPrice = *patch.MinPrice
	}
	if patch.MaxPrice != nil {
		c.filter.MaxPrice = *patch.MaxPrice
	}
}

// ClearFilters resets the filter to its empty state.
func (c *Catalog) ClearFilters() {
	c.mu.Lock()
	c.filter = models.Filter{}
	c.mu.Unlock()
}

func (c *Catalog) Filter() models.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// CreateProduct creates a product server-side and appends the server's copy
// to the local list. Privileged; the server enforces the role.
func (c *Catalog) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	c.clearError()

	var product models.Product
	err := c.client.Post(ctx, "/products", input, &product)
	if err != nil {
		c.setError(api.Message(err, "Error saving product"))
		return nil, err
	}

	c.mu.Lock()
	c.items = append(c.items, product)
	c.mu.Unlock()

	logger.Info("Product created", "product_id", product.ID, "name", product.Name)
	return &product, nil
}

// UpdateProduct replaces the cached copy with the server's response after
// the round trip; nothing is computed locally.
func (c *Catalog) UpdateProduct(ctx context.Context, id int, input models.ProductInput) (*models.Product, error) {
	c.clearError()

	var product models.Product
	err := c.client.Put(ctx, fmt.Sprintf("/products/%d", id), input, &product)
	if err != nil {
		c.setError(api.Message(err, "Error saving product"))
		return nil, err
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == product.ID {
			c.items[i] = product
			break
		}
	}
	c.mu.Unlock()

	logger.Info("Product updated", "product_id", product.ID)
	return &product, nil
}

// DeleteProduct removes the product locally only after the server confirms.
func (c *Catalog) DeleteProduct(ctx context.Context, id int) error {
	c.clearError()

	if err := c.client.Delete(ctx, fmt.Sprintf("/products/%d", id)); err != nil {
		c.setError(api.Message(err, "Error deleting product"))
		return err
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	logger.Info("Product deleted", "product_id", id)
	return nil
}

// Products returns the list from the most recently completed fetch.
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]models.Product, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	categories := make([]string, len(c.categories))
	copy(categories, c.categories)
	return categories
}

func (c *Catalog) Error() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Catalog) ClearError() {
	c.clearError()
}

func (c *Catalog) clearError() {
	c.mu.Lock()
	c.lastErr = ""
	c.mu.Unlock()
}

func (c *Catalog) setError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}

// buildQuery renders the filter as a query string containing only its set
// fields. A zero min price is "not set", matching the server's contract.
func buildQuery(filter models.Filter) string {
	params := url.Values{}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.MinPrice != 0 {
		params.Set("minPrice", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != 0 {
		params.Set("maxPrice", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}
