package store

import (
	"context"
	"fmt"
	"sync"

	"shopfront/internal/api"
	"shopfront/internal/logger"
	"shopfront/internal/models"
)

type addItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Basket mirrors the authenticated user's cart as last known from the
// server. Every mutation is pessimistic: local state changes only after the
// server confirms, so a failed operation leaves the cart exactly as loaded.
type Basket struct {
	mu      sync.RWMutex
	client  *api.Client
	cart    *models.Cart
	lastErr string
}

func NewBasket(client *api.Client) *Basket {
	return &Basket{client: client}
}

// LoadCart replaces the cart with the server's current view. Called whenever
// the user's identity becomes known: after login and after session restore.
func (b *Basket) LoadCart(ctx context.Context) (*models.Cart, error) {
	b.clearError()

	var cart models.Cart
	err := b.client.Get(ctx, "/cart", &cart)
	if err != nil {
		b.setError(api.Message(err, "Failed to fetch cart"))
		return nil, err
	}

	b.mu.Lock()
	b.cart = &cart
	b.mu.Unlock()

	logger.Debug("Cart loaded", "items", len(cart.Items))
	return b.Cart(), nil
}

// AddItem adds a product to the cart. If an item with the returned id
// already exists locally, its quantity is overwritten with the server's
// value; the client never sums quantities itself.
func (b *Basket) AddItem(ctx context.Context, productID, quantity int) (*models.CartItem, error) {
	b.clearError()

	var item models.CartItem
	err := b.client.Post(ctx, "/cart/add", addItemRequest{ProductID: productID, Quantity: quantity}, &item)
	if err != nil {
		b.setError(api.Message(err, "Failed to add to cart"))
		return nil, err
	}

	b.mu.Lock()
	if b.cart != nil {
		replaced := false
		for i := range b.cart.Items {
			if b.cart.Items[i].ID == item.ID {
				b.cart.Items[i].Quantity = item.Quantity
				replaced = true
				break
			}
		}
		if !replaced {
			b.cart.Items = append(b.cart.Items, item)
		}
	}
	b.mu.Unlock()

	logger.Debug("Item added to cart", "product_id", productID, "quantity", item.Quantity)
	return &item, nil
}

// SetItemQuantity updates an item's quantity. A quantity of zero or less is
// a removal, never sent to the server as a non-positive update. If the
// server echoes a non-positive quantity the item is removed locally too.
func (b *Basket) SetItemQuantity(ctx context.Context, itemID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, b.RemoveItem(ctx, itemID)
	}

	b.clearError()

	var item models.CartItem
	err := b.client.Put(ctx, fmt.Sprintf("/cart/item/%d", itemID), updateItemRequest{Quantity: quantity}, &item)
	if err != nil {
		b.setError(api.Message(err, "Failed to update cart item"))
		return nil, err
	}

	b.mu.Lock()
	if b.cart != nil {
		for i := range b.cart.Items {
			if b.cart.Items[i].ID != item.ID {
				continue
			}
			if item.Quantity <= 0 {
				b.cart.Items = append(b.cart.Items[:i], b.cart.Items[i+1:]...)
			} else {
				b.cart.Items[i] = item
			}
			break
		}
	}
	b.mu.Unlock()

	return &item, nil
}

// RemoveItem deletes the item server-side, then removes it locally. A failed
// delete leaves the item visible.
func (b *Basket) RemoveItem(ctx context.Context, itemID int) error {
	b.clearError()

	if err := b.client.Delete(ctx, fmt.Sprintf("/cart/item/%d", itemID)); err != nil {
		b.setError(api.Message(err, "Failed to remove from cart"))
		return err
	}

	b.mu.Lock()
	if b.cart != nil {
		for i := range b.cart.Items {
			if b.cart.Items[i].ID == itemID {
				b.cart.Items = append(b.cart.Items[:i], b.cart.Items[i+1:]...)
				break
			}
		}
	}
	b.mu.Unlock()

	return nil
}

// Clear drops the local cart projection, used on sign-out. The server-side
// cart is untouched.
func (b *Basket) Clear() {
	b.mu.Lock()
	b.cart = nil
	b.lastErr = ""
	b.mu.Unlock()
}

// Cart returns a copy of the last loaded cart, or nil when none was loaded.
func (b *Basket) Cart() *models.Cart {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.cart == nil {
		return nil
	}
	cart := *b.cart
	cart.Items = make([]models.CartItem, len(b.cart.Items))
	copy(cart.Items, b.cart.Items)
	return &cart
}

// Total recomputes the running total from the current items.
func (b *Basket) Total() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cart.Total()
}

func (b *Basket) Error() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

func (b *Basket) ClearError() {
	b.clearError()
}

func (b *Basket) clearError() {
	b.mu.Lock()
	b.lastErr = ""
	b.mu.Unlock()
}

func (b *Basket) setError(msg string) {
	b.mu.Lock()
	b.lastErr = msg
	b.mu.Unlock()
}
