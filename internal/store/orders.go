package store

import (
	"context"
	"fmt"
	"sync"

	"shopfront/internal/api"
	"shopfront/internal/logger"
	"shopfront/internal/models"
)

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// Orders mirrors the user's own orders, most recent first, and for
// privileged sessions the global order list across all users. An order can
// appear in both lists.
type Orders struct {
	mu        sync.RWMutex
	client    *api.Client
	orders    []models.Order
	allOrders []models.Order
	lastErr   string
}

func NewOrders(client *api.Client) *Orders {
	return &Orders{client: client}
}

// PlaceOrder converts the server-side cart into an order and prepends the
// result to the personal list. The client neither computes the total nor
// copies items; the server's response is trusted as-is. The basket store is
// not touched here; cart clearing is observed via a later LoadCart.
func (o *Orders) PlaceOrder(ctx context.Context) (*models.Order, error) {
	o.clearError()

	var order models.Order
	err := o.client.Post(ctx, "/orders", nil, &order)
	if err != nil {
		o.setError(api.Message(err, "Failed to create order"))
		return nil, err
	}

	o.mu.Lock()
	o.orders = append([]models.Order{order}, o.orders...)
	o.mu.Unlock()

	logger.Info("Order placed", "order_id", order.ID, "total", order.Total)
	return &order, nil
}

// LoadMyOrders replaces the personal order list wholesale.
func (o *Orders) LoadMyOrders(ctx context.Context) ([]models.Order, error) {
	o.clearError()

	var orders []models.Order
	err := o.client.Get(ctx, "/orders", &orders)
	if err != nil {
		o.setError(api.Message(err, "Failed to fetch orders"))
		return nil, err
	}

	o.mu.Lock()
	o.orders = orders
	o.mu.Unlock()

	return orders, nil
}

// LoadAllOrders replaces the global order list wholesale. The store does not
// enforce the admin role; the calling view is gated and the server is the
// authority.
func (o *Orders) LoadAllOrders(ctx context.Context) ([]models.Order, error) {
	o.clearError()

	var orders []models.Order
	err := o.client.Get(ctx, "/orders/all", &orders)
	if err != nil {
		o.setError(api.Message(err, "Failed to fetch all orders"))
		return nil, err
	}

	o.mu.Lock()
	o.allOrders = orders
	o.mu.Unlock()

	return orders, nil
}

// SetStatus updates an order's lifecycle status. No client-side transition
// graph: any status may be requested and the server decides legality. The
// returned order replaces the matching entry in both lists where present.
func (o *Orders) SetStatus(ctx context.Context, orderID int, status models.OrderStatus) (*models.Order, error) {
	o.clearError()

	var order models.Order
	err := o.client.Put(ctx, fmt.Sprintf("/orders/%d/status", orderID), statusRequest{Status: status}, &order)
	if err != nil {
		o.setError(api.Message(err, "Failed to update order status"))
		return nil, err
	}

	o.mu.Lock()
	for i := range o.orders {
		if o.orders[i].ID == order.ID {
			o.orders[i] = order
			break
		}
	}
	for i := range o.allOrders {
		if o.allOrders[i].ID == order.ID {
			o.allOrders[i] = order
			break
		}
	}
	o.mu.Unlock()

	logger.Info("Order status updated", "order_id", order.ID, "status", order.Status)
	return &order, nil
}

// MyOrders returns a copy of the personal order list.
func (o *Orders) MyOrders() []models.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	orders := make([]models.Order, len(o.orders))
	copy(orders, o.orders)
	return orders
}

// AllOrders returns a copy of the global order list.
func (o *Orders) AllOrders() []models.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	orders := make([]models.Order, len(o.allOrders))
	copy(orders, o.allOrders)
	return orders
}

func (o *Orders) Error() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastErr
}

func (o *Orders) ClearError() {
	o.clearError()
}

func (o *Orders) clearError() {
	o.mu.Lock()
	o.lastErr = ""
	o.mu.Unlock()
}

func (o *Orders) setError(msg string) {
	o.mu.Lock()
	o.lastErr = msg
	o.mu.Unlock()
}
