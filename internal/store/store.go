// Package store holds the client-side projections of the remote storefront
// resources: session, catalog, basket and orders. Each store owns one
// projection and is mutated only by its own operations; reconciliation with
// the server happens independently per store.
package store

import (
	"shopfront/internal/api"
	"shopfront/internal/localstore"
)

// Stores bundles the four state containers so they can be injected into
// whatever consumes them instead of living as ambient globals.
type Stores struct {
	Session *Session
	Catalog *Catalog
	Basket  *Basket
	Orders  *Orders
}

func New(client *api.Client, local *localstore.Store) *Stores {
	return &Stores{
		Session: NewSession(client, local),
		Catalog: NewCatalog(client),
		Basket:  NewBasket(client),
		Orders:  NewOrders(client),
	}
}
