// Copyright (c) 2026 FarmConnect. All rights reserved.

package order

import (
	"context"

	"github.com/farmconnect/api/pkg/pagination"
)

// Repository defines persistence operations for orders.
//
// # Contract
//
// Place is atomic: it snapshots item names and prices, decrements product
// stock, and writes the order plus its lines in one transaction. A product
// that is missing, inactive, or short on stock fails the whole order.
type Repository interface {
	// Place persists the order. order.Items carries product IDs and
	// quantities on entry; the implementation fills in the name, farmer, and
	// price snapshots and the computed total.
	Place(ctx context.Context, order *Order) error

	// ListByBuyer returns a page of the buyer's own orders plus total count.
	ListByBuyer(ctx context.Context, buyerID string, params pagination.Params) ([]Order, int, error)

	// ListByFarmer returns a page of orders containing at least one line for
	// the farmer's products, plus total count.
	ListByFarmer(ctx context.Context, farmerID string, params pagination.Params) ([]Order, int, error)

	// ListAll returns a page of every order, plus total count. Admin only.
	ListAll(ctx context.Context, params pagination.Params) ([]Order, int, error)
}
