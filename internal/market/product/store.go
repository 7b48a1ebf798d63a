// Copyright (c) 2026 FarmConnect. All rights reserved.

package product

import (
	"context"

	"github.com/farmconnect/api/pkg/pagination"
)

// Repository defines persistence operations for the product catalogue.
type Repository interface {
	// Create persists a new product. A slug collision surfaces as a
	// unique-violation the service resolves by suffixing the slug.
	Create(ctx context.Context, product *Product) error

	// ListActive returns a page of active products from active farms plus
	// the total count.
	ListActive(ctx context.Context, params pagination.Params) ([]Product, int, error)

	// FindBySlug looks up a single product by its URL slug.
	FindBySlug(ctx context.Context, slug string) (*Product, error)
}
