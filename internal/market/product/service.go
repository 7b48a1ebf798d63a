// Copyright (c) 2026 FarmConnect. All rights reserved.

package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/farmconnect/api/pkg/pagination"
	"github.com/farmconnect/api/pkg/slug"
	"github.com/farmconnect/api/pkg/uuid"
)

// Service implements the product catalogue operations.
type Service struct {
	repo Repository
}

// NewService creates the product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the already-validated new-listing payload. FarmerID
// comes from the authenticated identity, never from the request body.
type CreateInput struct {
	FarmerID    string
	Name        string
	Description string
	Category    string
	Price       float64
	Unit        string
	ImageURL    string
	Stock       int
	Organic     bool
	HarvestDate *time.Time
	Location    string
}

// Create lists a new product for the farmer.
//
// The slug is derived from the name; on a collision the insert is retried
// once with the tail of the product ID appended. The tail carries the UUID's
// random bits, unlike the timestamp-derived prefix.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	now := time.Now().UTC()
	p := &Product{
		ID:          uuid.New(),
		FarmerID:    input.FarmerID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Price:       input.Price,
		Unit:        input.Unit,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Stock:       input.Stock,
		Organic:     input.Organic,
		HarvestDate: input.HarvestDate,
		Location:    strings.TrimSpace(input.Location),
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Slug = slug.From(p.Name)

	err := s.repo.Create(ctx, p)
	if errors.Is(err, ErrSlugTaken) {
		p.Slug = p.Slug + "-" + p.ID[len(p.ID)-8:]
		err = s.repo.Create(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

// List returns a page of the public catalogue: active products from active farms.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]Product, pagination.Meta, error) {
	products, total, err := s.repo.ListActive(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return products, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// GetBySlug returns a single product by its URL slug.
func (s *Service) GetBySlug(ctx context.Context, productSlug string) (*Product, error) {
	return s.repo.FindBySlug(ctx, productSlug)
}
