// Copyright (c) 2026 FarmConnect. All rights reserved.

package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/pkg/pagination"
)

// memoryRepository is an in-memory [Repository] keyed by slug.
type memoryRepository struct {
	bySlug map[string]*Product
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{bySlug: make(map[string]*Product)}
}

func (m *memoryRepository) Create(_ context.Context, product *Product) error {
	if _, exists := m.bySlug[product.Slug]; exists {
		return ErrSlugTaken
	}
	stored := *product
	m.bySlug[product.Slug] = &stored
	return nil
}

func (m *memoryRepository) ListActive(_ context.Context, _ pagination.Params) ([]Product, int, error) {
	var active []Product
	for _, p := range m.bySlug {
		if p.Status == StatusActive {
			active = append(active, *p)
		}
	}
	return active, len(active), nil
}

func (m *memoryRepository) FindBySlug(_ context.Context, slug string) (*Product, error) {
	product, ok := m.bySlug[slug]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	return product, nil
}

func listingInput(name string) CreateInput {
	return CreateInput{
		FarmerID: "farmer-1",
		Name:     name,
		Category: "vegetables",
		Price:    4.50,
		Unit:     "kg",
		Stock:    10,
		Location: "Willow Creek",
	}
}

func TestCreateDerivesSlug(t *testing.T) {
	service := NewService(newMemoryRepository())

	product, err := service.Create(context.Background(), listingInput("Heirloom Tomatoes"))
	require.NoError(t, err)

	assert.Equal(t, "heirloom-tomatoes", product.Slug)
	assert.Equal(t, StatusActive, product.Status)
	assert.Equal(t, "farmer-1", product.FarmerID)
	assert.NotEmpty(t, product.ID)
}

func TestCreateDisambiguatesSlugCollision(t *testing.T) {
	service := NewService(newMemoryRepository())
	ctx := context.Background()

	first, err := service.Create(ctx, listingInput("Heirloom Tomatoes"))
	require.NoError(t, err)

	second, err := service.Create(ctx, listingInput("Heirloom Tomatoes"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "heirloom-tomatoes-")
	assert.Contains(t, second.Slug, second.ID[len(second.ID)-8:])
}

func TestGetBySlug(t *testing.T) {
	service := NewService(newMemoryRepository())
	ctx := context.Background()

	created, err := service.Create(ctx, listingInput("Raw Wildflower Honey"))
	require.NoError(t, err)

	found, err := service.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.GetBySlug(ctx, "no-such-product")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
