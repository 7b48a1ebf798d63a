// Copyright (c) 2026 FarmConnect. All rights reserved.

package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/sec"
	"github.com/farmconnect/api/pkg/pagination"
)

// stockEntry is a product as the in-memory repository sees it.
type stockEntry struct {
	Name     string
	FarmerID string
	Price    float64
	Stock    int
	Active   bool
}

// memoryRepository is an in-memory [Repository] for service tests. It mirrors
// the transactional contract: a failed line rolls back earlier decrements.
type memoryRepository struct {
	products map[string]*stockEntry
	orders   []Order
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{products: make(map[string]*stockEntry)}
}

func (m *memoryRepository) Place(_ context.Context, o *Order) error {
	type decrement struct {
		entry *stockEntry
		qty   int
	}
	var applied []decrement

	rollback := func() {
		for _, d := range applied {
			d.entry.Stock += d.qty
		}
	}

	total := 0.0
	for i := range o.Items {
		item := &o.Items[i]
		entry, ok := m.products[item.ProductID]
		if !ok || !entry.Active || entry.Stock < item.Quantity {
			rollback()
			return apperr.Conflict("Product unavailable or insufficient stock")
		}
		entry.Stock -= item.Quantity
		applied = append(applied, decrement{entry, item.Quantity})

		item.ProductName = entry.Name
		item.FarmerID = entry.FarmerID
		item.UnitPrice = entry.Price
		total += entry.Price * float64(item.Quantity)
	}
	o.Total = total

	m.orders = append(m.orders, *o)
	return nil
}

func (m *memoryRepository) ListByBuyer(_ context.Context, buyerID string, _ pagination.Params) ([]Order, int, error) {
	var out []Order
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (m *memoryRepository) ListByFarmer(_ context.Context, farmerID string, _ pagination.Params) ([]Order, int, error) {
	var out []Order
	for _, o := range m.orders {
		for _, item := range o.Items {
			if item.FarmerID == farmerID {
				out = append(out, o)
				break
			}
		}
	}
	return out, len(out), nil
}

func (m *memoryRepository) ListAll(_ context.Context, _ pagination.Params) ([]Order, int, error) {
	return m.orders, len(m.orders), nil
}

func seededService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	repo.products["prod-tomato"] = &stockEntry{Name: "Heirloom Tomatoes", FarmerID: "farmer-1", Price: 4.50, Stock: 10, Active: true}
	repo.products["prod-honey"] = &stockEntry{Name: "Wildflower Honey", FarmerID: "farmer-2", Price: 9.00, Stock: 2, Active: true}
	repo.products["prod-retired"] = &stockEntry{Name: "Retired", FarmerID: "farmer-1", Price: 1.00, Stock: 5, Active: false}
	return NewService(repo), repo
}

func placeInput(lines ...LineInput) PlaceInput {
	return PlaceInput{
		BuyerID:         "buyer-1",
		Lines:           lines,
		DeliveryAddress: "12 Orchard Lane",
	}
}

func TestPlaceOrderSnapshotsPrices(t *testing.T) {
	service, repo := seededService()

	placed, err := service.Place(context.Background(), placeInput(
		LineInput{ProductID: "prod-tomato", Quantity: 2},
		LineInput{ProductID: "prod-honey", Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, placed.Status)
	assert.Equal(t, "buyer-1", placed.BuyerID)
	assert.InDelta(t, 2*4.50+9.00, placed.Total, 0.001)
	require.Len(t, placed.Items, 2)
	assert.Equal(t, "Heirloom Tomatoes", placed.Items[0].ProductName)
	assert.Equal(t, 8, repo.products["prod-tomato"].Stock)
	assert.Equal(t, 1, repo.products["prod-honey"].Stock)
}

func TestPlaceOrderMergesDuplicateLines(t *testing.T) {
	service, repo := seededService()

	placed, err := service.Place(context.Background(), placeInput(
		LineInput{ProductID: "prod-tomato", Quantity: 2},
		LineInput{ProductID: "prod-tomato", Quantity: 3},
	))
	require.NoError(t, err)

	require.Len(t, placed.Items, 1)
	assert.Equal(t, 5, placed.Items[0].Quantity)
	assert.Equal(t, 5, repo.products["prod-tomato"].Stock)
}

func TestPlaceOrderRejectsEmptyAndBadQuantities(t *testing.T) {
	service, _ := seededService()
	ctx := context.Background()

	_, err := service.Place(ctx, placeInput())
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.Place(ctx, placeInput(LineInput{ProductID: "prod-tomato", Quantity: 0}))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	service, repo := seededService()

	_, err := service.Place(context.Background(), placeInput(
		LineInput{ProductID: "prod-tomato", Quantity: 1},
		LineInput{ProductID: "prod-honey", Quantity: 3},
	))
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// The failed order must not leak partial decrements.
	assert.Equal(t, 10, repo.products["prod-tomato"].Stock)
	assert.Equal(t, 2, repo.products["prod-honey"].Stock)
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	service, _ := seededService()

	_, err := service.Place(context.Background(), placeInput(
		LineInput{ProductID: "prod-retired", Quantity: 1},
	))
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestListForDiscriminators(t *testing.T) {
	service, _ := seededService()
	ctx := context.Background()
	params := pagination.Params{Page: 1, Limit: 20}

	_, err := service.Place(ctx, placeInput(LineInput{ProductID: "prod-tomato", Quantity: 1}))
	require.NoError(t, err)

	other := placeInput(LineInput{ProductID: "prod-honey", Quantity: 1})
	other.BuyerID = "buyer-2"
	_, err = service.Place(ctx, other)
	require.NoError(t, err)

	buyerOrders, _, err := service.ListFor(ctx, &sec.Identity{AccountID: "buyer-1", AccountType: sec.AccountTypeBuyer}, params)
	require.NoError(t, err)
	require.Len(t, buyerOrders, 1)
	assert.Equal(t, "buyer-1", buyerOrders[0].BuyerID)

	farmerOrders, _, err := service.ListFor(ctx, &sec.Identity{AccountID: "farmer-2", AccountType: sec.AccountTypeFarmer}, params)
	require.NoError(t, err)
	require.Len(t, farmerOrders, 1)
	assert.Equal(t, "buyer-2", farmerOrders[0].BuyerID)

	allOrders, meta, err := service.ListFor(ctx, &sec.Identity{AccountID: "admin-1", AccountType: sec.AccountTypeAdmin}, params)
	require.NoError(t, err)
	assert.Len(t, allOrders, 2)
	assert.Equal(t, 2, meta.Total)
}
