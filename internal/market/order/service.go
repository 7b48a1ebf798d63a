// Copyright (c) 2026 FarmConnect. All rights reserved.

package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/sec"
	"github.com/farmconnect/api/pkg/pagination"
	"github.com/farmconnect/api/pkg/uuid"
)

// maxOrderLines caps the number of distinct products per order.
const maxOrderLines = 50

// Service implements order placement and listing.
type Service struct {
	repo Repository
}

// NewService creates the order service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LineInput is one requested order line.
type LineInput struct {
	ProductID string
	Quantity  int
}

// PlaceInput carries the already-validated order payload. BuyerID comes from
// the authenticated identity.
type PlaceInput struct {
	BuyerID         string
	Lines           []LineInput
	DeliveryAddress string
	Notes           string
}

// Place creates a new order for the buyer.
//
// Duplicate product lines are merged before hitting storage so the stock
// decrement runs once per product.
func (s *Service) Place(ctx context.Context, input PlaceInput) (*Order, error) {
	lines, err := mergeLines(input.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &Order{
		ID:              uuid.New(),
		BuyerID:         input.BuyerID,
		Status:          StatusPending,
		DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		Notes:           strings.TrimSpace(input.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, line := range lines {
		o.Items = append(o.Items, Item{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	if err := s.repo.Place(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListFor returns the order page visible to the given identity: buyers see
// their own orders, farmers see orders touching their products, admins see
// everything.
func (s *Service) ListFor(ctx context.Context, identity *sec.Identity, params pagination.Params) ([]Order, pagination.Meta, error) {
	var (
		orders []Order
		total  int
		err    error
	)

	switch identity.AccountType {
	case sec.AccountTypeBuyer:
		orders, total, err = s.repo.ListByBuyer(ctx, identity.AccountID, params)
	case sec.AccountTypeFarmer:
		orders, total, err = s.repo.ListByFarmer(ctx, identity.AccountID, params)
	case sec.AccountTypeAdmin:
		orders, total, err = s.repo.ListAll(ctx, params)
	default:
		err = apperr.Internal(fmt.Errorf("unknown account type %q", identity.AccountType))
	}
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return orders, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// mergeLines validates quantities and merges duplicate product IDs.
func mergeLines(lines []LineInput) ([]LineInput, error) {
	if len(lines) == 0 {
		return nil, apperr.ValidationError("Invalid input data", apperr.FieldError{
			Field: "items", Message: "Order must contain at least one item",
		})
	}

	merged := make([]LineInput, 0, len(lines))
	seen := make(map[string]int) // product ID -> index in merged
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperr.ValidationError("Invalid input data", apperr.FieldError{
				Field: "items", Message: "Quantity must be positive",
			})
		}
		if at, ok := seen[line.ProductID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		seen[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	if len(merged) > maxOrderLines {
		return nil, apperr.ValidationError("Invalid input data", apperr.FieldError{
			Field: "items", Message: fmt.Sprintf("Maximum %d distinct products per order", maxOrderLines),
		})
	}

	return merged, nil
}
