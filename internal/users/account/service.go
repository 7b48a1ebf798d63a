// Copyright (c) 2026 FarmConnect. All rights reserved.

package account

import (
	"context"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/users/auth"
	"github.com/farmconnect/api/pkg/pagination"
)

// Service implements account administration and the farmer directory.
type Service struct {
	repo Repository
}

// NewService creates the account admin service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListFarmers returns a page of the public farmer directory.
func (s *Service) ListFarmers(ctx context.Context, params pagination.Params) ([]FarmerListing, pagination.Meta, error) {
	listings, total, err := s.repo.ListActiveFarmers(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return listings, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// ListPendingFarmers returns a page of the admin approval queue.
func (s *Service) ListPendingFarmers(ctx context.Context, params pagination.Params) ([]PendingFarmer, pagination.Meta, error) {
	pending, total, err := s.repo.ListPendingFarmers(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return pending, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// ApproveFarmer transitions a pending farmer to active.
//
// # Preconditions
//
// The target must exist, be a FARMER, and be PENDING. A suspended or already
// active farmer is a conflict, not an approval.
func (s *Service) ApproveFarmer(ctx context.Context, accountID string) error {
	accountType, status, err := s.repo.GetAccountStatus(ctx, accountID)
	if err != nil {
		return err
	}
	if accountType != "FARMER" {
		return apperr.Conflict("Account is not a farmer")
	}
	if status != auth.StatusPending {
		return apperr.Conflict("Farmer is not pending approval")
	}

	return s.repo.ApproveFarmer(ctx, accountID)
}

// SuspendAccount puts an account into the SUSPENDED state, blocking login.
//
// Admins cannot suspend their own account; a lockout of the last active admin
// would otherwise be one misclick away.
func (s *Service) SuspendAccount(ctx context.Context, actorID, accountID string) error {
	if actorID == accountID {
		return apperr.Forbidden("Cannot suspend your own account")
	}

	_, status, err := s.repo.GetAccountStatus(ctx, accountID)
	if err != nil {
		return err
	}
	if status == auth.StatusSuspended {
		return apperr.Conflict("Account is already suspended")
	}

	return s.repo.SetAccountStatus(ctx, accountID, auth.StatusSuspended)
}

// ActivateAccount lifts a suspension, returning the account to ACTIVE.
func (s *Service) ActivateAccount(ctx context.Context, accountID string) error {
	_, status, err := s.repo.GetAccountStatus(ctx, accountID)
	if err != nil {
		return err
	}
	if status != auth.StatusSuspended {
		return apperr.Conflict("Account is not suspended")
	}

	return s.repo.SetAccountStatus(ctx, accountID, auth.StatusActive)
}
