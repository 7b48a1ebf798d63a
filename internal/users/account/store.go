// Copyright (c) 2026 FarmConnect. All rights reserved.

package account

import (
	"context"

	"github.com/farmconnect/api/internal/users/auth"
	"github.com/farmconnect/api/pkg/pagination"
)

// Repository defines persistence operations for account administration and
// the farmer directory.
type Repository interface {
	// ListActiveFarmers returns a page of the public farmer directory plus
	// the total count of active farmers.
	ListActiveFarmers(ctx context.Context, params pagination.Params) ([]FarmerListing, int, error)

	// ListPendingFarmers returns a page of farmers awaiting approval plus the
	// total pending count.
	ListPendingFarmers(ctx context.Context, params pagination.Params) ([]PendingFarmer, int, error)

	// GetAccountStatus returns the account type and current status.
	GetAccountStatus(ctx context.Context, accountID string) (accountType string, status auth.Status, err error)

	// ApproveFarmer transitions a PENDING farmer to ACTIVE, marking its
	// profile verified, atomically. The caller checks preconditions first.
	ApproveFarmer(ctx context.Context, accountID string) error

	// SetAccountStatus updates the lifecycle status of an account, mirroring
	// it onto the farmer or buyer profile when one exists.
	SetAccountStatus(ctx context.Context, accountID string, status auth.Status) error
}
