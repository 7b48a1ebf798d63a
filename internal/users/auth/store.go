// Copyright (c) 2026 FarmConnect. All rights reserved.

package auth

import (
	"context"
)

// AccountRepository defines persistence operations for accounts and their
// profiles.
//
// # Contract
//
// CreateWithProfile must be atomic: either both the account and its profile
// row are committed, or neither is. Implementations resolve the duplicate
// email race at the storage layer and surface it as apperr EMAIL_EXISTS,
// so callers never pre-check for an existing address.
type AccountRepository interface {
	// CreateWithProfile persists an account and its matching profile in one
	// transaction.
	CreateWithProfile(ctx context.Context, account *Account, profile Profile) error

	// FindByEmail looks up an account by its normalized (lower-cased) email.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID looks up an account by primary key.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindProfile loads the profile variant matching the account's type.
	FindProfile(ctx context.Context, account *Account) (Profile, error)
}
