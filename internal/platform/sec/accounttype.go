// Copyright (c) 2026 FarmConnect. All rights reserved.

package sec

// # Account Discriminator

// AccountType is the discriminator fixing which profile variant an account
// owns. It is set at registration and never changes.
type AccountType string

const (
	// Sells produce; requires admin approval before going live
	AccountTypeFarmer AccountType = "FARMER"

	// Purchases produce; active immediately after registration
	AccountTypeBuyer AccountType = "BUYER"

	// Operates the marketplace back office
	AccountTypeAdmin AccountType = "ADMIN"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeFarmer, AccountTypeBuyer, AccountTypeAdmin:
		return true
	}
	return false
}

// # Resolved Identity

// Identity is the per-request resolved account identity attached to the
// context by the authentication middleware.
//
// It is rebuilt from live storage on every authenticated request, so it
// reflects the account as it exists now, not as it existed when the token
// was issued.
type Identity struct {
	AccountID   string      `json:"id"`
	Email       string      `json:"email"`
	AccountType AccountType `json:"type"`
}
