// Copyright (c) 2026 FarmConnect. All rights reserved.

/*
Package auth implements the account identity and provisioning layer.

It defines the core domain entities (Account and its per-type Profile
variants) and the logic for registration, credential verification, and
session issuance.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate all business rules related to
marketplace identity.
*/
package auth

import (
	"time"

	"github.com/farmconnect/api/internal/platform/sec"
)

// # Lifecycle Status

// Status is the lifecycle state of an account or profile.
type Status string

const (
	// StatusActive accounts can log in and transact.
	StatusActive Status = "ACTIVE"

	// StatusPending accounts await admin approval. Every FARMER account
	// starts here.
	StatusPending Status = "PENDING"

	// StatusSuspended accounts fail login even with correct credentials.
	StatusSuspended Status = "SUSPENDED"
)

// # Admin Roles

// AdminRole is the back-office authority level of an ADMIN account.
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "SUPER_ADMIN"
	AdminRoleAdmin      AdminRole = "ADMIN"
	AdminRoleModerator  AdminRole = "MODERATOR"
)

// # Domain Entities

// Account is the base identity record shared by all user kinds.
//
// Exactly one profile record of the matching type exists per account; both
// are created in the same atomic step by the provisioner.
type Account struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"` // Stored normalized: trimmed, lower-cased.
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"` // Explicitly omitted from JSON for security.
	Type         sec.AccountType `json:"type"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Profile is the tagged union of type-specific extension data owned 1:1 by
// an [Account].
//
// The interface is sealed: only the three variants in this package implement
// it, so a switch over the concrete types plus a defensive default covers
// every case the storage layer can produce.
type Profile interface {
	// AccountType returns the discriminator this variant belongs to.
	AccountType() sec.AccountType

	sealedProfile()
}

// FarmerProfile extends a FARMER account.
type FarmerProfile struct {
	AccountID   string  `json:"-"`
	FarmName    string  `json:"farm_name"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	TotalSales  int     `json:"total_sales"`
	Verified    bool    `json:"verified"`
	Status      Status  `json:"status"`
}

// BuyerProfile extends a BUYER account.
type BuyerProfile struct {
	AccountID string `json:"-"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Status    Status `json:"status"`
}

// AdminProfile extends an ADMIN account.
type AdminProfile struct {
	AccountID   string    `json:"-"`
	Role        AdminRole `json:"role"`
	Permissions []string  `json:"permissions"`
}

func (FarmerProfile) AccountType() sec.AccountType { return sec.AccountTypeFarmer }
func (BuyerProfile) AccountType() sec.AccountType  { return sec.AccountTypeBuyer }
func (AdminProfile) AccountType() sec.AccountType  { return sec.AccountTypeAdmin }

func (FarmerProfile) sealedProfile() {}
func (BuyerProfile) sealedProfile()  {}
func (AdminProfile) sealedProfile()  {}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldName        = "name"
	FieldUserType    = "userType"
	FieldFarmName    = "farmName"
	FieldLocation    = "location"
	FieldDescription = "description"
	FieldAddress     = "address"
	FieldPhone       = "phone"
	FieldRole        = "role"
)
