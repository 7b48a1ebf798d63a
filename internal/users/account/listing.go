// Copyright (c) 2026 FarmConnect. All rights reserved.

// Package account implements account administration and the public farmer
// directory.
//
// # Scope
//
// Provisioning and login live in the auth package; this package covers what
// happens to accounts afterwards: admin approval of pending farmers,
// suspension and reactivation, and the buyer-facing directory of active farms.
package account

import "time"

// FarmerListing is the public directory projection of an active farmer.
// It joins the base account with its farmer profile and never exposes
// credentials or contact email.
type FarmerListing struct {
	AccountID   string    `json:"id"`
	Name        string    `json:"name"`
	FarmName    string    `json:"farm_name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	TotalSales  int       `json:"total_sales"`
	Verified    bool      `json:"verified"`
	JoinedAt    time.Time `json:"joined_at"`
}

// PendingFarmer is the admin review projection of a farmer awaiting approval.
type PendingFarmer struct {
	AccountID    string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	FarmName     string    `json:"farm_name"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	RegisteredAt time.Time `json:"registered_at"`
}
