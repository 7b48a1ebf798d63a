// Copyright (c) 2026 FarmConnect. All rights reserved.

// Package order implements marketplace orders.
//
// Buyers place orders against the product catalogue; the buyer identity is
// always taken from the authenticated session, never from the payload.
// Payment handling is out of scope: orders track fulfilment state only.
package order

import "time"

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Order is a placed marketplace order.
type Order struct {
	ID              string    `json:"id"`
	BuyerID         string    `json:"buyer_id"`
	Items           []Item    `json:"items"`
	Total           float64   `json:"total"`
	Status          Status    `json:"status"`
	DeliveryAddress string    `json:"delivery_address"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Item is a single order line. Name and unit price are snapshotted at order
// time so later catalogue edits do not rewrite order history.
type Item struct {
	ProductID   string  `json:"product_id"`
	FarmerID    string  `json:"farmer_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}
