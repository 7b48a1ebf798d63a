// Copyright (c) 2026 FarmConnect. All rights reserved.

// Package product implements the marketplace product catalogue.
//
// Farmers list their goods here; buyers browse the active catalogue. Listing
// visibility is tied to the owning farmer's account status, so goods from
// pending or suspended farms never surface publicly.
package product

import "time"

// Status is the listing state of a product.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Product is a catalogue listing owned by a farmer.
type Product struct {
	ID           string     `json:"id"`
	FarmerID     string     `json:"farmer_id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Price        float64    `json:"price"`
	Unit         string     `json:"unit"`
	ImageURL     string     `json:"image_url"`
	Stock        int        `json:"stock"`
	Organic      bool       `json:"organic"`
	HarvestDate  *time.Time `json:"harvest_date,omitempty"`
	Location     string     `json:"location"`
	Rating       float64    `json:"rating"`
	ReviewsCount int        `json:"reviews_count"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Categories accepted for new listings.
var Categories = []string{
	"vegetables",
	"fruits",
	"dairy",
	"meat",
	"eggs",
	"honey",
	"grains",
	"herbs",
	"other",
}

// Units accepted for new listings.
var Units = []string{"kg", "g", "lb", "piece", "bunch", "dozen", "litre", "jar"}
