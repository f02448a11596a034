package models

import (
	"math"
	"time"
)

type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
	Limited    Availability = "limited"
)

type ShippingInfo struct {
	Cost          int64 `json:"cost"`
	EstimatedDays int   `json:"estimatedDays"`
	Free          bool  `json:"free"`
}

// Offer is one retailer's listing for a Component. Prices are integers in the
// smallest currency unit; 0 means the price is unknown, not free.
type Offer struct {
	ID              string       `json:"id"`
	ComponentID     string       `json:"componentId"`
	Retailer        string       `json:"retailer"`
	Price           int64        `json:"price"`
	OriginalPrice   int64        `json:"originalPrice"`
	DiscountPercent int          `json:"discountPercent"`
	Availability    Availability `json:"availability"`
	URL             string       `json:"url"`
	Shipping        ShippingInfo `json:"shipping"`
	Badges          []string     `json:"badges,omitempty"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// RecomputeDiscount derives the discount percentage from the two prices.
// Source-provided discount figures are never trusted.
func (o *Offer) RecomputeDiscount() {
	o.DiscountPercent = DiscountPercent(o.Price, o.OriginalPrice)
}

func DiscountPercent(price, original int64) int {
	if original <= price || original == 0 {
		return 0
	}
	return int(math.Round(float64(original-price) / float64(original) * 100))
}

// Component is a canonical catalog entry for one physical part, with every
// known retailer offer attached.
type Component struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand,omitempty"`
	Model        string    `json:"model,omitempty"`
	Category     Category  `json:"category"`
	Specs        SpecBag   `json:"specs,omitempty"`
	Offers       []Offer   `json:"offers"`
	Rating       float64   `json:"rating,omitempty"`
	ReviewCount  int       `json:"reviewCount,omitempty"`
	AveragePrice int64     `json:"averagePrice"`
	MinPrice     int64     `json:"minPrice"`
	MaxPrice     int64     `json:"maxPrice"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Issue struct {
	RuleType    string   `json:"ruleType"`
	Message     string   `json:"message"`
	AffectedIDs []string `json:"affectedIds,omitempty"`
}

type CompatibilityReport struct {
	IsCompatible bool    `json:"isCompatible"`
	Warnings     []Issue `json:"warnings"`
	Errors       []Issue `json:"errors"`
}

// Build holds at most one selected Component per category. Derived fields are
// recomputed in full on every mutation; nothing incremental is persisted.
type Build struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name"`
	Description          string                  `json:"description,omitempty"`
	Components           map[Category]*Component `json:"components"`
	TotalPrice           int64                   `json:"totalPrice"`
	OriginalTotalPrice   int64                   `json:"originalTotalPrice"`
	TotalDiscountPercent int                     `json:"totalDiscountPercent"`
	Compatibility        *CompatibilityReport    `json:"compatibility,omitempty"`
	CreatedAt            time.Time               `json:"createdAt"`
	UpdatedAt            time.Time               `json:"updatedAt"`
}
