package models

import "strings"

type Category string

const (
	CategoryCPU         Category = "cpu"
	CategoryGPU         Category = "gpu"
	CategoryRAM         Category = "ram"
	CategoryMotherboard Category = "motherboard"
	CategoryStorage     Category = "storage"
	CategoryPSU         Category = "psu"
	CategoryCase        Category = "case"
	CategoryCooling     Category = "cooling"
	CategoryOther       Category = "other"
)

var allCategories = []Category{
	CategoryCPU,
	CategoryGPU,
	CategoryRAM,
	CategoryMotherboard,
	CategoryStorage,
	CategoryPSU,
	CategoryCase,
	CategoryCooling,
	CategoryOther,
}

// ParseCategory maps a wire-level category string onto the closed enum.
// Unknown values are rejected so they never reach the engines.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allCategories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}
