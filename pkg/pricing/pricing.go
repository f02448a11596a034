// Package pricing reduces retailer offers to canonical per-component and
// per-build price summaries. Pure functions, safe to call concurrently.
package pricing

import (
	"github.com/Aquilabot/KreaPC-Engine/internal/models"
)

// BestOffer picks the cheapest obtainable offer: minimum price among
// in-stock or limited offers. When nothing is obtainable it falls back to
// the globally cheapest offer so a build can still price itself; callers
// surface availability separately. Offers with price 0 are unknown, never
// free, and are never selected. Returns nil when no offer carries a price.
func BestOffer(c *models.Component) *models.Offer {
	var best, cheapest *models.Offer

	for i := range c.Offers {
		o := &c.Offers[i]
		if o.Price <= 0 {
			continue
		}
		if cheapest == nil || o.Price < cheapest.Price {
			cheapest = o
		}
		if o.Availability != models.InStock && o.Availability != models.Limited {
			continue
		}
		if best == nil || o.Price < best.Price {
			best = o
		}
	}

	if best == nil {
		return cheapest
	}
	return best
}

type Totals struct {
	TotalPrice           int64 `json:"totalPrice"`
	OriginalTotalPrice   int64 `json:"originalTotalPrice"`
	TotalDiscountPercent int   `json:"totalDiscountPercent"`
}

// AggregateBuild sums each selected component's best offer. An empty build
// yields zero totals, not an error. The total discount is recomputed from
// the two sums, same rule as per-offer discounts.
func AggregateBuild(b *models.Build) Totals {
	var t Totals
	for _, c := range b.Components {
		if c == nil {
			continue
		}
		offer := BestOffer(c)
		if offer == nil {
			continue
		}
		t.TotalPrice += offer.Price
		if offer.OriginalPrice > offer.Price {
			t.OriginalTotalPrice += offer.OriginalPrice
		} else {
			t.OriginalTotalPrice += offer.Price
		}
	}
	t.TotalDiscountPercent = models.DiscountPercent(t.TotalPrice, t.OriginalTotalPrice)
	return t
}

// RefreshDerived recomputes a component's price range and average from its
// priced offers.
func RefreshDerived(c *models.Component) {
	var sum int64
	var n int64
	c.MinPrice, c.MaxPrice, c.AveragePrice = 0, 0, 0

	for i := range c.Offers {
		o := &c.Offers[i]
		o.RecomputeDiscount()
		if o.Price <= 0 {
			continue
		}
		if c.MinPrice == 0 || o.Price < c.MinPrice {
			c.MinPrice = o.Price
		}
		if o.Price > c.MaxPrice {
			c.MaxPrice = o.Price
		}
		sum += o.Price
		n++
	}
	if n > 0 {
		c.AveragePrice = sum / n
	}
}
