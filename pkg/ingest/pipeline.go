// Package ingest turns marketplace search queries into deduplicated catalog
// components. One Run is a bounded sequential page loop; independent
// queries may run concurrently and share a QuotaState.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
	"github.com/Aquilabot/KreaPC-Engine/internal/storage"
	"github.com/Aquilabot/KreaPC-Engine/pkg/fuzzy"
	"github.com/Aquilabot/KreaPC-Engine/pkg/marketplace"
	"github.com/Aquilabot/KreaPC-Engine/pkg/pricing"
	"github.com/Aquilabot/KreaPC-Engine/pkg/specextract"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	defaultMaxPages     = 3
	maxPagesHardCap     = 20
	defaultPageDelay    = 250 * time.Millisecond
	defaultSimThreshold = 0.82
)

type Options struct {
	// MaxPages bounds the page loop; values above the hard cap are clamped.
	MaxPages int
	// PageDelay spaces successive page requests to avoid bursting the API.
	// Zero means the default spacing; negative disables it.
	PageDelay time.Duration
	// SimilarityThreshold gates merge-vs-create during deduplication.
	SimilarityThreshold float64
}

func (o *Options) applyDefaults() {
	if o.MaxPages <= 0 {
		o.MaxPages = defaultMaxPages
	}
	if o.MaxPages > maxPagesHardCap {
		o.MaxPages = maxPagesHardCap
	}
	if o.PageDelay == 0 {
		o.PageDelay = defaultPageDelay
	}
	if o.PageDelay < 0 {
		o.PageDelay = 0
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = defaultSimThreshold
	}
}

type Pipeline struct {
	search    marketplace.SearchAPI
	affiliate marketplace.AffiliateConverter
	catalog   storage.Catalog
	quota     *QuotaState
	opts      Options
}

// New wires a pipeline. affiliate may be nil, in which case offer URLs stay
// as scraped.
func New(search marketplace.SearchAPI, affiliate marketplace.AffiliateConverter, catalog storage.Catalog, quota *QuotaState, opts Options) *Pipeline {
	opts.applyDefaults()
	if quota == nil {
		quota = NewQuotaState()
	}
	return &Pipeline{
		search:    search,
		affiliate: affiliate,
		catalog:   catalog,
		quota:     quota,
		opts:      opts,
	}
}

// Quota exposes the shared quota state so additional pipelines (e.g. a
// wider "load more" run) coordinate on the same cooldown.
func (p *Pipeline) Quota() *QuotaState {
	return p.quota
}

// Run executes one query. It returns the components touched by this query,
// merged and upserted into the catalog. Quota exhaustion and page failures
// degrade to fewer (possibly zero) results, never to a hard error; the only
// error returns are programming mistakes like a nil search API.
func (p *Pipeline) Run(ctx context.Context, query string, hint models.Category) ([]*models.Component, error) {
	if p.search == nil {
		return nil, errors.New("ingest: no search API configured")
	}

	if p.quota.IsExceeded(time.Now()) {
		log.Warnf("search quota exhausted, skipping query %q", query)
		return []*models.Component{}, nil
	}

	acc := newAccumulator(p, hint)

	for pageNum := 1; pageNum <= p.opts.MaxPages; pageNum++ {
		if pageNum > 1 && p.opts.PageDelay > 0 {
			time.Sleep(p.opts.PageDelay)
		}

		page, err := p.search.Search(ctx, query, pageNum)
		if errors.Is(err, marketplace.ErrRateLimited) {
			// Fatal for this call, recoverable for future ones.
			p.quota.MarkExceeded(time.Now())
			log.Warnf("rate limited on page %d of %q, backing off", pageNum, query)
			break
		}
		if err != nil {
			log.Errorf("page %d of %q failed: %v", pageNum, query, err)
			continue
		}

		for _, item := range page.Items {
			if !specextract.Relevant(item.Title, hint) {
				continue
			}
			acc.add(ctx, item)
		}

		if len(page.Items) == 0 {
			break
		}
	}

	p.rewriteAffiliateURLs(ctx, acc.components)

	for _, c := range acc.components {
		pricing.RefreshDerived(c)
		c.UpdatedAt = time.Now()
		if err := p.catalog.UpsertComponent(ctx, c); err != nil {
			log.Errorf("upsert of %q failed: %v", c.Name, err)
		}
	}

	return acc.components, nil
}

// rewriteAffiliateURLs batch-converts every offer URL. Best-effort: on any
// failure, or for any URL the converter omits, the original URL stays.
func (p *Pipeline) rewriteAffiliateURLs(ctx context.Context, components []*models.Component) {
	if p.affiliate == nil || len(components) == 0 {
		return
	}

	var urls []string
	for _, c := range components {
		for i := range c.Offers {
			if c.Offers[i].URL != "" {
				urls = append(urls, c.Offers[i].URL)
			}
		}
	}
	if len(urls) == 0 {
		return
	}

	converted, err := p.affiliate.Convert(ctx, urls)
	if err != nil {
		log.Warnf("affiliate conversion unavailable, keeping original URLs: %v", err)
		return
	}
	for _, c := range components {
		for i := range c.Offers {
			if rewritten, ok := converted[c.Offers[i].URL]; ok && rewritten != "" {
				c.Offers[i].URL = rewritten
			}
		}
	}
}

// accumulator merges incoming raw results into components, fuzzy-matching
// against both this query's output and existing catalog entries.
type accumulator struct {
	p          *Pipeline
	hint       models.Category
	components []*models.Component
	candidates map[models.Category][]*models.Component
}

func newAccumulator(p *Pipeline, hint models.Category) *accumulator {
	return &accumulator{
		p:          p,
		hint:       hint,
		candidates: map[models.Category][]*models.Component{},
	}
}

func (a *accumulator) add(ctx context.Context, item marketplace.RawResult) {
	ext := specextract.Extract(item.Title)

	cat := ext.Category
	if a.hint != "" {
		cat = a.hint
	}
	if cat == "" {
		cat = models.CategoryOther
	}

	offer := offerFromResult(item)

	if match := a.findMatch(ctx, item.Title, cat); match != nil {
		offer.ComponentID = match.ID
		match.Offers = append(match.Offers, offer)
		mergeMetadata(match, item)
		return
	}

	comp := &models.Component{
		ID:          componentID(item),
		Name:        item.Title,
		Brand:       ext.Brand,
		Model:       ext.Model,
		Category:    cat,
		Specs:       ext.Specs,
		Rating:      item.Rating,
		ReviewCount: item.ReviewCount,
	}
	offer.ComponentID = comp.ID
	comp.Offers = []models.Offer{offer}

	a.components = append(a.components, comp)
}

func (a *accumulator) findMatch(ctx context.Context, title string, cat models.Category) *models.Component {
	threshold := a.p.opts.SimilarityThreshold

	for _, c := range a.components {
		if c.Category == cat && fuzzy.Similarity(title, c.Name) >= threshold {
			return c
		}
	}

	for _, c := range a.catalogCandidates(ctx, cat) {
		if fuzzy.Similarity(title, c.Name) >= threshold {
			// Catalog hits join the result set so their merged offers get
			// the same derived-field refresh and upsert as new entries.
			a.components = append(a.components, c)
			return c
		}
	}
	return nil
}

func (a *accumulator) catalogCandidates(ctx context.Context, cat models.Category) []*models.Component {
	if cached, ok := a.candidates[cat]; ok {
		return cached
	}
	found, err := a.p.catalog.FindSimilarByCategory(ctx, cat)
	if err != nil {
		log.Warnf("catalog lookup for %s failed: %v", cat, err)
		found = nil
	}
	a.candidates[cat] = found
	return found
}

// mergeMetadata keeps the richer rating and badge data when the same part
// shows up again on another retailer.
func mergeMetadata(c *models.Component, item marketplace.RawResult) {
	if item.ReviewCount > c.ReviewCount {
		c.Rating = item.Rating
		c.ReviewCount = item.ReviewCount
	}
}

func offerFromResult(item marketplace.RawResult) models.Offer {
	price, _ := models.ParsePrice(item.PriceText)
	original, _ := models.ParsePrice(item.OriginalPriceText)
	if original < price {
		original = price
	}

	availability := models.OutOfStock
	if price > 0 {
		availability = models.InStock
	}

	o := models.Offer{
		ID:            uuid.NewString(),
		Retailer:      item.Retailer,
		Price:         price,
		OriginalPrice: original,
		Availability:  availability,
		URL:           item.URL,
		Badges:        item.Badges,
		UpdatedAt:     time.Now(),
	}
	o.RecomputeDiscount()
	return o
}

func componentID(item marketplace.RawResult) string {
	if item.Retailer != "" && item.ExternalID != "" {
		return item.Retailer + "-" + item.ExternalID
	}
	return uuid.NewString()
}
