package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
	"github.com/Aquilabot/KreaPC-Engine/internal/storage"
	"github.com/Aquilabot/KreaPC-Engine/pkg/marketplace"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	pages map[int]marketplace.Page
	errs  map[int]error
	calls int
}

func (f *fakeSearch) Search(_ context.Context, _ string, page int) (marketplace.Page, error) {
	f.calls++
	if err := f.errs[page]; err != nil {
		return marketplace.Page{}, err
	}
	return f.pages[page], nil
}

type fakeAffiliate struct {
	links map[string]string
	err   error
	calls int
}

func (f *fakeAffiliate) Convert(_ context.Context, _ []string) (map[string]string, error) {
	f.calls++
	return f.links, f.err
}

func result(title, priceText, url string) marketplace.RawResult {
	return marketplace.RawResult{
		Title:     title,
		PriceText: priceText,
		URL:       url,
		Retailer:  "shop",
	}
}

func newTestPipeline(search marketplace.SearchAPI, affiliate marketplace.AffiliateConverter) (*Pipeline, *storage.Memory) {
	mem := storage.NewMemory()
	return New(search, affiliate, mem, NewQuotaState(), Options{PageDelay: -1}), mem
}

func TestRunAccumulatesAcrossPages(t *testing.T) {
	search := &fakeSearch{pages: map[int]marketplace.Page{
		1: {Items: []marketplace.RawResult{result("Intel Core i7-13700K Processor", "$399.99", "https://shop/a")}},
		2: {Items: []marketplace.RawResult{result("AMD Ryzen 7 7800X3D Processor", "$349.00", "https://shop/b")}},
	}}
	p, _ := newTestPipeline(search, nil)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Len(t, components, 2)
	require.Equal(t, int64(39999), components[0].Offers[0].Price)
}

func TestRateLimitSetsQuotaAndAbortsCall(t *testing.T) {
	search := &fakeSearch{
		pages: map[int]marketplace.Page{
			1: {Items: []marketplace.RawResult{result("Intel Core i5-13600K Processor", "$299.00", "https://shop/a")}},
		},
		errs: map[int]error{2: marketplace.ErrRateLimited},
	}
	p, _ := newTestPipeline(search, nil)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Len(t, components, 1, "accumulated results survive the abort")
	require.Equal(t, 2, search.calls, "remaining pages are skipped")
	require.True(t, p.Quota().IsExceeded(time.Now()))
}

func TestQuotaCooldownSkipsNetworkEntirely(t *testing.T) {
	search := &fakeSearch{errs: map[int]error{1: marketplace.ErrRateLimited}}
	p, _ := newTestPipeline(search, nil)

	_, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Equal(t, 1, search.calls)

	components, err := p.Run(context.Background(), "gpu", "")
	require.NoError(t, err)
	require.Empty(t, components)
	require.Equal(t, 1, search.calls, "no network call inside the cooldown window")
}

func TestQuotaResetsAfterCooldown(t *testing.T) {
	q := NewQuotaState()
	now := time.Now()
	q.MarkExceeded(now)

	require.True(t, q.IsExceeded(now.Add(23*time.Hour)))
	require.False(t, q.IsExceeded(now.Add(24*time.Hour)))
	require.False(t, q.IsExceeded(now.Add(25*time.Hour)), "flag stays cleared")
}

func TestPageFailureIsSkippedNotFatal(t *testing.T) {
	search := &fakeSearch{
		pages: map[int]marketplace.Page{
			1: {Items: []marketplace.RawResult{result("Intel Core i7-13700K Processor", "$399.99", "https://shop/a")}},
			3: {Items: []marketplace.RawResult{result("AMD Ryzen 5 7600 Processor", "$229.00", "https://shop/b")}},
		},
		errs: map[int]error{2: errors.New("upstream timeout")},
	}
	p, _ := newTestPipeline(search, nil)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Len(t, components, 2)
	require.Equal(t, 3, search.calls)
}

func TestAllPagesFailingYieldsEmptyResultNotError(t *testing.T) {
	search := &fakeSearch{errs: map[int]error{
		1: errors.New("boom"),
		2: errors.New("boom"),
		3: errors.New("boom"),
	}}
	p, _ := newTestPipeline(search, nil)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Empty(t, components)
}

func TestIrrelevantTitlesAreDropped(t *testing.T) {
	search := &fakeSearch{pages: map[int]marketplace.Page{
		1: {Items: []marketplace.RawResult{
			result("Intel Core i9-13900K Processor", "$549.00", "https://shop/a"),
			result("Ceramic Flower Pot 20cm", "$9.99", "https://shop/junk"),
		}},
	}}
	p, _ := newTestPipeline(search, nil)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Len(t, components, 1)
}

func TestFuzzyDedupMergesOffers(t *testing.T) {
	search := &fakeSearch{pages: map[int]marketplace.Page{
		1: {Items: []marketplace.RawResult{
			result("Samsung 980 PRO 1TB NVMe SSD", "$89.99", "https://shop/a"),
			result("SAMSUNG 980 Pro 1TB NVME SSD", "$84.99", "https://shop/b"),
		}},
	}}
	p, _ := newTestPipeline(search, nil)

	components, err := p.Run(context.Background(), "980 pro", models.CategoryStorage)
	require.NoError(t, err)
	require.Len(t, components, 1, "same part from two retailers merges")
	require.Len(t, components[0].Offers, 2)
	for _, o := range components[0].Offers {
		require.Equal(t, components[0].ID, o.ComponentID)
	}
}

func TestDedupAgainstExistingCatalog(t *testing.T) {
	search := &fakeSearch{pages: map[int]marketplace.Page{
		1: {Items: []marketplace.RawResult{result("Samsung 980 PRO 1TB NVMe SSD", "$84.99", "https://shop/b")}},
	}}
	p, mem := newTestPipeline(search, nil)

	existing := &models.Component{
		ID:       "shop-980pro",
		Name:     "SAMSUNG 980 Pro 1TB NVME SSD",
		Category: models.CategoryStorage,
		Specs:    models.SpecBag{},
		Offers:   []models.Offer{{ID: "old", ComponentID: "shop-980pro", Price: 9999, Availability: models.InStock}},
	}
	require.NoError(t, mem.UpsertComponent(context.Background(), existing))

	components, err := p.Run(context.Background(), "980 pro", models.CategoryStorage)
	require.NoError(t, err)
	require.Len(t, components, 1)
	require.Equal(t, "shop-980pro", components[0].ID, "merged onto the catalog entry, no duplicate created")
	require.Len(t, components[0].Offers, 2)
}

func TestAffiliateRewriteBestEffort(t *testing.T) {
	search := &fakeSearch{pages: map[int]marketplace.Page{
		1: {Items: []marketplace.RawResult{
			result("Intel Core i7-13700K Processor", "$399.99", "https://shop/a"),
			result("AMD Ryzen 7 7800X3D Processor", "$349.00", "https://shop/b"),
		}},
	}}
	affiliate := &fakeAffiliate{links: map[string]string{"https://shop/a": "https://aff.example/a"}}
	p, _ := newTestPipeline(search, affiliate)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Len(t, components, 2)

	urls := map[string]bool{}
	for _, c := range components {
		urls[c.Offers[0].URL] = true
	}
	require.True(t, urls["https://aff.example/a"], "converted URL applied")
	require.True(t, urls["https://shop/b"], "missing mapping keeps the original URL")
}

func TestAffiliateFailureKeepsOriginalURLs(t *testing.T) {
	search := &fakeSearch{pages: map[int]marketplace.Page{
		1: {Items: []marketplace.RawResult{result("Intel Core i7-13700K Processor", "$399.99", "https://shop/a")}},
	}}
	affiliate := &fakeAffiliate{err: errors.New("service down")}
	p, _ := newTestPipeline(search, affiliate)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Len(t, components, 1)
	require.Equal(t, "https://shop/a", components[0].Offers[0].URL)
}

func TestRunUpsertsIntoCatalog(t *testing.T) {
	search := &fakeSearch{pages: map[int]marketplace.Page{
		1: {Items: []marketplace.RawResult{result("Intel Core i7-13700K Processor", "$399.99", "https://shop/a")}},
	}}
	p, mem := newTestPipeline(search, nil)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Len(t, components, 1)

	stored, err := mem.FindComponent(context.Background(), components[0].ID)
	require.NoError(t, err)
	require.Equal(t, components[0].Name, stored.Name)
	require.Equal(t, int64(39999), stored.MinPrice, "derived prices refreshed before upsert")
}

func TestUnparsablePriceBecomesUnknown(t *testing.T) {
	search := &fakeSearch{pages: map[int]marketplace.Page{
		1: {Items: []marketplace.RawResult{result("Intel Core i7-13700K Processor", "call for price", "https://shop/a")}},
	}}
	p, _ := newTestPipeline(search, nil)

	components, err := p.Run(context.Background(), "cpu", "")
	require.NoError(t, err)
	require.Len(t, components, 1)
	require.Zero(t, components[0].Offers[0].Price)
	require.Equal(t, models.OutOfStock, components[0].Offers[0].Availability)
}

func TestOptionsClampedToHardCap(t *testing.T) {
	opts := Options{MaxPages: 50}
	opts.applyDefaults()
	require.Equal(t, maxPagesHardCap, opts.MaxPages)

	opts = Options{}
	opts.applyDefaults()
	require.Equal(t, defaultMaxPages, opts.MaxPages)
}
