package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Aquilabot/KreaPC-Engine/internal/utils"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

const defaultScrapeTimeout = 15 * time.Second

type ScraperOptions struct {
	BaseURL  string
	Retailer string
	Timeout  time.Duration
	Headers  map[string]string
}

// Scraper implements SearchAPI against a marketplace's HTML search pages.
type Scraper struct {
	base     *colly.Collector
	baseURL  string
	retailer string
}

// NewScraper initializes the underlying collector with a randomized
// user agent and a request timeout; every Search clones it so callbacks
// never leak between calls.
func NewScraper(opts ScraperOptions) *Scraper {
	col := colly.NewCollector()
	col.AllowURLRevisit = true
	if opts.Timeout <= 0 {
		opts.Timeout = defaultScrapeTimeout
	}
	col.SetRequestTimeout(opts.Timeout)
	extensions.RandomUserAgent(col)

	if len(opts.Headers) > 0 {
		col.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				if len(k) > 0 && len(v) > 0 {
					r.Headers.Set(k, v)
				}
			}
		})
	}

	return &Scraper{
		base:     col,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		retailer: opts.Retailer,
	}
}

func (s *Scraper) Search(ctx context.Context, query string, pageNum int) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	col := s.base.Clone()

	var page Page
	var reqErr error

	col.OnHTML(".search-results", func(elem *colly.HTMLElement) {
		if total, err := strconv.Atoi(elem.Attr("data-total")); err == nil {
			page.TotalCount = total
		}

		elem.ForEach(".result-card", func(i int, card *colly.HTMLElement) {
			rating, _ := strconv.ParseFloat(card.ChildText(".result-card__rating"), 64)
			reviews, _ := strconv.Atoi(strings.Trim(card.ChildText(".result-card__reviews"), "() "))

			var badges []string
			card.ForEach(".result-card__badge", func(i int, badge *colly.HTMLElement) {
				badges = append(badges, strings.TrimSpace(badge.Text))
			})

			page.Items = append(page.Items, RawResult{
				Title:             utils.CollapseWhitespace(card.ChildText(".result-card__title")),
				PriceText:         card.ChildText(".result-card__price"),
				OriginalPriceText: card.ChildText(".result-card__price--original"),
				URL:               utils.AbsoluteURL(card.Request.URL.Host, card.ChildAttr(".result-card__title a", "href")),
				ImageURL:          utils.AbsoluteURL(card.Request.URL.Host, card.ChildAttr(".result-card__image img", "src")),
				Rating:            rating,
				ReviewCount:       reviews,
				Badges:            badges,
				Retailer:          s.retailer,
				ExternalID:        card.Attr("data-item-id"),
			})
		})
	})

	col.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode == http.StatusTooManyRequests {
			reqErr = fmt.Errorf("%s page %d: %w", s.retailer, pageNum, ErrRateLimited)
			return
		}
		reqErr = err
	})

	searchURL := fmt.Sprintf("%s/search?q=%s&page=%d", s.baseURL, url.QueryEscape(query), pageNum)
	visitErr := col.Visit(searchURL)
	col.Wait()

	// OnError fires alongside Visit's own return value; the mapped error
	// wins so a 429 always surfaces as ErrRateLimited.
	if reqErr != nil {
		return Page{}, reqErr
	}
	if visitErr != nil {
		return Page{}, visitErr
	}
	return page, nil
}
