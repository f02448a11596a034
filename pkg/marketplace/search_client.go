package marketplace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const defaultClientTimeout = 10 * time.Second

type SearchClientOptions struct {
	BaseURL  string
	Retailer string
	APIKey   string
	Timeout  time.Duration
}

// SearchClient implements SearchAPI against a JSON marketplace search API.
type SearchClient struct {
	http     *resty.Client
	retailer string
}

func NewSearchClient(opts SearchClientOptions) *SearchClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultClientTimeout
	}
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout)
	if opts.APIKey != "" {
		client.SetHeader("X-Api-Key", opts.APIKey)
	}
	return &SearchClient{http: client, retailer: opts.Retailer}
}

func (c *SearchClient) Search(ctx context.Context, query string, pageNum int) (Page, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("page", strconv.Itoa(pageNum)).
		Get("/search")
	if err != nil {
		return Page{}, fmt.Errorf("search page %d: %w", pageNum, err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return Page{}, fmt.Errorf("%s page %d: %w", c.retailer, pageNum, ErrRateLimited)
	}
	if resp.IsError() {
		return Page{}, fmt.Errorf("search page %d: status %d", pageNum, resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return Page{}, errors.New("malformed search payload")
	}

	root := gjson.ParseBytes(body)
	page := Page{TotalCount: int(root.Get("totalCount").Int())}

	root.Get("items").ForEach(func(_, item gjson.Result) bool {
		retailer := item.Get("retailer").String()
		if retailer == "" {
			retailer = c.retailer
		}

		var badges []string
		item.Get("badges").ForEach(func(_, badge gjson.Result) bool {
			badges = append(badges, badge.String())
			return true
		})

		page.Items = append(page.Items, RawResult{
			Title:             item.Get("title").String(),
			PriceText:         item.Get("price").String(),
			OriginalPriceText: item.Get("originalPrice").String(),
			URL:               item.Get("url").String(),
			ImageURL:          item.Get("image").String(),
			Rating:            item.Get("rating").Float(),
			ReviewCount:       int(item.Get("reviews").Int()),
			Badges:            badges,
			Retailer:          retailer,
			ExternalID:        item.Get("id").String(),
		})
		return true
	})

	return page, nil
}
