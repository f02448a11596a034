package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// AffiliateClient implements AffiliateConverter against the affiliate
// rewrite service. Errors are returned as-is; deciding that rewriting is
// best-effort belongs to the caller.
type AffiliateClient struct {
	http *resty.Client
}

func NewAffiliateClient(baseURL string, timeout time.Duration) *AffiliateClient {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &AffiliateClient{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

func (c *AffiliateClient) Convert(ctx context.Context, urls []string) (map[string]string, error) {
	links := map[string]string{}
	if len(urls) == 0 {
		return links, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"urls": urls}).
		Post("/convert")
	if err != nil {
		return nil, fmt.Errorf("affiliate convert: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("affiliate convert: status %d", resp.StatusCode())
	}

	gjson.GetBytes(resp.Body(), "links").ForEach(func(key, value gjson.Result) bool {
		if value.String() != "" {
			links[key.String()] = value.String()
		}
		return true
	})
	return links, nil
}
