// Package marketplace holds the external search and affiliate collaborators
// the ingestion pipeline consumes, plus HTTP implementations of both.
package marketplace

import (
	"context"
	"errors"
)

// ErrRateLimited is the quota signal. The pipeline checks for it with
// errors.Is; any other search failure is an ordinary page failure.
var ErrRateLimited = errors.New("marketplace: rate limited")

// RawResult is one unprocessed marketplace search hit. Price fields stay as
// the source's free text; parsing happens downstream.
type RawResult struct {
	Title             string
	PriceText         string
	OriginalPriceText string
	URL               string
	ImageURL          string
	Rating            float64
	ReviewCount       int
	Badges            []string
	Retailer          string
	ExternalID        string
}

type Page struct {
	Items      []RawResult
	TotalCount int
}

type SearchAPI interface {
	Search(ctx context.Context, query string, page int) (Page, error)
}

// AffiliateConverter rewrites offer URLs through the affiliate service. A
// URL missing from the returned map means "use the original". Callers treat
// the whole operation as best-effort.
type AffiliateConverter interface {
	Convert(ctx context.Context, urls []string) (map[string]string, error)
}
