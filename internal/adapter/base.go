package adapter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stripwijzer/helpers"
	"stripwijzer/pkg/errors"
	"stripwijzer/services/cache"
)

// docCacheTTL bounds how long a fetched document is reused across the three
// capability calls of one scrape pass, so a target's page is loaded once.
const docCacheTTL = 30 * time.Second

// BaseAdapter provides common fetch functionality for all adapters
type BaseAdapter struct {
	SupplierName string
	CacheKey     string
	CacheSvc     cache.CacheService
	BlockTime    time.Duration
	UseBrowser   bool
	Browser      *BrowserFetcher

	cachedDoc   *goquery.Document
	cachedURL   string
	cachedDocAt time.Time
}

// Supplier returns the adapter's supplier name
func (a *BaseAdapter) Supplier() string {
	return a.SupplierName
}

// document fetches and parses the target page, reusing the parsed document
// across the capability calls of one scrape pass.
func (a *BaseAdapter) document(ctx context.Context, url string) (*goquery.Document, error) {
	if a.cachedDoc != nil && a.cachedURL == url && time.Since(a.cachedDocAt) < docCacheTTL {
		return a.cachedDoc, nil
	}

	body, err := a.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing(a.SupplierName, "failed to parse HTML from "+url, err)
	}

	a.cachedDoc = doc
	a.cachedURL = url
	a.cachedDocAt = time.Now()
	return doc, nil
}

// fetch loads the page, checking the block window first and choosing plain
// HTTP or the headless browser per the adapter's configuration.
func (a *BaseAdapter) fetch(ctx context.Context, url string) (io.Reader, error) {
	if a.CacheSvc != nil && a.CacheKey != "" {
		if _, err := a.CacheSvc.Get(a.CacheKey); err == nil {
			return nil, errors.NewNetwork(a.SupplierName,
				fmt.Sprintf("blocked for %d more seconds at most", int(a.BlockTime/time.Second)), nil)
		}
	}

	if a.UseBrowser && a.Browser != nil {
		return a.Browser.FetchRendered(ctx, a.SupplierName, url)
	}

	body, err := helpers.FetchWithRandomHeaders(url)
	if err != nil {
		if strings.HasPrefix(err.Error(), "rate limited") && a.CacheSvc != nil && a.CacheKey != "" {
			// Open a block window so the next run backs off from this source
			if setErr := a.CacheSvc.Set(a.CacheKey, []byte(fmt.Sprintf("%d", int(a.BlockTime/time.Second))), a.BlockTime); setErr != nil {
				return nil, errors.NewNetwork(a.SupplierName, "failed to set block window", setErr)
			}
		}
		return nil, errors.NewNetwork(a.SupplierName, "failed to fetch "+url, err)
	}

	return body, nil
}
