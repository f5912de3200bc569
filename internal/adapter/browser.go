package adapter

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"stripwijzer/pkg/errors"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// BrowserFetcher drives a headless-browser session per fetch:
// navigate, wait for the document, fixed settle delay, extract, close.
// The session is a scoped resource; every cancel func is deferred so it is
// released on all exit paths.
type BrowserFetcher struct {
	ExecPath   string
	NavTimeout time.Duration
	Settle     time.Duration
}

// NewBrowserFetcher creates a browser fetcher with the given timing policy.
// An empty execPath lets chromedp locate the browser itself.
func NewBrowserFetcher(execPath string, navTimeout, settle time.Duration) *BrowserFetcher {
	return &BrowserFetcher{ExecPath: execPath, NavTimeout: navTimeout, Settle: settle}
}

// FetchRendered loads the page in a headless browser and returns the
// rendered HTML.
func (f *BrowserFetcher) FetchRendered(ctx context.Context, supplier, url string) (io.Reader, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(browserUserAgent),
		chromedp.WindowSize(1280, 800),
	)
	if f.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	navCtx, cancelNav := context.WithTimeout(browserCtx, f.NavTimeout)
	defer cancelNav()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Sleep(f.Settle),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, errors.NewNavigation(supplier, "headless navigation failed for "+url, err)
	}

	if !strings.Contains(html, "<body") {
		return nil, errors.NewNavigation(supplier, "rendered page has no body: "+url, nil)
	}

	return strings.NewReader(html), nil
}
