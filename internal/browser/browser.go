// Package browser drives a headful Chrome instance through the DevTools
// protocol. The browser is started lazily on first use and shared by
// the whole process; a mutex makes the one-caller-at-a-time assumption
// explicit.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// actionTimeout bounds every individual browser operation so a hung
// page never wedges a turn.
const actionTimeout = 30 * time.Second

type Control struct {
	mu       sync.Mutex
	allocCtx context.Context
	browser  context.Context
	cancels  []context.CancelFunc
}

func New() *Control { return &Control{} }

// ensure starts Chrome on first use.
func (c *Control) ensure() error {
	if c.browser != nil {
		return nil
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Navigating about:blank forces the process to actually launch,
	// surfacing a missing Chrome install here instead of mid-command.
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		cancelBrowser()
		cancelAlloc()
		return fmt.Errorf("start browser: %w", err)
	}
	c.allocCtx = allocCtx
	c.browser = browserCtx
	c.cancels = []context.CancelFunc{cancelBrowser, cancelAlloc}
	return nil
}

func (c *Control) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := c.ensure(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(c.browser, actionTimeout)
	defer cancel()
	// Honor the caller's deadline if it is sooner.
	if dl, ok := ctx.Deadline(); ok && dl.Before(time.Now().Add(actionTimeout)) {
		runCtx, cancel = context.WithDeadline(c.browser, dl)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

// OpenURL navigates the shared tab.
func (c *Control) OpenURL(ctx context.Context, target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.run(ctx, chromedp.Navigate(target)); err != nil {
		return fmt.Errorf("navigate %s: %w", target, err)
	}
	return nil
}

var searchURLs = map[string]string{
	"google":  "https://www.google.com/search?q=%s",
	"youtube": "https://www.youtube.com/results?search_query=%s",
	"spotify": "https://open.spotify.com/search/%s",
	"amazon":  "https://www.amazon.ca/s?k=%s",
	"bestbuy": "https://www.bestbuy.ca/en-ca/search?search=%s",
	"walmart": "https://www.walmart.ca/search?q=%s",
}

// Search opens the site's search results for the query.
func (c *Control) Search(ctx context.Context, site, query string) error {
	pattern, ok := searchURLs[site]
	if !ok {
		pattern = searchURLs["google"]
	}
	return c.OpenURL(ctx, fmt.Sprintf(pattern, url.QueryEscape(query)))
}

// PlayYouTube opens the search results and clicks the first video.
func (c *Control) PlayYouTube(ctx context.Context, query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := fmt.Sprintf(searchURLs["youtube"], url.QueryEscape(query))
	err := c.run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitVisible(`ytd-video-renderer a#thumbnail`, chromedp.ByQuery),
		chromedp.Click(`ytd-video-renderer a#thumbnail`, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("play on youtube: %w", err)
	}
	return nil
}

// priceSelectors are the per-retailer nodes the comparison scrapes.
var priceSelectors = map[string]string{
	"amazon":  `span.a-price span.a-offscreen`,
	"bestbuy": `[data-automation="product-price"]`,
	"walmart": `[data-automation="product-price"] span`,
}

// LookupPrice searches the retailer and extracts the first visible
// price. Implements shopping.PriceSource.
func (c *Control) LookupPrice(ctx context.Context, retailer, product string) (string, error) {
	pattern, ok := searchURLs[retailer]
	if !ok {
		return "", fmt.Errorf("unknown retailer %q", retailer)
	}
	selector, ok := priceSelectors[retailer]
	if !ok {
		return "", fmt.Errorf("no price selector for %q", retailer)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var price string
	err := c.run(ctx,
		chromedp.Navigate(fmt.Sprintf(pattern, url.QueryEscape(product))),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Text(selector, &price, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("lookup on %s: %w", retailer, err)
	}
	return strings.TrimSpace(price), nil
}

// Close tears the browser down.
func (c *Control) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cancel := range c.cancels {
		cancel()
	}
	c.browser = nil
	c.cancels = nil
}
