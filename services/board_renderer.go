package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/courtdesk/courtboard-backend/shared"
	"github.com/sirupsen/logrus"
)

// BoardRenderer loads JS-drawn display boards in headless Chrome and hands
// back the rendered HTML. Renders are paced through a rate limiter: each one
// spins up a full browser context, so they run one at a time even when the
// surrounding scrape batch is concurrent.
type BoardRenderer struct {
	rateLimiter *shared.RenderRateLimiter
	timeout     time.Duration
}

// NewBoardRenderer creates a renderer with the given per-render timeout and
// minimum delay between renders.
func NewBoardRenderer(timeout, minimumDelay time.Duration) *BoardRenderer {
	return &BoardRenderer{
		rateLimiter: shared.NewRenderRateLimiter(minimumDelay),
		timeout:     timeout,
	}
}

// Render navigates to the URL, waits for the board table to appear and
// returns the rendered document. Failures come back as values, matching the
// static fetch path.
func (r *BoardRenderer) Render(ctx context.Context, url string) FetchResult {
	r.rateLimiter.Wait()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-images", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(1920, 1080),
		chromedp.Navigate(url),
		chromedp.WaitVisible("table tr", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "BoardRenderer",
			"url":       url,
			"error":     err,
		}).Warn("Headless render of display board failed")
		return FetchResult{OK: false, Message: fmt.Sprintf("headless render failed: %v", err)}
	}

	logrus.WithFields(logrus.Fields{
		"component": "BoardRenderer",
		"url":       url,
		"bytes":     len(html),
	}).Debug("Rendered JS-drawn display board page")

	return FetchResult{OK: true, HTML: html, StatusCode: 200}
}
