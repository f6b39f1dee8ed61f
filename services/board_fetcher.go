package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/courtdesk/courtboard-backend/shared"
	"github.com/sirupsen/logrus"
)

// FetchResult is the value-typed outcome of fetching one display board
// page. A fetch never fails with an error: transport and protocol problems
// are reported in Message so the orchestrator can fold them into a
// ScrapingResult without unwinding the batch.
type FetchResult struct {
	OK         bool
	HTML       string
	StatusCode int
	Message    string
}

// BoardFetcher retrieves raw display board HTML. Plain pages go through a
// single HTTP GET; boards whose tables are drawn client-side are rendered
// by the headless renderer first.
type BoardFetcher struct {
	clientFactory *shared.HTTPClientFactory
	renderer      *BoardRenderer
	timeout       time.Duration
}

// NewBoardFetcher creates a fetcher with the given per-request timeout.
// The renderer may be nil when headless rendering is unavailable; RequiresJS
// boards then fall back to the plain GET.
func NewBoardFetcher(clientFactory *shared.HTTPClientFactory, renderer *BoardRenderer, timeout time.Duration) *BoardFetcher {
	return &BoardFetcher{
		clientFactory: clientFactory,
		renderer:      renderer,
		timeout:       timeout,
	}
}

// Fetch performs a single attempt against the URL. No retries here: the
// orchestrator treats a failed court as failed until the next run.
func (f *BoardFetcher) Fetch(ctx context.Context, url string, config ParserConfig) FetchResult {
	if config.RequiresJS && f.renderer != nil {
		return f.renderer.Render(ctx, url)
	}
	return f.fetchStatic(ctx, url)
}

func (f *BoardFetcher) fetchStatic(ctx context.Context, url string) FetchResult {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{OK: false, Message: fmt.Sprintf("invalid request: %v", err)}
	}
	shared.SetBrowserLikeHeaders(request, "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")

	client := f.clientFactory.ClientWithTimeout(f.timeout)
	response, err := client.Do(request)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "BoardFetcher",
			"url":       url,
			"error":     err,
		}).Warn("Display board fetch failed at transport level")
		return FetchResult{OK: false, Message: err.Error()}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return FetchResult{
			OK:         false,
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", response.StatusCode, http.StatusText(response.StatusCode)),
		}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return FetchResult{OK: false, Message: fmt.Sprintf("failed to read response body: %v", err)}
	}

	logrus.WithFields(logrus.Fields{
		"component": "BoardFetcher",
		"url":       url,
		"bytes":     len(body),
	}).Debug("Fetched display board page")

	return FetchResult{OK: true, HTML: string(body), StatusCode: response.StatusCode}
}
