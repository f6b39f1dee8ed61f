package services

import (
	"context"
	"sync"
	"time"

	"github.com/courtdesk/courtboard-backend/models"
	"github.com/courtdesk/courtboard-backend/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// noEntriesError is the failure message when a page fetched fine but the
// strategy extracted nothing. Distinct from transport failures so operators
// can tell "site is down" apart from "site changed layout".
const noEntriesError = "No entries found - page structure may be different"

// PageFetcher retrieves raw HTML for a display board URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, config ParserConfig) FetchResult
}

// EntryUpserter persists one parsed entry for a court.
type EntryUpserter interface {
	Upsert(ctx context.Context, courtID uuid.UUID, entry models.DisplayBoardEntry) error
}

// BoardPublisher receives the full fresh snapshot for a court after a
// successful scrape. Implementations must not block the scrape path.
type BoardPublisher interface {
	PublishBoardUpdate(courtID uuid.UUID, courtName string, entries []models.DisplayBoardEntry)
}

// ScrapeOrchestrator drives fetch, parse and persist for one or many
// courts. Courts within a batch run concurrently; batches run one after
// another so a long court list never floods outbound connections. One
// court's failure is data in its result, never an abort of its siblings.
type ScrapeOrchestrator struct {
	detector  *FormatDetector
	parser    *BoardParser
	fetcher   PageFetcher
	cache     EntryUpserter
	publisher BoardPublisher
	metrics   *shared.ServiceMetrics
	batchSize int
}

// NewScrapeOrchestrator wires the scrape pipeline. publisher may be nil
// when no live distribution is attached.
func NewScrapeOrchestrator(detector *FormatDetector, parser *BoardParser, fetcher PageFetcher, cache EntryUpserter, publisher BoardPublisher, batchSize int) *ScrapeOrchestrator {
	if batchSize <= 0 {
		batchSize = 3
	}
	return &ScrapeOrchestrator{
		detector:  detector,
		parser:    parser,
		fetcher:   fetcher,
		cache:     cache,
		publisher: publisher,
		metrics:   shared.NewServiceMetrics("scrape-orchestrator"),
		batchSize: batchSize,
	}
}

// ScrapeOne scrapes a single court's display board. An empty urlOverride
// uses the court's configured URL. Nothing is persisted unless the fetch
// and parse both succeed.
func (o *ScrapeOrchestrator) ScrapeOne(ctx context.Context, court models.Court, urlOverride string) models.ScrapingResult {
	started := time.Now()
	result := o.scrapeOne(ctx, court, urlOverride)
	o.metrics.RecordRequest(result.Success, time.Since(started))

	logger := logrus.WithFields(logrus.Fields{
		"court_id":   result.CourtID,
		"court_name": result.CourtName,
		"entries":    result.EntriesCount,
	})
	if result.Success {
		logger.Info("Display board scrape succeeded")
	} else {
		logger.WithField("error", result.Error).Warn("Display board scrape failed")
	}

	return result
}

func (o *ScrapeOrchestrator) scrapeOne(ctx context.Context, court models.Court, urlOverride string) models.ScrapingResult {
	failed := func(message string) models.ScrapingResult {
		return models.ScrapingResult{
			CourtID:   court.ID,
			CourtName: court.CourtName,
			Success:   false,
			Error:     message,
		}
	}

	url := urlOverride
	if url == "" {
		if court.DisplayBoardURL == nil || *court.DisplayBoardURL == "" {
			return failed("No display board URL configured for this court")
		}
		url = *court.DisplayBoardURL
	}

	config := o.detector.Detect(url)

	fetch := o.fetcher.Fetch(ctx, url, config)
	if !fetch.OK {
		category := shared.ErrorCategoryNetwork
		if fetch.StatusCode > 0 {
			category = shared.ErrorCategoryProtocol
		}
		shared.NewServiceError(category, fetch.Message, "scrape-orchestrator", "fetch", nil).LogError()
		return failed(fetch.Message)
	}

	entries := o.parser.Parse(fetch.HTML, config)
	if len(entries) == 0 {
		shared.NewServiceError(shared.ErrorCategoryParseEmpty, noEntriesError, "scrape-orchestrator", "parse", nil).LogError()
		return failed(noEntriesError)
	}

	for _, entry := range entries {
		if err := o.cache.Upsert(ctx, court.ID, entry); err != nil {
			shared.NewServiceError(shared.ErrorCategoryDatabase, err.Error(), "scrape-orchestrator", "upsert", err).LogError()
			return failed(err.Error())
		}
	}

	if o.publisher != nil {
		o.publisher.PublishBoardUpdate(court.ID, court.CourtName, entries)
	}

	return models.ScrapingResult{
		CourtID:      court.ID,
		CourtName:    court.CourtName,
		Success:      true,
		EntriesCount: len(entries),
	}
}

// ScrapeMany scrapes the courts in fixed-size batches, concurrently within
// each batch. The result list has exactly one entry per input court, in
// input order.
func (o *ScrapeOrchestrator) ScrapeMany(ctx context.Context, courts []models.Court) []models.ScrapingResult {
	results := make([]models.ScrapingResult, len(courts))

	for start := 0; start < len(courts); start += o.batchSize {
		end := start + o.batchSize
		if end > len(courts) {
			end = len(courts)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				results[index] = o.ScrapeOne(ctx, courts[index], "")
			}(i)
		}
		wg.Wait()
	}

	summary := models.SummarizeResults(results)
	logrus.WithFields(logrus.Fields{
		"total":         summary.Total,
		"successful":    summary.Successful,
		"failed":        summary.Failed,
		"total_entries": summary.TotalEntries,
		"batch_size":    o.batchSize,
	}).Info("Display board scrape batch completed")

	return results
}

// Metrics exposes the orchestrator's running counters.
func (o *ScrapeOrchestrator) Metrics() *shared.ServiceMetrics {
	return o.metrics
}
