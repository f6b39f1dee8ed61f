package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/courtdesk/courtboard-backend/models"
	"github.com/google/uuid"
)

type stubFetcher struct {
	mu        sync.Mutex
	inFlight  int
	maxSeen   int
	delay     time.Duration
	responses map[string]FetchResult
	fallback  FetchResult
}

func (f *stubFetcher) Fetch(_ context.Context, url string, _ ParserConfig) FetchResult {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if result, ok := f.responses[url]; ok {
		return result
	}
	return f.fallback
}

type memoryUpserter struct {
	mu      sync.Mutex
	upserts map[string][]models.DisplayBoardEntry
	failErr error
}

func newMemoryUpserter() *memoryUpserter {
	return &memoryUpserter{upserts: make(map[string][]models.DisplayBoardEntry)}
}

func (m *memoryUpserter) Upsert(_ context.Context, courtID uuid.UUID, entry models.DisplayBoardEntry) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts[courtID.String()] = append(m.upserts[courtID.String()], entry)
	return nil
}

func (m *memoryUpserter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, entries := range m.upserts {
		total += len(entries)
	}
	return total
}

type capturePublisher struct {
	mu      sync.Mutex
	updates []models.DisplayUpdate
}

func (p *capturePublisher) PublishBoardUpdate(courtID uuid.UUID, courtName string, entries []models.DisplayBoardEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, models.DisplayUpdate{
		CourtID:   courtID,
		CourtName: courtName,
		Entries:   entries,
	})
}

func testCourt(name, url string) models.Court {
	return models.Court{
		ID:              uuid.New(),
		CourtName:       name,
		DisplayBoardURL: &url,
	}
}

const workingBoardHTML = `<html><body><table><tbody>
<tr><td>Court</td><td>Item</td><td>Case</td><td>Title</td><td>Judge</td></tr>
<tr><td>1</td><td>5</td><td>C-1</td><td>A vs B</td><td>Judge J</td></tr>
<tr><td>2</td><td>*</td><td>C-2</td><td>C vs D</td><td>Judge K</td></tr>
</tbody></table></body></html>`

func newTestOrchestrator(fetcher PageFetcher, cache EntryUpserter, publisher BoardPublisher, batchSize int) *ScrapeOrchestrator {
	return NewScrapeOrchestrator(NewFormatDetector(), NewBoardParser(), fetcher, cache, publisher, batchSize)
}

func TestScrapeOneFetchFailureHasNoSideEffects(t *testing.T) {
	court := testCourt("Test High Court", "https://court-a.example.com/board")
	fetcher := &stubFetcher{
		responses: map[string]FetchResult{},
		fallback:  FetchResult{OK: false, StatusCode: 503, Message: "HTTP 503: Service Unavailable"},
	}
	cache := newMemoryUpserter()
	publisher := &capturePublisher{}
	orchestrator := newTestOrchestrator(fetcher, cache, publisher, 3)

	result := orchestrator.ScrapeOne(context.Background(), court, "")

	if result.Success {
		t.Fatalf("expected failed result")
	}
	if result.Error != "HTTP 503: Service Unavailable" {
		t.Errorf("unexpected error message: %q", result.Error)
	}
	if result.EntriesCount != 0 {
		t.Errorf("failed scrape must report zero entries, got %d", result.EntriesCount)
	}
	if cache.count() != 0 {
		t.Errorf("failed scrape must not upsert, found %d upserts", cache.count())
	}
	if len(publisher.updates) != 0 {
		t.Errorf("failed scrape must not publish, found %d updates", len(publisher.updates))
	}
}

func TestScrapeOneEmptyPageIsDistinctFailure(t *testing.T) {
	court := testCourt("Empty Court", "https://court-b.example.com/board")
	fetcher := &stubFetcher{fallback: FetchResult{OK: true, HTML: "<html><body><p>maintenance</p></body></html>"}}
	cache := newMemoryUpserter()
	orchestrator := newTestOrchestrator(fetcher, cache, nil, 3)

	result := orchestrator.ScrapeOne(context.Background(), court, "")

	if result.Success {
		t.Fatalf("expected failed result for an entry-less page")
	}
	if result.Error != noEntriesError {
		t.Errorf("expected layout-drift message, got %q", result.Error)
	}
	if cache.count() != 0 {
		t.Errorf("empty parse must not upsert")
	}
}

func TestScrapeOneMissingURL(t *testing.T) {
	court := models.Court{ID: uuid.New(), CourtName: "Unconfigured Court"}
	orchestrator := newTestOrchestrator(&stubFetcher{}, newMemoryUpserter(), nil, 3)

	result := orchestrator.ScrapeOne(context.Background(), court, "")

	if result.Success {
		t.Fatalf("court without a board URL cannot scrape successfully")
	}
	if result.Error != "No display board URL configured for this court" {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}

func TestScrapeOnePersistsAndPublishes(t *testing.T) {
	court := testCourt("Working Court", "https://court-c.example.com/board")
	fetcher := &stubFetcher{fallback: FetchResult{OK: true, HTML: workingBoardHTML}}
	cache := newMemoryUpserter()
	publisher := &capturePublisher{}
	orchestrator := newTestOrchestrator(fetcher, cache, publisher, 3)

	result := orchestrator.ScrapeOne(context.Background(), court, "")

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.EntriesCount != 2 {
		t.Errorf("expected 2 entries, got %d", result.EntriesCount)
	}
	if cache.count() != 2 {
		t.Errorf("expected 2 upserts, got %d", cache.count())
	}
	if len(publisher.updates) != 1 {
		t.Fatalf("expected exactly one published update, got %d", len(publisher.updates))
	}
	update := publisher.updates[0]
	if update.CourtID != court.ID || update.CourtName != court.CourtName {
		t.Errorf("published update carries wrong court identity")
	}
	if len(update.Entries) != 2 {
		t.Errorf("published snapshot must carry the full entry list")
	}
}

func TestScrapeOneUpsertFailureFailsThatCourt(t *testing.T) {
	court := testCourt("DB Trouble Court", "https://court-d.example.com/board")
	fetcher := &stubFetcher{fallback: FetchResult{OK: true, HTML: workingBoardHTML}}
	cache := newMemoryUpserter()
	cache.failErr = fmt.Errorf("connection reset")
	publisher := &capturePublisher{}
	orchestrator := newTestOrchestrator(fetcher, cache, publisher, 3)

	result := orchestrator.ScrapeOne(context.Background(), court, "")

	if result.Success {
		t.Fatalf("persistence failure must fail the court's result")
	}
	if len(publisher.updates) != 0 {
		t.Errorf("no publish after persistence failure")
	}
}

func TestScrapeManyPreservesOneResultPerCourt(t *testing.T) {
	var courts []models.Court
	responses := make(map[string]FetchResult)
	for i := 0; i < 7; i++ {
		url := fmt.Sprintf("https://court-%d.example.com/board", i)
		courts = append(courts, testCourt(fmt.Sprintf("Court %d", i), url))
		if i%2 == 0 {
			responses[url] = FetchResult{OK: true, HTML: workingBoardHTML}
		} else {
			responses[url] = FetchResult{OK: false, Message: "connection refused"}
		}
	}
	fetcher := &stubFetcher{responses: responses}
	orchestrator := newTestOrchestrator(fetcher, newMemoryUpserter(), nil, 3)

	results := orchestrator.ScrapeMany(context.Background(), courts)

	if len(results) != len(courts) {
		t.Fatalf("expected %d results, got %d", len(courts), len(results))
	}
	for i, result := range results {
		if result.CourtID != courts[i].ID {
			t.Errorf("result %d out of order: got court %s", i, result.CourtName)
		}
		wantSuccess := i%2 == 0
		if result.Success != wantSuccess {
			t.Errorf("result %d: success=%v, want %v (error %q)", i, result.Success, wantSuccess, result.Error)
		}
	}

	summary := models.SummarizeResults(results)
	if summary.Total != 7 || summary.Successful != 4 || summary.Failed != 3 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestScrapeManyBoundsConcurrency(t *testing.T) {
	var courts []models.Court
	for i := 0; i < 7; i++ {
		courts = append(courts, testCourt(fmt.Sprintf("Court %d", i), fmt.Sprintf("https://court-%d.example.com/board", i)))
	}
	fetcher := &stubFetcher{
		delay:    20 * time.Millisecond,
		fallback: FetchResult{OK: true, HTML: workingBoardHTML},
	}
	orchestrator := newTestOrchestrator(fetcher, newMemoryUpserter(), nil, 3)

	orchestrator.ScrapeMany(context.Background(), courts)

	if fetcher.maxSeen > 3 {
		t.Errorf("batch size 3 exceeded: saw %d concurrent fetches", fetcher.maxSeen)
	}
	if fetcher.maxSeen < 2 {
		t.Errorf("fetches within a batch should overlap, max concurrency was %d", fetcher.maxSeen)
	}
}
