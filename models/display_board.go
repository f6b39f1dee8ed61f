package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Display board entry status values derived during parsing.
const (
	EntryStatusInProgress = "IN PROGRESS"
	EntryStatusWaiting    = "WAITING"
)

// DisplayBoardEntry is a single normalized row extracted from a court's
// display board page. Fields that carried a placeholder value on the
// source page (*, -, NA, empty) are nil.
type DisplayBoardEntry struct {
	CourtNumber string  `json:"courtNumber"`
	ItemNumber  *string `json:"itemNumber"`
	CaseNumber  *string `json:"caseNumber"`
	CaseTitle   *string `json:"caseTitle"`
	JudgeName   *string `json:"judgeName"`
	VCLink      *string `json:"vcLink"`
	Status      string  `json:"status"`
}

// DisplayBoardCacheRecord is the durable point-in-time snapshot of one
// (court, court room) pair. Uniqueness is enforced on (court_id, court_number).
type DisplayBoardCacheRecord struct {
	ID          uuid.UUID       `json:"id"`
	CourtID     uuid.UUID       `json:"courtId"`
	CourtNumber string          `json:"courtNumber"`
	ItemNumber  *string         `json:"itemNumber"`
	CaseNumber  *string         `json:"caseNumber"`
	CaseTitle   *string         `json:"caseTitle"`
	JudgeName   *string         `json:"judgeName"`
	Status      *string         `json:"status"`
	RawData     json.RawMessage `json:"rawData"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Freshness labels computed from a record's last_updated timestamp.
const (
	FreshnessFresh       = "Fresh"
	FreshnessStale       = "Stale"
	FreshnessOutdated    = "Outdated"
	FreshnessNeverSynced = "Never Synced"
)

// ClassifyFreshness buckets a cache timestamp the way the display-boards
// overview presents it: Fresh under 5 minutes, Stale under 30, Outdated
// beyond that, Never Synced when no record exists.
func ClassifyFreshness(lastUpdated *time.Time, now time.Time) string {
	if lastUpdated == nil {
		return FreshnessNeverSynced
	}
	age := now.Sub(*lastUpdated)
	switch {
	case age < 5*time.Minute:
		return FreshnessFresh
	case age < 30*time.Minute:
		return FreshnessStale
	default:
		return FreshnessOutdated
	}
}

// ScrapingResult reports the outcome of scraping one court's display board.
// It is returned to the caller and never persisted.
type ScrapingResult struct {
	CourtID      uuid.UUID `json:"courtId"`
	CourtName    string    `json:"courtName"`
	Success      bool      `json:"success"`
	EntriesCount int       `json:"entriesCount"`
	Error        string    `json:"error,omitempty"`
}

// ScrapeSummary aggregates a batch of scraping results.
type ScrapeSummary struct {
	Total        int `json:"total"`
	Successful   int `json:"successful"`
	Failed       int `json:"failed"`
	TotalEntries int `json:"totalEntries"`
}

// SummarizeResults computes the success/failure counts for a result list.
func SummarizeResults(results []ScrapingResult) ScrapeSummary {
	summary := ScrapeSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
			summary.TotalEntries += r.EntriesCount
		} else {
			summary.Failed++
		}
	}
	return summary
}

// DisplayUpdate is the event pushed to live subscribers whenever a court's
// board snapshot changes. The entry list is a full snapshot, not a delta.
type DisplayUpdate struct {
	Type      string              `json:"type"`
	CourtID   uuid.UUID           `json:"courtId"`
	CourtName string              `json:"courtName"`
	Entries   []DisplayBoardEntry `json:"entries"`
	Timestamp time.Time           `json:"timestamp"`
}
