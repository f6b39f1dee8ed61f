package models

import (
	"time"

	"github.com/google/uuid"
)

// Court is the court registry row this service reads. Only courts with a
// configured display board URL participate in scraping.
type Court struct {
	ID              uuid.UUID `json:"id"`
	CourtName       string    `json:"courtName"`
	CourtType       string    `json:"courtType"`
	City            *string   `json:"city"`
	DisplayBoardURL *string   `json:"displayBoardUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CourtBoardStatus is a court joined with its cache state, served by the
// scrape-status listing.
type CourtBoardStatus struct {
	ID              uuid.UUID  `json:"id"`
	CourtName       string     `json:"courtName"`
	CourtType       string     `json:"courtType"`
	City            *string    `json:"city"`
	DisplayBoardURL *string    `json:"displayBoardUrl"`
	CachedEntries   int        `json:"cachedEntries"`
	LastUpdated     *time.Time `json:"lastUpdated"`
	Freshness       string     `json:"freshness"`
}
