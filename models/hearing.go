package models

import (
	"time"

	"github.com/google/uuid"
)

// Hearing is a scheduled hearing row joined with its case and court.
// The display board viewer only needs enough of the join to know which
// court rooms matter to the user today.
type Hearing struct {
	ID          uuid.UUID `json:"id"`
	CaseID      uuid.UUID `json:"caseId"`
	HearingDate time.Time `json:"hearingDate"`
	HearingTime *string   `json:"hearingTime"`
	HearingType string    `json:"hearingType"`
	Status      string    `json:"status"`
	CourtNumber string    `json:"courtNumber"`
	JudgeName   *string   `json:"judgeName"`
	CaseNumber  string    `json:"caseNumber"`
	CaseTitle   string    `json:"caseTitle"`
	CourtID     uuid.UUID `json:"courtId"`
	CourtName   string    `json:"courtName"`
}

// UserHearingRef is the slice of a hearing the display board needs to
// highlight the viewer's own cases on a live board.
type UserHearingRef struct {
	CourtID     uuid.UUID `json:"courtId"`
	CourtNumber string    `json:"courtNumber"`
	CaseNumber  string    `json:"caseNumber"`
	CaseTitle   string    `json:"caseTitle"`
	CourtName   string    `json:"courtName"`
}
