package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtdesk/courtboard-backend/models"
	"github.com/google/uuid"
)

// CourtService reads the court registry and hearing schedule the display
// board pipeline depends on. It never writes those tables; case and
// hearing management belongs to the rest of the application.
type CourtService struct {
	DB *sql.DB
}

// NewCourtService creates a court reader over the given database.
func NewCourtService(db *sql.DB) *CourtService {
	return &CourtService{DB: db}
}

// GetCourtByID returns one court, or nil when it does not exist.
func (s *CourtService) GetCourtByID(ctx context.Context, id uuid.UUID) (*models.Court, error) {
	var court models.Court
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, court_name, court_type, city, display_board_url, created_at, updated_at
		FROM courts
		WHERE id = $1
	`, id).Scan(
		&court.ID, &court.CourtName, &court.CourtType, &court.City,
		&court.DisplayBoardURL, &court.CreatedAt, &court.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query court: %w", err)
	}
	return &court, nil
}

// ListCourtsWithBoardURL returns every court configured for scraping,
// ordered by name.
func (s *CourtService) ListCourtsWithBoardURL(ctx context.Context) ([]models.Court, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, court_name, court_type, city, display_board_url, created_at, updated_at
		FROM courts
		WHERE display_board_url IS NOT NULL AND display_board_url <> ''
		ORDER BY court_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courts: %w", err)
	}
	defer rows.Close()

	var courts []models.Court
	for rows.Next() {
		var court models.Court
		if err := rows.Scan(
			&court.ID, &court.CourtName, &court.CourtType, &court.City,
			&court.DisplayBoardURL, &court.CreatedAt, &court.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan court: %w", err)
		}
		courts = append(courts, court)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courts: %w", err)
	}
	return courts, nil
}

// HearingsOn returns the user's hearings scheduled within the given day,
// joined with their case and court, ordered by hearing time.
func (s *CourtService) HearingsOn(ctx context.Context, userID uuid.UUID, day time.Time) ([]models.Hearing, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := s.DB.QueryContext(ctx, `
		SELECT h.id, h.case_id, h.hearing_date, h.hearing_time, h.hearing_type,
		       h.status, h.court_number, h.judge_name,
		       c.case_number, c.title, ct.id, ct.court_name
		FROM hearings h
		JOIN cases c ON c.id = h.case_id
		JOIN courts ct ON ct.id = c.court_id
		WHERE h.hearing_date >= $1 AND h.hearing_date < $2
		  AND c.owner_id = $3
		ORDER BY h.hearing_time ASC, h.hearing_date ASC
	`, dayStart, dayEnd, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hearings: %w", err)
	}
	defer rows.Close()

	var hearings []models.Hearing
	for rows.Next() {
		var hearing models.Hearing
		if err := rows.Scan(
			&hearing.ID, &hearing.CaseID, &hearing.HearingDate, &hearing.HearingTime,
			&hearing.HearingType, &hearing.Status, &hearing.CourtNumber, &hearing.JudgeName,
			&hearing.CaseNumber, &hearing.CaseTitle, &hearing.CourtID, &hearing.CourtName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan hearing: %w", err)
		}
		hearings = append(hearings, hearing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hearings: %w", err)
	}
	return hearings, nil
}

// TodaysHearings returns the user's hearings scheduled for today.
func (s *CourtService) TodaysHearings(ctx context.Context, userID uuid.UUID) ([]models.Hearing, error) {
	return s.HearingsOn(ctx, userID, time.Now())
}

// HearingRefs projects hearings down to the court/room references the
// display board viewer matches against, de-duplicated.
func HearingRefs(hearings []models.Hearing) []models.UserHearingRef {
	seen := make(map[string]struct{}, len(hearings))
	var refs []models.UserHearingRef
	for _, h := range hearings {
		key := h.CourtID.String() + "/" + h.CourtNumber
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		refs = append(refs, models.UserHearingRef{
			CourtID:     h.CourtID,
			CourtNumber: h.CourtNumber,
			CaseNumber:  h.CaseNumber,
			CaseTitle:   h.CaseTitle,
			CourtName:   h.CourtName,
		})
	}
	return refs
}

// DistinctCourtIDs returns the unique court ids among the hearings,
// preserving first-seen order.
func DistinctCourtIDs(hearings []models.Hearing) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(hearings))
	var ids []uuid.UUID
	for _, h := range hearings {
		if _, dup := seen[h.CourtID]; dup {
			continue
		}
		seen[h.CourtID] = struct{}{}
		ids = append(ids, h.CourtID)
	}
	return ids
}
