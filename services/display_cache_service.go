package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courtdesk/courtboard-backend/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// DisplayCacheService persists point-in-time display board snapshots.
// Identity is (court_id, court_number); every upsert refreshes last_updated.
// Records are never deleted here; readers classify freshness themselves.
type DisplayCacheService struct {
	DB *sql.DB
}

// NewDisplayCacheService creates a cache service over the given database.
func NewDisplayCacheService(db *sql.DB) *DisplayCacheService {
	return &DisplayCacheService{DB: db}
}

// Upsert writes one parsed entry for a court. Calling it twice with the
// same data only moves last_updated forward.
func (s *DisplayCacheService) Upsert(ctx context.Context, courtID uuid.UUID, entry models.DisplayBoardEntry) error {
	rawData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry raw data: %w", err)
	}

	query := `
		INSERT INTO display_board_cache (
			court_id, court_number, item_number, case_number,
			case_title, judge_name, status, raw_data, last_updated
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, CURRENT_TIMESTAMP
		)
		ON CONFLICT (court_id, court_number) DO UPDATE SET
			item_number = EXCLUDED.item_number,
			case_number = EXCLUDED.case_number,
			case_title = EXCLUDED.case_title,
			judge_name = EXCLUDED.judge_name,
			status = EXCLUDED.status,
			raw_data = EXCLUDED.raw_data,
			last_updated = CURRENT_TIMESTAMP;
	`

	_, err = s.DB.ExecContext(ctx, query,
		courtID, entry.CourtNumber, entry.ItemNumber, entry.CaseNumber,
		entry.CaseTitle, entry.JudgeName, entry.Status, rawData,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert display board entry: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"court_id":     courtID,
		"court_number": entry.CourtNumber,
		"status":       entry.Status,
	}).Debug("Upserted display board cache entry")

	return nil
}

// GetEntries returns the cached entries for a court, optionally narrowed to
// one court room, ordered by court number.
func (s *DisplayCacheService) GetEntries(ctx context.Context, courtID uuid.UUID, courtNumber string) ([]models.DisplayBoardCacheRecord, error) {
	query := `
		SELECT id, court_id, court_number, item_number, case_number,
		       case_title, judge_name, status, raw_data, last_updated
		FROM display_board_cache
		WHERE court_id = $1
	`
	args := []interface{}{courtID}
	if courtNumber != "" {
		query += " AND court_number = $2"
		args = append(args, courtNumber)
	}
	query += " ORDER BY court_number ASC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query display board cache: %w", err)
	}
	defer rows.Close()

	return scanCacheRecords(rows)
}

// GetEntriesForCourts returns cached entries for a set of courts, ordered
// by court then court number. An empty id set yields no rows.
func (s *DisplayCacheService) GetEntriesForCourts(ctx context.Context, courtIDs []uuid.UUID) ([]models.DisplayBoardCacheRecord, error) {
	if len(courtIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(courtIDs))
	for i, id := range courtIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id, court_id, court_number, item_number, case_number,
		       case_title, judge_name, status, raw_data, last_updated
		FROM display_board_cache
		WHERE court_id = ANY($1)
		ORDER BY court_id ASC, court_number ASC
	`

	rows, err := s.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query display board cache: %w", err)
	}
	defer rows.Close()

	return scanCacheRecords(rows)
}

// LatestUpdate returns the most recent last_updated for a court, or nil
// when the court has never been synced.
func (s *DisplayCacheService) LatestUpdate(ctx context.Context, courtID uuid.UUID) (*time.Time, error) {
	var latest sql.NullTime
	err := s.DB.QueryRowContext(ctx,
		`SELECT MAX(last_updated) FROM display_board_cache WHERE court_id = $1`,
		courtID,
	).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest cache update: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

// CountEntries returns how many court rooms a court has cached.
func (s *DisplayCacheService) CountEntries(ctx context.Context, courtID uuid.UUID) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM display_board_cache WHERE court_id = $1`,
		courtID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

func scanCacheRecords(rows *sql.Rows) ([]models.DisplayBoardCacheRecord, error) {
	var records []models.DisplayBoardCacheRecord
	for rows.Next() {
		var record models.DisplayBoardCacheRecord
		if err := rows.Scan(
			&record.ID, &record.CourtID, &record.CourtNumber,
			&record.ItemNumber, &record.CaseNumber, &record.CaseTitle,
			&record.JudgeName, &record.Status, &record.RawData,
			&record.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cache record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cache records: %w", err)
	}
	return records, nil
}
