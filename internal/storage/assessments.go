package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/service"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const defaultListLimit = 50

var writeRetry = common.RetryOptions{
	MaxAttempts:  4,
	InitialDelay: 25 * time.Millisecond,
	MaxDelay:     500 * time.Millisecond,
	Multiplier:   2,
}

// SaveAssessment persists a single assessment. A missing ID or creation time is filled in.
func (s *SQLiteStorage) SaveAssessment(ctx context.Context, record *model.AssessmentRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}
	stampRecord(record, time.Now())

	return common.WithRetry(ctx, func() error {
		return classifyError(s.insertAssessment(ctx, s.db, record))
	}, writeRetry)
}

// SaveComparison persists ranked assessments as one comparison and returns its ID.
func (s *SQLiteStorage) SaveComparison(ctx context.Context, fieldID string, ranked []model.RankedAssessment) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if len(ranked) == 0 {
		return "", fmt.Errorf("%w: ranked assessments", ErrEmptySlice)
	}

	now := time.Now()
	comparisonID := uuid.NewString()
	records := make([]model.AssessmentRecord, len(ranked))
	for i, r := range ranked {
		records[i] = model.AssessmentRecord{
			FieldID:      fieldID,
			ComparisonID: comparisonID,
			Assessment:   r.SoilHealthAssessment,
			Rank:         r.Rank,
		}
		if err := validateRecord(&records[i]); err != nil {
			return "", fmt.Errorf("ranked assessment %d: %w", i+1, err)
		}
		stampRecord(&records[i], now)
	}

	err := common.WithRetry(ctx, func() error {
		return classifyError(s.insertComparison(ctx, comparisonID, fieldID, now, records))
	}, writeRetry)
	if err != nil {
		return "", err
	}
	return comparisonID, nil
}

func (s *SQLiteStorage) insertComparison(ctx context.Context, id, fieldID string, createdAt time.Time, records []model.AssessmentRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comparisons (id, field_id, candidate_count, created_at)
		VALUES (?, ?, ?, ?)
	`, id, fieldID, len(records), createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save comparison: %w", err)
	}

	for i := range records {
		if err := s.insertAssessment(ctx, tx, &records[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) insertAssessment(ctx context.Context, q queryable, record *model.AssessmentRecord) error {
	payload, err := json.Marshal(record.Assessment)
	if err != nil {
		return fmt.Errorf("failed to encode assessment: %w", err)
	}

	var comparisonID sql.NullString
	if record.ComparisonID != "" {
		comparisonID = sql.NullString{String: record.ComparisonID, Valid: true}
	}

	a := record.Assessment
	_, err = q.ExecContext(ctx, `
		INSERT INTO assessments (
			id, field_id, fertilizer_key, fertilizer_name, overall_score, overall_rating,
			risk_level, confidence, assessment_date, payload, created_at, comparison_id, rank
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID, record.FieldID, a.Fertilizer.Key, a.DisplayName(), a.OverallScore, string(a.OverallRating),
		string(a.RiskLevel), a.Confidence, a.AssessmentDate.UTC(), string(payload), record.CreatedAt.UTC(),
		comparisonID, record.Rank,
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// GetAssessment retrieves an assessment by ID.
func (s *SQLiteStorage) GetAssessment(ctx context.Context, id string) (*model.AssessmentRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, selectAssessments+` WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListAssessments returns assessments newest first, optionally filtered by field or
// fertilizer. Assessments from one comparison are returned in rank order.
func (s *SQLiteStorage) ListAssessments(ctx context.Context, filter service.HistoryFilter) ([]model.AssessmentRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, ErrInvalidLimit
	}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}

	var (
		where []string
		args  []any
	)
	if filter.FieldID != "" {
		where = append(where, "field_id = ?")
		args = append(args, filter.FieldID)
	}
	if filter.FertilizerKey != "" {
		where = append(where, "fertilizer_key = ?")
		args = append(args, model.NormalizeKey(filter.FertilizerKey))
	}

	query := selectAssessments
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rank ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.AssessmentRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

const selectAssessments = `
	SELECT id, field_id, COALESCE(comparison_id, ''), rank, payload, created_at
	FROM assessments`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*model.AssessmentRecord, error) {
	var (
		record  model.AssessmentRecord
		payload string
	)
	err := row.Scan(&record.ID, &record.FieldID, &record.ComparisonID, &record.Rank, &payload, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &record.Assessment); err != nil {
		return nil, fmt.Errorf("failed to decode assessment %s: %w", record.ID, err)
	}
	return &record, nil
}

func stampRecord(record *model.AssessmentRecord, now time.Time) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now.UTC()
	}
}

// classifyError maps SQLite errors onto the common error taxonomy.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch {
	case sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrDatabaseLocked, err), Retryable: true}
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		return fmt.Errorf("%w: %w", common.ErrDuplicateEntry, err)
	default:
		return err
	}
}
