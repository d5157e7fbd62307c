package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testhive/testhive-backend/internal/model"
)

// ResultRepository handles result data access. The results collection is
// append-only; there are no update or delete paths.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Create inserts a new result atomically.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	reasons, err := json.Marshal(res.CheatingReasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO results (test_id, student_id, answers, score, total_questions,
		                      percentage, time_taken_seconds, submitted_at,
		                      flagged_for_cheating, cheating_reasons)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		res.TestID, res.StudentID, answers, res.Score, res.TotalQuestions,
		res.Percentage, res.TimeTakenSeconds, res.SubmittedAt,
		res.FlaggedForCheating, reasons,
	).Scan(&res.ID)
}

const resultColumns = `id, test_id, student_id, answers, score, total_questions,
	percentage, time_taken_seconds, submitted_at, flagged_for_cheating, cheating_reasons`

func scanResult(row interface{ Scan(...any) error }) (*model.Result, error) {
	res := &model.Result{}
	var answers, reasons []byte
	err := row.Scan(&res.ID, &res.TestID, &res.StudentID, &answers, &res.Score,
		&res.TotalQuestions, &res.Percentage, &res.TimeTakenSeconds,
		&res.SubmittedAt, &res.FlaggedForCheating, &reasons)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &res.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	if err := json.Unmarshal(reasons, &res.CheatingReasons); err != nil {
		return nil, fmt.Errorf("unmarshal reasons: %w", err)
	}
	return res, nil
}

// ListByStudent retrieves a student's results newest-first.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE student_id = $1
		 ORDER BY submitted_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*model.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListByTest retrieves all results for a test newest-first.
func (r *ResultRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]*model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE test_id = $1
		 ORDER BY submitted_at DESC`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*model.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ExistsByTestAndStudent reports whether the student has already submitted
// this test. Advisory only: there is no unique index on (test_id,
// student_id), so concurrent submissions can both pass this check.
func (r *ResultRepository) ExistsByTestAndStudent(ctx context.Context, testID, studentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM results WHERE test_id = $1 AND student_id = $2)`,
		testID, studentID,
	).Scan(&exists)
	return exists, err
}
