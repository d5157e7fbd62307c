package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testhive/testhive-backend/internal/model"
)

// TestRepository handles test data access. Questions live as a JSONB array
// inside the tests row, so a test is created with a single atomic write.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// Create inserts a new test. A test-code collision with a concurrent insert
// surfaces as a unique violation (check with IsUniqueViolation); the caller
// re-rolls the code rather than failing.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (teacher_id, title, description, subject, difficulty,
		                    duration_minutes, total_questions, questions,
		                    course_file_name, test_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		t.TeacherID, t.Title, t.Description, t.Subject, t.Difficulty,
		t.DurationMinutes, t.TotalQuestions, questions,
		t.CourseFileName, t.TestCode,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

const testColumns = `id, teacher_id, title, description, subject, difficulty,
	duration_minutes, total_questions, questions, course_file_name, test_code,
	created_at, updated_at`

func (r *TestRepository) scanTest(row interface{ Scan(...any) error }) (*model.Test, error) {
	t := &model.Test{}
	var questions []byte
	err := row.Scan(&t.ID, &t.TeacherID, &t.Title, &t.Description, &t.Subject,
		&t.Difficulty, &t.DurationMinutes, &t.TotalQuestions, &questions,
		&t.CourseFileName, &t.TestCode, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &t.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return t, nil
}

// GetByID retrieves a test by its UUID.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	return r.scanTest(r.pool.QueryRow(ctx,
		`SELECT `+testColumns+` FROM tests WHERE id = $1`, id))
}

// GetByCode retrieves a test by its access code. The code must already be
// normalized (uppercase, trimmed).
func (r *TestRepository) GetByCode(ctx context.Context, code string) (*model.Test, error) {
	return r.scanTest(r.pool.QueryRow(ctx,
		`SELECT `+testColumns+` FROM tests WHERE test_code = $1`, code))
}

// CodeExists reports whether any test already uses the given access code.
func (r *TestRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tests WHERE test_code = $1)`, code,
	).Scan(&exists)
	return exists, err
}

// ListByTeacher retrieves a teacher's tests newest-first, each with its
// submission count.
func (r *TestRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.TeacherTestSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.test_code, t.title, t.subject, t.difficulty,
		        t.total_questions, t.created_at,
		        (SELECT COUNT(*) FROM results r WHERE r.test_id = t.id) AS submissions
		 FROM tests t
		 WHERE t.teacher_id = $1
		 ORDER BY t.created_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.TeacherTestSummary
	for rows.Next() {
		var s model.TeacherTestSummary
		if err := rows.Scan(&s.ID, &s.TestCode, &s.Title, &s.Subject, &s.Difficulty,
			&s.TotalQuestions, &s.CreatedAt, &s.Submissions); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
