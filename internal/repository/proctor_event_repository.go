package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testhive/testhive-backend/internal/model"
)

// ProctorEventRepository reads proctor events persisted by the background
// worker. Writes go through the worker's batch path, never through here.
type ProctorEventRepository struct {
	pool *pgxpool.Pool
}

// NewProctorEventRepository creates a new ProctorEventRepository.
func NewProctorEventRepository(pool *pgxpool.Pool) *ProctorEventRepository {
	return &ProctorEventRepository{pool: pool}
}

// ListByTest retrieves up to limit proctor events for a test, newest-first.
func (r *ProctorEventRepository) ListByTest(ctx context.Context, testID uuid.UUID, limit int) ([]model.ProctorEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, student_id, event_data, recorded_at
		 FROM proctor_events
		 WHERE test_id = $1
		 ORDER BY recorded_at DESC
		 LIMIT $2`, testID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ProctorEvent
	for rows.Next() {
		var e model.ProctorEvent
		if err := rows.Scan(&e.ID, &e.TestID, &e.StudentID, &e.EventData, &e.RecordedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
