package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testhive/testhive-backend/internal/config"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// ProctorWorker drains the proctor-event queue into Postgres in batches.
// Persistence is decoupled from the WebSocket path so a slow database never
// stalls exam clients.
type ProctorWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewProctorWorker creates a new ProctorWorker.
func NewProctorWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ProctorWorker {
	return &ProctorWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "proctor_worker").Logger(),
	}
}

type proctorPayload struct {
	TestID    string `json:"test_id"`
	StudentID string `json:"student_id"`
	Timestamp int64  `json:"timestamp"`
	Payload   string `json:"payload"`
}

// Start runs the drain loop until ctx is cancelled. A batch flushes when it
// reaches BatchSize or when BatchTimeout has elapsed since the last flush.
func (w *ProctorWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ProctorWorker started")

	buffer := make([]*proctorPayload, 0, BatchSize)
	lastFlushTime := time.Now()

	for {
		if len(buffer) > 0 {
			if len(buffer) >= BatchSize || time.Since(lastFlushTime) >= BatchTimeout {
				w.flushSafe(ctx, buffer)
				buffer = buffer[:0]
				lastFlushTime = time.Now()
			}
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		// BLPop blocks for 1 second. Returns immediately if data exists.
		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.ProctorEventsQueue).Result()
		if err != nil {
			if err == redis.Nil {
				continue // Queue empty, loop back to check flush timer
			}
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var payload proctorPayload
		if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
			// Malformed JSON cannot be retried. Log and discard.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}

		buffer = append(buffer, &payload)
	}
}

// flushSafe attempts bulk insert, then row-by-row fallback, then requeue.
func (w *ProctorWorker) flushSafe(ctx context.Context, batch []*proctorPayload) {
	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		w.fallbackInsert(ctx, batch)
	}
}

func (w *ProctorWorker) bulkInsert(ctx context.Context, batch []*proctorPayload) error {
	rows := make([][]interface{}, 0, len(batch))
	for _, p := range batch {
		testID, studentID, err := p.ids()
		if err != nil {
			// Trigger fallback, which handles the bad row individually.
			return err
		}
		rows = append(rows, []interface{}{
			testID, studentID, p.Payload, time.Unix(p.Timestamp, 0),
		})
	}

	_, err := w.pool.CopyFrom(
		ctx,
		pgx.Identifier{"proctor_events"},
		[]string{"test_id", "student_id", "event_data", "recorded_at"},
		pgx.CopyFromRows(rows),
	)
	return err
}

func (w *ProctorWorker) fallbackInsert(ctx context.Context, batch []*proctorPayload) {
	requeueList := make([]*proctorPayload, 0)

	for _, p := range batch {
		testID, studentID, err := p.ids()
		if err != nil {
			w.log.Error().Str("test_id", p.TestID).Str("student_id", p.StudentID).
				Msg("Dropping proctor event with invalid UUID")
			continue
		}

		_, err = w.pool.Exec(ctx,
			`INSERT INTO proctor_events (test_id, student_id, event_data, recorded_at)
			 VALUES ($1, $2, $3::jsonb, $4)`,
			testID, studentID, p.Payload, time.Unix(p.Timestamp, 0),
		)
		if err != nil {
			w.log.Error().Err(err).Str("student_id", p.StudentID).Msg("Insert failed, requeueing")
			requeueList = append(requeueList, p)
		}
	}

	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
}

func (p *proctorPayload) ids() (uuid.UUID, uuid.UUID, error) {
	testID, err := uuid.Parse(p.TestID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	studentID, err := uuid.Parse(p.StudentID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return testID, studentID, nil
}

func (w *ProctorWorker) requeue(ctx context.Context, items []*proctorPayload) {
	pipe := w.rdb.Pipeline()
	for _, p := range items {
		data, _ := json.Marshal(p)
		pipe.RPush(ctx, config.WorkerKey.ProctorEventsQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Msg("CRITICAL: Failed to requeue items to Redis. Data loss occurred.")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed items back to Redis")
	// Avoid thrashing if the database is down hard.
	time.Sleep(2 * time.Second)
}

func (w *ProctorWorker) shutdown(buffer []*proctorPayload) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}
