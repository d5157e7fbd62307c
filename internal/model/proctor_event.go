package model

import (
	"time"

	"github.com/google/uuid"
)

// ProctorEvent is one webcam-proctoring observation reported by the exam
// client during a test. The face-detection verdict itself comes from an
// external detector; the backend only ingests and stores it for review.
type ProctorEvent struct {
	ID         int64     `json:"id"`
	TestID     uuid.UUID `json:"test_id"`
	StudentID  uuid.UUID `json:"student_id"`
	EventData  string    `json:"event_data"` // raw JSON from the client
	RecordedAt time.Time `json:"recorded_at"`
}
