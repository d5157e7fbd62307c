package model

import (
	"time"

	"github.com/google/uuid"
)

// UnansweredSentinel is the selected-answer value a client sends for a
// question the student left blank. Any index outside the option range
// scores as wrong; -1 is the conventional sentinel.
const UnansweredSentinel = -1

// SubmittedAnswer is one entry of a client-constructed answer stream.
type SubmittedAnswer struct {
	QuestionID       string `json:"question_id" binding:"required"`
	SelectedAnswer   int    `json:"selected_answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds" binding:"min=0"`
}

// SubmitTestRequest is the submission payload. Answers may be partial;
// missing questions simply score zero.
type SubmitTestRequest struct {
	Answers          []SubmittedAnswer `json:"answers" binding:"required,dive"`
	TotalTimeSeconds int               `json:"total_time_seconds" binding:"min=0"`
}

// ScoredAnswer is a submitted answer annotated with correctness. This is
// what gets persisted, never the raw input list.
type ScoredAnswer struct {
	QuestionID       string `json:"question_id"`
	SelectedAnswer   int    `json:"selected_answer"`
	IsCorrect        bool   `json:"is_correct"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// Result is the immutable record of one graded submission attempt.
// Created exactly once per submission event, never updated or deleted.
type Result struct {
	ID                 uuid.UUID      `json:"id"`
	TestID             uuid.UUID      `json:"test_id"`
	StudentID          uuid.UUID      `json:"student_id"`
	Answers            []ScoredAnswer `json:"answers"`
	Score              int            `json:"score"`
	TotalQuestions     int            `json:"total_questions"`
	Percentage         float64        `json:"percentage"`
	TimeTakenSeconds   int            `json:"time_taken_seconds"`
	SubmittedAt        time.Time      `json:"submitted_at"`
	FlaggedForCheating bool           `json:"flagged_for_cheating"`
	CheatingReasons    []string       `json:"cheating_reasons"`
}

// SubmissionSummary is the response of a successful submission. The
// percentage is rendered to two decimals at this boundary only; the stored
// Result keeps the unrounded float.
type SubmissionSummary struct {
	ResultID           uuid.UUID `json:"result_id"`
	Score              int       `json:"score"`
	TotalQuestions     int       `json:"total_questions"`
	Percentage         string    `json:"percentage"`
	FlaggedForCheating bool      `json:"flagged_for_cheating"`
}

// StudentResultSummary is one row of a student's own-results listing,
// enriched with test and teacher context.
type StudentResultSummary struct {
	ResultID           uuid.UUID  `json:"result_id"`
	TestID             uuid.UUID  `json:"test_id"`
	TestTitle          string     `json:"test_title"`
	TestSubject        string     `json:"test_subject"`
	TestDifficulty     Difficulty `json:"test_difficulty"`
	TestCode           string     `json:"test_code"`
	TeacherName        string     `json:"teacher_name"`
	TeacherEmail       string     `json:"teacher_email"`
	Score              int        `json:"score"`
	TotalQuestions     int        `json:"total_questions"`
	Percentage         float64    `json:"percentage"`
	TimeTakenSeconds   int        `json:"time_taken_seconds"`
	SubmittedAt        time.Time  `json:"submitted_at"`
	FlaggedForCheating bool       `json:"flagged_for_cheating"`
	CheatingReasons    []string   `json:"cheating_reasons"`
}

// TestResultSummary is one row of a teacher's per-test results listing,
// enriched with student identity.
type TestResultSummary struct {
	ResultID           uuid.UUID `json:"result_id"`
	StudentID          uuid.UUID `json:"student_id"`
	StudentName        string    `json:"student_name"`
	StudentEmail       string    `json:"student_email,omitempty"`
	Score              int       `json:"score"`
	TotalQuestions     int       `json:"total_questions"`
	Percentage         float64   `json:"percentage"`
	TimeTakenSeconds   int       `json:"time_taken_seconds"`
	SubmittedAt        time.Time `json:"submitted_at"`
	FlaggedForCheating bool      `json:"flagged_for_cheating"`
	CheatingReasons    []string  `json:"cheating_reasons"`
}
