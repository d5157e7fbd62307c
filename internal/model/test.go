package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty enumerates the supported test difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single multiple-choice question embedded in a test.
// The ID is stable and unique within its test only ("q-1", "q-2", ...).
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// SanitizedQuestion is a question as surfaced to student-role callers.
// It structurally has no correct-answer or explanation fields, so a
// sanitization bug cannot leak them through serialization.
type SanitizedQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Sanitize strips the answer-revealing fields from a question.
func (q Question) Sanitize() SanitizedQuestion {
	return SanitizedQuestion{
		ID:       q.ID,
		Question: q.Question,
		Options:  q.Options,
	}
}

// Test is an immutable-after-creation exam record. Questions are stored
// embedded in the test row (JSONB) so a test is always written atomically.
type Test struct {
	ID              uuid.UUID  `json:"id"`
	TeacherID       uuid.UUID  `json:"teacher_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Subject         string     `json:"subject"`
	Difficulty      Difficulty `json:"difficulty"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalQuestions  int        `json:"total_questions"`
	Questions       []Question `json:"questions"`
	CourseFileName  string     `json:"course_file_name,omitempty"`
	TestCode        string     `json:"test_code"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SanitizedQuestions returns the student-safe view of all questions.
func (t *Test) SanitizedQuestions() []SanitizedQuestion {
	sanitized := make([]SanitizedQuestion, len(t.Questions))
	for i, q := range t.Questions {
		sanitized[i] = q.Sanitize()
	}
	return sanitized
}

// AccessTestRequest is the payload for redeeming a test code.
// The testcode rule is registered in internal/validator.
type AccessTestRequest struct {
	TestCode string `json:"test_code" binding:"required,testcode"`
}

// GenerateTestRequest carries the multipart form fields of test generation.
// The course document travels separately as the "file" part.
type GenerateTestRequest struct {
	Title           string `form:"title" binding:"required,min=3,max=255"`
	Description     string `form:"description" binding:"omitempty,max=2000"`
	Subject         string `form:"subject" binding:"required,min=2,max=255"`
	Difficulty      string `form:"difficulty" binding:"required,oneof=easy medium hard"`
	TotalQuestions  int    `form:"total_questions" binding:"required,min=1,max=100"`
	DurationMinutes int    `form:"duration_minutes" binding:"omitempty,min=1,max=480"`
}

// StudentTestView is the sanitized test representation served to students
// after redeeming a code.
type StudentTestView struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Subject         string              `json:"subject"`
	Difficulty      Difficulty          `json:"difficulty"`
	DurationMinutes int                 `json:"duration_minutes"`
	TotalQuestions  int                 `json:"total_questions"`
	TestCode        string              `json:"test_code"`
	Questions       []SanitizedQuestion `json:"questions"`
}

// TestMetadataView is the stub served to a student fetching a test by ID:
// metadata only, pointing them at the code-redemption flow.
type TestMetadataView struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Subject          string     `json:"subject"`
	Difficulty       Difficulty `json:"difficulty"`
	DurationMinutes  int        `json:"duration_minutes"`
	TotalQuestions   int        `json:"total_questions"`
	TestCodeRequired bool       `json:"test_code_required"`
	Message          string     `json:"message"`
}

// TeacherTestView is the full test representation served to its owner.
// Correct answers and explanations are withheld even here; grading data
// never leaves the scoring path.
type TeacherTestView struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Subject         string              `json:"subject"`
	Difficulty      Difficulty          `json:"difficulty"`
	DurationMinutes int                 `json:"duration_minutes"`
	TotalQuestions  int                 `json:"total_questions"`
	TestCode        string              `json:"test_code"`
	Questions       []SanitizedQuestion `json:"questions"`
}

// TeacherTestSummary is one row of a teacher's own-tests listing.
type TeacherTestSummary struct {
	ID             uuid.UUID  `json:"id"`
	TestCode       string     `json:"test_code"`
	Title          string     `json:"title"`
	Subject        string     `json:"subject"`
	Difficulty     Difficulty `json:"difficulty"`
	TotalQuestions int        `json:"total_questions"`
	CreatedAt      time.Time  `json:"created_at"`
	Submissions    int        `json:"submissions"`
}
