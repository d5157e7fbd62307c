// Package generator produces multiple-choice questions from course material.
// The real implementation calls the Gemini API over its fixed REST contract;
// a deterministic local fallback keeps the platform usable when the API is
// unavailable or unconfigured.
package generator

import (
	"context"
	"errors"
	"fmt"
)

// Request describes one question-generation job.
type Request struct {
	CourseContent string
	Subject       string
	Difficulty    string // easy | medium | hard
	QuestionCount int
}

// Question is a generated multiple-choice question. CorrectAnswerIndex is
// zero-based into the four options.
type Question struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Generator turns course material into questions.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Question, error)
}

// ErrBadResponse indicates the upstream service answered with a payload
// that could not be interpreted as a valid question set.
var ErrBadResponse = errors.New("invalid response from question service")

// validateQuestions checks the structural invariants every generated
// question must satisfy before it can enter a test.
func validateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: empty question list", ErrBadResponse)
	}
	for i, q := range questions {
		if q.Question == "" {
			return fmt.Errorf("%w: question %d has no text", ErrBadResponse, i+1)
		}
		if len(q.Options) != 4 {
			return fmt.Errorf("%w: question %d has %d options, want 4", ErrBadResponse, i+1, len(q.Options))
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex > 3 {
			return fmt.Errorf("%w: question %d correct index %d out of range", ErrBadResponse, i+1, q.CorrectAnswerIndex)
		}
	}
	return nil
}
