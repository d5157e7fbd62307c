package generator

import (
	"context"
	"fmt"
)

// Fallback produces deterministic placeholder questions so teachers can
// still create and run tests when the AI service is down or unconfigured.
// The first option is always correct, which makes the output easy to
// recognize as placeholder material.
type Fallback struct{}

// NewFallback creates the fallback generator.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Generate returns req.QuestionCount placeholder questions about the subject.
func (f *Fallback) Generate(_ context.Context, req Request) ([]Question, error) {
	questions := make([]Question, req.QuestionCount)
	for i := range questions {
		n := i + 1
		questions[i] = Question{
			Question: fmt.Sprintf("Sample question %d about %s", n, req.Subject),
			Options: []string{
				fmt.Sprintf("Option A for question %d", n),
				fmt.Sprintf("Option B for question %d", n),
				fmt.Sprintf("Option C for question %d", n),
				fmt.Sprintf("Option D for question %d", n),
			},
			CorrectAnswerIndex: 0,
		}
	}
	return questions, nil
}
