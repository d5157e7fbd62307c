package service

import (
	"github.com/testhive/testhive-backend/internal/model"
)

// AnswerKey maps question IDs to correct option indexes. It is rebuilt from
// the test's question list on every scoring call and never cached or
// serialized — grading data stays inside the scoring path.
type AnswerKey map[string]int

// BuildAnswerKey derives the answer key from a test's questions.
func BuildAnswerKey(questions []model.Question) AnswerKey {
	key := make(AnswerKey, len(questions))
	for _, q := range questions {
		key[q.ID] = q.CorrectAnswer
	}
	return key
}

// ScoreOutcome is the result of reconciling a submission against an answer key.
type ScoreOutcome struct {
	Score      int
	Percentage float64 // unrounded; rendered to 2dp only at the API boundary
	Answers    []model.ScoredAnswer
}

// ScoreSubmission counts answers whose selected index matches the key entry
// for their question. Unanswered sentinels and any out-of-range index never
// match, so partial submissions simply score what they got right — there is
// no partial credit and no completeness requirement.
func ScoreSubmission(answers []model.SubmittedAnswer, key AnswerKey, totalQuestions int) (*ScoreOutcome, error) {
	if totalQuestions <= 0 {
		return nil, ErrInvalidTestState
	}

	scored := make([]model.ScoredAnswer, len(answers))
	score := 0
	for i, a := range answers {
		correct, known := key[a.QuestionID]
		isCorrect := known && a.SelectedAnswer == correct
		if isCorrect {
			score++
		}
		scored[i] = model.ScoredAnswer{
			QuestionID:       a.QuestionID,
			SelectedAnswer:   a.SelectedAnswer,
			IsCorrect:        isCorrect,
			TimeSpentSeconds: a.TimeSpentSeconds,
		}
	}

	return &ScoreOutcome{
		Score:      score,
		Percentage: float64(score) / float64(totalQuestions) * 100,
		Answers:    scored,
	}, nil
}
