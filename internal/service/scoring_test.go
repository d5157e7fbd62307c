package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhive/testhive-backend/internal/model"
)

func sampleQuestions() []model.Question {
	return []model.Question{
		{ID: "q-1", Question: "1+1", Options: []string{"1", "2", "3", "4"}, CorrectAnswer: 1},
		{ID: "q-2", Question: "2+2", Options: []string{"2", "3", "4", "5"}, CorrectAnswer: 2},
		{ID: "q-3", Question: "3+3", Options: []string{"4", "5", "6", "7"}, CorrectAnswer: 2},
	}
}

func TestBuildAnswerKey(t *testing.T) {
	key := BuildAnswerKey(sampleQuestions())

	assert.Equal(t, AnswerKey{"q-1": 1, "q-2": 2, "q-3": 2}, key)
}

func TestScoreSubmission(t *testing.T) {
	key := BuildAnswerKey(sampleQuestions())

	tests := []struct {
		name       string
		answers    []model.SubmittedAnswer
		wantScore  int
		wantPct    float64
		wantIsCorr []bool
	}{
		{
			name: "all correct",
			answers: []model.SubmittedAnswer{
				{QuestionID: "q-1", SelectedAnswer: 1},
				{QuestionID: "q-2", SelectedAnswer: 2},
				{QuestionID: "q-3", SelectedAnswer: 2},
			},
			wantScore:  3,
			wantPct:    100,
			wantIsCorr: []bool{true, true, true},
		},
		{
			name: "partial submission scores what matched",
			answers: []model.SubmittedAnswer{
				{QuestionID: "q-1", SelectedAnswer: 1},
			},
			wantScore:  1,
			wantPct:    100.0 / 3,
			wantIsCorr: []bool{true},
		},
		{
			name: "unanswered sentinel never matches",
			answers: []model.SubmittedAnswer{
				{QuestionID: "q-1", SelectedAnswer: model.UnansweredSentinel},
				{QuestionID: "q-2", SelectedAnswer: 2},
			},
			wantScore:  1,
			wantPct:    100.0 / 3,
			wantIsCorr: []bool{false, true},
		},
		{
			name: "unknown question id scores wrong",
			answers: []model.SubmittedAnswer{
				{QuestionID: "q-99", SelectedAnswer: 1},
				{QuestionID: "q-1", SelectedAnswer: 1},
			},
			wantScore:  1,
			wantPct:    100.0 / 3,
			wantIsCorr: []bool{false, true},
		},
		{
			name: "out of range index scores wrong",
			answers: []model.SubmittedAnswer{
				{QuestionID: "q-1", SelectedAnswer: 7},
			},
			wantScore:  0,
			wantPct:    0,
			wantIsCorr: []bool{false},
		},
		{
			name: "duplicate answers each count",
			answers: []model.SubmittedAnswer{
				{QuestionID: "q-1", SelectedAnswer: 1},
				{QuestionID: "q-1", SelectedAnswer: 1},
			},
			wantScore:  2,
			wantPct:    200.0 / 3,
			wantIsCorr: []bool{true, true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			outcome, err := ScoreSubmission(tc.answers, key, 3)
			require.NoError(t, err)

			assert.Equal(t, tc.wantScore, outcome.Score)
			assert.InDelta(t, tc.wantPct, outcome.Percentage, 1e-9)

			require.Len(t, outcome.Answers, len(tc.wantIsCorr))
			for i, want := range tc.wantIsCorr {
				assert.Equal(t, want, outcome.Answers[i].IsCorrect, "answer %d", i)
			}
		})
	}
}

func TestScoreSubmission_InvalidTotalQuestions(t *testing.T) {
	_, err := ScoreSubmission([]model.SubmittedAnswer{{QuestionID: "q-1"}}, AnswerKey{}, 0)

	assert.ErrorIs(t, err, ErrInvalidTestState)
}

func TestScoreSubmission_PreservesTimeSpent(t *testing.T) {
	key := BuildAnswerKey(sampleQuestions())

	outcome, err := ScoreSubmission([]model.SubmittedAnswer{
		{QuestionID: "q-1", SelectedAnswer: 1, TimeSpentSeconds: 42},
	}, key, 3)
	require.NoError(t, err)

	assert.Equal(t, 42, outcome.Answers[0].TimeSpentSeconds)
}
