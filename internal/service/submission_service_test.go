package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhive/testhive-backend/internal/model"
)

// fakeResultStore records created results in memory.
type fakeResultStore struct {
	created []*model.Result
}

func (f *fakeResultStore) Create(_ context.Context, res *model.Result) error {
	res.ID = uuid.New()
	f.created = append(f.created, res)
	return nil
}

func (f *fakeResultStore) ExistsByTestAndStudent(_ context.Context, testID, studentID uuid.UUID) (bool, error) {
	for _, r := range f.created {
		if r.TestID == testID && r.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func submissionFixture(t *testing.T) (*fakeTestStore, *fakeResultStore, *model.Test) {
	t.Helper()
	store := newFakeTestStore()
	test := storedTest(t, store)
	return store, &fakeResultStore{}, test
}

func TestSubmit(t *testing.T) {
	store, results, test := submissionFixture(t)
	svc := NewSubmissionService(store, results, true, zerolog.Nop())
	studentID := uuid.New()

	t.Run("grades and persists", func(t *testing.T) {
		result, err := svc.Submit(context.Background(), test.ID, studentID, &model.SubmitTestRequest{
			Answers: []model.SubmittedAnswer{
				{QuestionID: "q-1", SelectedAnswer: 1, TimeSpentSeconds: 95},
				{QuestionID: "q-2", SelectedAnswer: 0, TimeSpentSeconds: 120},
			},
			TotalTimeSeconds: 400,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 2, result.TotalQuestions)
		assert.InDelta(t, 50.0, result.Percentage, 1e-9)
		assert.Equal(t, 400, result.TimeTakenSeconds)
		assert.False(t, result.FlaggedForCheating)
		assert.Empty(t, result.CheatingReasons)
		assert.False(t, result.SubmittedAt.IsZero())
		require.Len(t, results.created, 1)
	})

	t.Run("fast completion is flagged but still recorded", func(t *testing.T) {
		// 200s against a 60-minute allotment is under the 360s floor.
		result, err := svc.Submit(context.Background(), test.ID, uuid.New(), &model.SubmitTestRequest{
			Answers: []model.SubmittedAnswer{
				{QuestionID: "q-1", SelectedAnswer: 1, TimeSpentSeconds: 80},
				{QuestionID: "q-2", SelectedAnswer: 1, TimeSpentSeconds: 120},
			},
			TotalTimeSeconds: 200,
		})
		require.NoError(t, err)

		assert.True(t, result.FlaggedForCheating)
		assert.Equal(t, []string{ReasonCompletedFast}, result.CheatingReasons)
		assert.Equal(t, 2, result.Score)
	})

	t.Run("empty answers rejected", func(t *testing.T) {
		_, err := svc.Submit(context.Background(), test.ID, studentID, &model.SubmitTestRequest{
			TotalTimeSeconds: 400,
		})

		assert.ErrorIs(t, err, ErrInvalidAnswers)
	})

	t.Run("unknown test", func(t *testing.T) {
		_, err := svc.Submit(context.Background(), uuid.New(), studentID, &model.SubmitTestRequest{
			Answers: []model.SubmittedAnswer{{QuestionID: "q-1", SelectedAnswer: 1}},
		})

		assert.ErrorIs(t, err, ErrTestNotFound)
	})
}

func TestSubmit_Retakes(t *testing.T) {
	req := func() *model.SubmitTestRequest {
		return &model.SubmitTestRequest{
			Answers: []model.SubmittedAnswer{
				{QuestionID: "q-1", SelectedAnswer: 1, TimeSpentSeconds: 200},
				{QuestionID: "q-2", SelectedAnswer: 0, TimeSpentSeconds: 260},
			},
			TotalTimeSeconds: 460,
		}
	}

	t.Run("allowed by default", func(t *testing.T) {
		store, results, test := submissionFixture(t)
		svc := NewSubmissionService(store, results, true, zerolog.Nop())
		studentID := uuid.New()

		_, err := svc.Submit(context.Background(), test.ID, studentID, req())
		require.NoError(t, err)
		_, err = svc.Submit(context.Background(), test.ID, studentID, req())
		require.NoError(t, err)

		assert.Len(t, results.created, 2)
	})

	t.Run("second attempt rejected when disabled", func(t *testing.T) {
		store, results, test := submissionFixture(t)
		svc := NewSubmissionService(store, results, false, zerolog.Nop())
		studentID := uuid.New()

		_, err := svc.Submit(context.Background(), test.ID, studentID, req())
		require.NoError(t, err)

		_, err = svc.Submit(context.Background(), test.ID, studentID, req())
		assert.ErrorIs(t, err, ErrRetakeNotAllowed)
		assert.Len(t, results.created, 1)
	})

	t.Run("other students unaffected when disabled", func(t *testing.T) {
		store, results, test := submissionFixture(t)
		svc := NewSubmissionService(store, results, false, zerolog.Nop())

		_, err := svc.Submit(context.Background(), test.ID, uuid.New(), req())
		require.NoError(t, err)
		_, err = svc.Submit(context.Background(), test.ID, uuid.New(), req())
		require.NoError(t, err)

		assert.Len(t, results.created, 2)
	})
}
