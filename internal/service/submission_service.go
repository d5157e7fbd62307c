package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/testhive/testhive-backend/internal/model"
	"github.com/testhive/testhive-backend/internal/repository"
)

// resultStore is the result access SubmissionService needs.
type resultStore interface {
	Create(ctx context.Context, res *model.Result) error
	ExistsByTestAndStudent(ctx context.Context, testID, studentID uuid.UUID) (bool, error)
}

// testResolver resolves a submission's target test.
type testResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error)
}

// SubmissionService runs the submission pipeline: resolve test, validate,
// score, analyze timing, persist. One result row per submission event.
type SubmissionService struct {
	tests        testResolver
	results      resultStore
	allowRetakes bool
	log          zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(tests testResolver, results resultStore, allowRetakes bool, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		tests:        tests,
		results:      results,
		allowRetakes: allowRetakes,
		log:          log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades one submission attempt and persists the result. Scoring and
// timing analysis run on in-memory data only; the single write happens at
// the end, so a storage failure loses the attempt rather than half-recording
// it.
func (s *SubmissionService) Submit(ctx context.Context, testID, studentID uuid.UUID, req *model.SubmitTestRequest) (*model.Result, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}

	if len(req.Answers) == 0 {
		return nil, ErrInvalidAnswers
	}

	if !s.allowRetakes {
		taken, err := s.results.ExistsByTestAndStudent(ctx, testID, studentID)
		if err != nil {
			return nil, fmt.Errorf("check prior submission: %w", err)
		}
		if taken {
			return nil, ErrRetakeNotAllowed
		}
	}

	key := BuildAnswerKey(test.Questions)
	outcome, err := ScoreSubmission(req.Answers, key, test.TotalQuestions)
	if err != nil {
		return nil, err
	}

	report := AnalyzeTiming(req.Answers, req.TotalTimeSeconds, test.DurationMinutes)

	result := &model.Result{
		TestID:             test.ID,
		StudentID:          studentID,
		Answers:            outcome.Answers,
		Score:              outcome.Score,
		TotalQuestions:     test.TotalQuestions,
		Percentage:         outcome.Percentage,
		TimeTakenSeconds:   req.TotalTimeSeconds,
		SubmittedAt:        time.Now(),
		FlaggedForCheating: report.Flagged,
		CheatingReasons:    report.Reasons,
	}
	if result.CheatingReasons == nil {
		result.CheatingReasons = []string{}
	}

	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}

	event := s.log.Info()
	if result.FlaggedForCheating {
		event = s.log.Warn().Strs("reasons", result.CheatingReasons)
	}
	event.
		Str("result_id", result.ID.String()).
		Str("test_id", test.ID.String()).
		Str("student_id", studentID.String()).
		Int("score", result.Score).
		Int("total_questions", result.TotalQuestions).
		Msg("Submission graded")

	return result, nil
}
