package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/testhive/testhive-backend/internal/model"
	"github.com/testhive/testhive-backend/internal/repository"
)

// resultLister is the result access ResultService needs.
type resultLister interface {
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Result, error)
	ListByTest(ctx context.Context, testID uuid.UUID) ([]*model.Result, error)
}

// userLookup resolves user identities for result enrichment.
type userLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error)
}

// testLookup resolves test metadata for result enrichment.
type testLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error)
}

// proctorEventLister reads persisted proctor events.
type proctorEventLister interface {
	ListByTest(ctx context.Context, testID uuid.UUID, limit int) ([]model.ProctorEvent, error)
}

// proctorEventLimit caps a single review listing.
const proctorEventLimit = 500

// ResultService serves the student and teacher results listings.
type ResultService struct {
	results resultLister
	tests   testLookup
	users   userLookup
	proctor proctorEventLister
	log     zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(results resultLister, tests testLookup, users userLookup, proctor proctorEventLister, log zerolog.Logger) *ResultService {
	return &ResultService{
		results: results,
		tests:   tests,
		users:   users,
		proctor: proctor,
		log:     log.With().Str("component", "result_service").Logger(),
	}
}

// StudentResults is a student's result history with aggregate context.
type StudentResults struct {
	Results         []model.StudentResultSummary `json:"results"`
	TotalTestsTaken int                          `json:"total_tests_taken"`
}

// ListStudentResults returns a student's own results newest-first, each
// enriched with the test and its teacher. Results whose test has since
// disappeared are skipped rather than failing the whole listing.
func (s *ResultService) ListStudentResults(ctx context.Context, studentID uuid.UUID) (*StudentResults, error) {
	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	summaries := make([]model.StudentResultSummary, 0, len(results))
	tests := make(map[uuid.UUID]*model.Test, len(results))
	teacherIDs := make([]uuid.UUID, 0, len(results))

	for _, res := range results {
		if _, seen := tests[res.TestID]; seen {
			continue
		}
		test, err := s.tests.GetByID(ctx, res.TestID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.log.Warn().Str("test_id", res.TestID.String()).Msg("Result references missing test, skipping")
				continue
			}
			return nil, fmt.Errorf("get test: %w", err)
		}
		tests[test.ID] = test
		teacherIDs = append(teacherIDs, test.TeacherID)
	}

	teachers, err := s.users.GetByIDs(ctx, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("get teachers: %w", err)
	}

	for _, res := range results {
		test, ok := tests[res.TestID]
		if !ok {
			continue
		}
		summary := model.StudentResultSummary{
			ResultID:           res.ID,
			TestID:             test.ID,
			TestTitle:          test.Title,
			TestSubject:        test.Subject,
			TestDifficulty:     test.Difficulty,
			TestCode:           test.TestCode,
			Score:              res.Score,
			TotalQuestions:     res.TotalQuestions,
			Percentage:         res.Percentage,
			TimeTakenSeconds:   res.TimeTakenSeconds,
			SubmittedAt:        res.SubmittedAt,
			FlaggedForCheating: res.FlaggedForCheating,
			CheatingReasons:    res.CheatingReasons,
		}
		if teacher, ok := teachers[test.TeacherID]; ok {
			summary.TeacherName = teacher.FullName
			summary.TeacherEmail = teacher.Email
		}
		summaries = append(summaries, summary)
	}

	return &StudentResults{
		Results:         summaries,
		TotalTestsTaken: len(summaries),
	}, nil
}

// ListTestResults returns all submissions for a test the caller owns, each
// enriched with the submitting student's identity.
func (s *ResultService) ListTestResults(ctx context.Context, testID, teacherID uuid.UUID) ([]model.TestResultSummary, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}
	if test.TeacherID != teacherID {
		return nil, ErrNotTestOwner
	}

	results, err := s.results.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	studentIDs := make([]uuid.UUID, 0, len(results))
	seen := make(map[uuid.UUID]bool, len(results))
	for _, res := range results {
		if !seen[res.StudentID] {
			seen[res.StudentID] = true
			studentIDs = append(studentIDs, res.StudentID)
		}
	}
	students, err := s.users.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("get students: %w", err)
	}

	summaries := make([]model.TestResultSummary, 0, len(results))
	for _, res := range results {
		summary := model.TestResultSummary{
			ResultID:           res.ID,
			StudentID:          res.StudentID,
			Score:              res.Score,
			TotalQuestions:     res.TotalQuestions,
			Percentage:         res.Percentage,
			TimeTakenSeconds:   res.TimeTakenSeconds,
			SubmittedAt:        res.SubmittedAt,
			FlaggedForCheating: res.FlaggedForCheating,
			CheatingReasons:    res.CheatingReasons,
		}
		if student, ok := students[res.StudentID]; ok {
			summary.StudentName = student.FullName
			summary.StudentEmail = student.Email
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// ListProctorEvents returns the recorded proctor events for a test the
// caller owns, newest-first.
func (s *ResultService) ListProctorEvents(ctx context.Context, testID, teacherID uuid.UUID) ([]model.ProctorEvent, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}
	if test.TeacherID != teacherID {
		return nil, ErrNotTestOwner
	}

	events, err := s.proctor.ListByTest(ctx, testID, proctorEventLimit)
	if err != nil {
		return nil, fmt.Errorf("list proctor events: %w", err)
	}
	if events == nil {
		events = []model.ProctorEvent{}
	}
	return events, nil
}
