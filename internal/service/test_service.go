package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/testhive/testhive-backend/internal/generator"
	"github.com/testhive/testhive-backend/internal/model"
	"github.com/testhive/testhive-backend/internal/repository"
)

// testStore is the test access TestService needs.
type testStore interface {
	Create(ctx context.Context, t *model.Test) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error)
	GetByCode(ctx context.Context, code string) (*model.Test, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.TeacherTestSummary, error)
}

// TestService handles test creation and the student/teacher access gate.
type TestService struct {
	tests     testStore
	questions generator.Generator
	fallback  generator.Generator
	log       zerolog.Logger
}

// NewTestService creates a new TestService. questions may be nil (no API
// key configured), in which case every generation uses the fallback.
func NewTestService(tests testStore, questions, fallback generator.Generator, log zerolog.Logger) *TestService {
	return &TestService{
		tests:     tests,
		questions: questions,
		fallback:  fallback,
		log:       log.With().Str("component", "test_service").Logger(),
	}
}

// GenerateFromDocument builds a test from extracted course content: generate
// questions, assign per-test question IDs, mint a unique access code and
// persist the whole test atomically.
func (s *TestService) GenerateFromDocument(ctx context.Context, teacherID uuid.UUID, req *model.GenerateTestRequest, courseContent, fileName string) (*model.Test, error) {
	if len(strings.TrimSpace(courseContent)) < 100 {
		return nil, ErrInsufficientContent
	}

	genReq := generator.Request{
		CourseContent: courseContent,
		Subject:       req.Subject,
		Difficulty:    req.Difficulty,
		QuestionCount: req.TotalQuestions,
	}

	generated, err := s.generateQuestions(ctx, genReq)
	if err != nil {
		return nil, err
	}

	questions := make([]model.Question, len(generated))
	for i, q := range generated {
		questions[i] = model.Question{
			ID:            fmt.Sprintf("q-%d", i+1),
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswerIndex,
			Explanation:   fmt.Sprintf("This question tests your knowledge of %s", req.Subject),
		}
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	test := &model.Test{
		TeacherID:       teacherID,
		Title:           req.Title,
		Description:     req.Description,
		Subject:         req.Subject,
		Difficulty:      model.Difficulty(req.Difficulty),
		DurationMinutes: duration,
		TotalQuestions:  len(questions),
		Questions:       questions,
		CourseFileName:  fileName,
	}

	if err := s.createWithCode(ctx, test); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("test_id", test.ID.String()).
		Str("test_code", test.TestCode).
		Int("questions", test.TotalQuestions).
		Msg("Test created")
	return test, nil
}

// generateQuestions tries the AI service first and degrades to the local
// fallback so a generation outage never blocks test creation.
func (s *TestService) generateQuestions(ctx context.Context, req generator.Request) ([]generator.Question, error) {
	if s.questions != nil {
		questions, err := s.questions.Generate(ctx, req)
		if err == nil {
			return questions, nil
		}
		s.log.Warn().Err(err).Msg("Question generation failed, using fallback")
	}
	return s.fallback.Generate(ctx, req)
}

// createWithCode persists the test under a freshly generated unique access
// code. The pre-check and the insert share one attempt budget: a concurrent
// creation that wins the race surfaces as a unique violation here, which
// re-rolls the code instead of failing the request.
func (s *TestService) createWithCode(ctx context.Context, test *model.Test) error {
	attempts := 0
	for attempts < maxCodeAttempts {
		code, used, err := generateUniqueCode(ctx, s.tests, attempts)
		if err != nil {
			return err
		}
		attempts = used

		test.TestCode = code
		err = s.tests.Create(ctx, test)
		if err == nil {
			return nil
		}
		if !repository.IsUniqueViolation(err) {
			return fmt.Errorf("create test: %w", err)
		}
		s.log.Debug().Str("test_code", code).Msg("Code collision on insert, re-rolling")
	}
	return ErrCodeGenerationFailed
}

// AccessByCode resolves a student-supplied code to a sanitized test view.
// The length check happens before any storage lookup; a malformed and an
// unknown code both read as "invalid" to the caller so codes cannot be
// probed for existence.
func (s *TestService) AccessByCode(ctx context.Context, rawCode string) (*model.StudentTestView, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if len(code) != CodeLength {
		return nil, ErrMalformedCode
	}

	test, err := s.tests.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("get test by code: %w", err)
	}

	return studentView(test), nil
}

// GetByCode resolves a code on the GET path, where an unknown code is a
// plain not-found rather than the deliberately vague redemption error.
func (s *TestService) GetByCode(ctx context.Context, rawCode string) (*model.StudentTestView, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))

	test, err := s.tests.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test by code: %w", err)
	}

	return studentView(test), nil
}

// GetForRole returns the role-appropriate view of a test fetched by ID.
// Teachers get the question content (still without answers); students get a
// metadata stub directing them to the code-redemption flow.
func (s *TestService) GetForRole(ctx context.Context, id uuid.UUID, role model.Role) (interface{}, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}

	if role == model.RoleStudent {
		return &model.TestMetadataView{
			ID:               test.ID,
			Title:            test.Title,
			Description:      test.Description,
			Subject:          test.Subject,
			Difficulty:       test.Difficulty,
			DurationMinutes:  test.DurationMinutes,
			TotalQuestions:   test.TotalQuestions,
			TestCodeRequired: true,
			Message:          "Use the test code to access this test at /api/v1/test/code/{code}",
		}, nil
	}

	return &model.TeacherTestView{
		ID:              test.ID,
		Title:           test.Title,
		Description:     test.Description,
		Subject:         test.Subject,
		Difficulty:      test.Difficulty,
		DurationMinutes: test.DurationMinutes,
		TotalQuestions:  test.TotalQuestions,
		TestCode:        test.TestCode,
		Questions:       test.SanitizedQuestions(),
	}, nil
}

// ListByTeacher returns a teacher's tests with submission counts.
func (s *TestService) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.TeacherTestSummary, error) {
	summaries, err := s.tests.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	if summaries == nil {
		summaries = []model.TeacherTestSummary{}
	}
	return summaries, nil
}

func studentView(test *model.Test) *model.StudentTestView {
	return &model.StudentTestView{
		ID:              test.ID,
		Title:           test.Title,
		Description:     test.Description,
		Subject:         test.Subject,
		Difficulty:      test.Difficulty,
		DurationMinutes: test.DurationMinutes,
		TotalQuestions:  test.TotalQuestions,
		TestCode:        test.TestCode,
		Questions:       test.SanitizedQuestions(),
	}
}
