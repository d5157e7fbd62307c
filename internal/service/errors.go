package service

import "errors"

// Domain errors surfaced to handlers, which map them to API error codes.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet complexity requirements")

	ErrTestNotFound   = errors.New("test not found")
	ErrNotTestOwner   = errors.New("not the owner of this test")
	ErrMalformedCode  = errors.New("test code must be 8 characters")
	ErrCodeNotFound   = errors.New("no test with this code")
	ErrInvalidAnswers = errors.New("answers must be a non-empty list")

	// ErrInvalidTestState guards the zero-question division hazard: a test
	// with no questions can never be scored.
	ErrInvalidTestState = errors.New("test has no questions")

	ErrRetakeNotAllowed = errors.New("a result already exists for this test and student")

	ErrCodeGenerationFailed = errors.New("could not generate a unique test code")

	ErrInsufficientContent = errors.New("course content too short")
)
