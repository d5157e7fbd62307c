package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidTestID  ErrCode = "INVALID_TEST_ID"
	ErrMissingCode    ErrCode = "MISSING_CODE"
	ErrInvalidCode    ErrCode = "INVALID_CODE"
	ErrInvalidAnswers ErrCode = "INVALID_ANSWERS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrTestNotFound     ErrCode = "TEST_NOT_FOUND"
	ErrEmailExists      ErrCode = "EMAIL_EXISTS"
	ErrRetakeNotAllowed ErrCode = "RETAKE_NOT_ALLOWED"

	// ─── Test generation ───────────────────────────────────────────────
	ErrFileRequired         ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge         ErrCode = "FILE_TOO_LARGE"
	ErrUnsupportedFile      ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrInsufficientContent  ErrCode = "INSUFFICIENT_CONTENT"
	ErrCodeGenerationFailed ErrCode = "CODE_GENERATION_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have access to this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidTestID:
		return "Invalid test ID format."
	case ErrMissingCode:
		return "Test code is required."
	case ErrInvalidCode:
		return "Invalid test code."
	case ErrInvalidAnswers:
		return "Answers must be a non-empty array."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrTestNotFound:
		return "Test not found."
	case ErrEmailExists:
		return "An account with this email already exists."
	case ErrRetakeNotAllowed:
		return "You have already submitted this test."

	// ─── Test generation ───────────────────────────────────────────────
	case ErrFileRequired:
		return "A course document is required."
	case ErrFileTooLarge:
		return "The uploaded file exceeds the size limit."
	case ErrUnsupportedFile:
		return "Only text-based course documents are supported."
	case ErrInsufficientContent:
		return "Document content is too short or could not be extracted."
	case ErrCodeGenerationFailed:
		return "Failed to generate a unique test code. Please try again."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
