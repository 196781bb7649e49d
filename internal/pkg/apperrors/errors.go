package apperrors

import "errors"

// Error kinds. Every error returned by the core operations unwraps to exactly one of these.
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Business rule errors
	ErrDeadlinePassed   = errors.New("deadline passed")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrDuplicate        = errors.New("duplicate")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// User errors
var (
	ErrUserNotFound       = NewCustomError(ErrResourceNotFound, "user not found")
	ErrEmailAlreadyExists = NewCustomError(ErrResourceAlreadyExists, "email already exists")
	ErrUsernameExists     = NewCustomError(ErrResourceAlreadyExists, "username already exists")
	ErrInvalidRole        = NewCustomError(ErrValidationFailed, "role must be either student or lecturer")
)

// Course errors
var (
	ErrCourseNotFound = NewCustomError(ErrResourceNotFound, "course not found")
	ErrNotCourseOwner = NewCustomError(ErrPermissionDenied, "course belongs to another lecturer")
)

// Assignment errors
var (
	ErrAssignmentNotFound   = NewCustomError(ErrResourceNotFound, "assignment not found")
	ErrLecturerOnly         = NewCustomError(ErrPermissionDenied, "only lecturers can manage assignments")
	ErrNotAssignmentOwner   = NewCustomError(ErrPermissionDenied, "you do not own this assignment")
	ErrInvalidGroupPolicy   = NewCustomError(ErrValidationFailed, "group policy must be individual, manual or automatic")
	ErrGroupSizeRequired    = NewCustomError(ErrValidationFailed, "max group size must be greater than zero for group assignments")
	ErrAssignmentDeadline   = NewCustomError(ErrDeadlinePassed, "assignment deadline has passed")
	ErrInvalidDeadline      = NewCustomError(ErrValidationFailed, "deadline is required")
	ErrPolicyChangeRejected = NewCustomError(ErrValidationFailed, "group policy cannot be changed after creation")
)

// Group errors
var (
	ErrGroupNotFound          = NewCustomError(ErrResourceNotFound, "group not found")
	ErrGroupNotInAssignment   = NewCustomError(ErrResourceNotFound, "group does not belong to this assignment")
	ErrStudentOnly            = NewCustomError(ErrPermissionDenied, "only students can perform this action")
	ErrJoinNotAllowed         = NewCustomError(ErrValidationFailed, "joining is not allowed for this assignment")
	ErrGroupSizeNotConfigured = NewCustomError(ErrValidationFailed, "group size not configured")
	ErrAlreadyInGroup         = NewCustomError(ErrDuplicate, "you already belong to another group for this assignment")
	ErrGroupFull              = NewCustomError(ErrCapacityExceeded, "group is full")
)

// Submission errors
var (
	ErrAlreadySubmitted    = NewCustomError(ErrDuplicate, "you already submitted this assignment")
	ErrSubmissionEmpty     = NewCustomError(ErrValidationFailed, "provide at least a file or a submission link")
	ErrGroupRequired       = NewCustomError(ErrValidationFailed, "a group is required for this assignment")
	ErrNotGroupMember      = NewCustomError(ErrPermissionDenied, "you must join the group before submitting")
	ErrSubmissionNotFound  = NewCustomError(ErrResourceNotFound, "submission not found")
	ErrInvalidLink         = NewCustomError(ErrValidationFailed, "link must be an absolute http or https URL")
	ErrUploadNotConfigured = errors.New("file storage is not configured")
)

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// Kind returns the error kind err unwraps to, or nil for unclassified errors.
func Kind(err error) error {
	for _, kind := range []error{
		ErrPermissionDenied,
		ErrDeadlinePassed,
		ErrCapacityExceeded,
		ErrDuplicate,
		ErrValidationFailed,
		ErrResourceNotFound,
		ErrResourceAlreadyExists,
		ErrInvalidCredentials,
		ErrTokenExpired,
		ErrTokenInvalid,
		ErrAccountDisabled,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails returns a copy of the error carrying context details.
// The copy still matches the original sentinel through errors.Is.
func (e *CustomError) WithDetails(details map[string]interface{}) error {
	return &detailedError{CustomError: CustomError{Err: e, Message: e.Message, Details: details}}
}

type detailedError struct {
	CustomError
}

func (e *detailedError) Unwrap() error {
	return e.Err
}

// DetailsOf returns the details attached to err, if any.
func DetailsOf(err error) map[string]interface{} {
	var de *detailedError
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
