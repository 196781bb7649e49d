package dto

import "time"

// ErrorCode is the machine readable code carried in every error envelope
type ErrorCode string

// Error codes. The prefix names the family: AUTH (401/403), RES (404/409), VAL (400),
// BUS (business rule rejections) and SRV (5xx).
const (
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"
	ErrorCodeAccountDisabled    ErrorCode = "AUTH_010"

	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	ErrorCodeDeadlinePassed   ErrorCode = "BUS_001"
	ErrorCodeCapacityExceeded ErrorCode = "BUS_002"
	ErrorCodeDuplicate        ErrorCode = "BUS_003"

	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
)

// ErrorSeverity tells clients whether an error is worth surfacing to operators
type ErrorSeverity string

const (
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail is the error member of the response envelope
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"BUS_002"`
	Message  string        `json:"message" example:"group is full"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	// Details holds rejection context such as {"groupId": 4} or a []FieldError list
	Details interface{} `json:"details,omitempty"`
}

// FieldError describes one request field that failed binding validation
type FieldError struct {
	Field   string `json:"field" example:"title"`
	Message string `json:"message" example:"This field is required"`
}

// NewErrorDetail creates an ERROR severity detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{Code: code, Message: message, Severity: ErrorSeverityError}
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails attaches rejection context
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse wraps a detail in the standard envelope
func NewErrorResponse(errorDetail *ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now().UTC(),
	}
}
