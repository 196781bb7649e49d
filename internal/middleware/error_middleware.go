package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

type errorMapping struct {
	status int
	code   dto.ErrorCode
}

// errorMappings is checked in order; the first kind err unwraps to wins
var errorMappings = []struct {
	kind error
	errorMapping
}{
	{apperrors.ErrPermissionDenied, errorMapping{http.StatusForbidden, dto.ErrorCodeForbidden}},
	{apperrors.ErrDeadlinePassed, errorMapping{http.StatusUnprocessableEntity, dto.ErrorCodeDeadlinePassed}},
	{apperrors.ErrCapacityExceeded, errorMapping{http.StatusConflict, dto.ErrorCodeCapacityExceeded}},
	{apperrors.ErrDuplicate, errorMapping{http.StatusConflict, dto.ErrorCodeDuplicate}},
	{apperrors.ErrResourceAlreadyExists, errorMapping{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists}},
	{apperrors.ErrValidationFailed, errorMapping{http.StatusBadRequest, dto.ErrorCodeValidationFailed}},
	{apperrors.ErrResourceNotFound, errorMapping{http.StatusNotFound, dto.ErrorCodeResourceNotFound}},
	{apperrors.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials}},
	{apperrors.ErrTokenExpired, errorMapping{http.StatusUnauthorized, dto.ErrorCodeExpiredToken}},
	{apperrors.ErrTokenInvalid, errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidToken}},
	{apperrors.ErrAccountDisabled, errorMapping{http.StatusForbidden, dto.ErrorCodeAccountDisabled}},
	{apperrors.ErrUploadNotConfigured, errorMapping{http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError}},
}

// HandleAPIError writes the error envelope for err. Known kinds keep their message;
// anything else is logged and reported as an internal error.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		errorDetail := dto.NewErrorDetail(m.code, err.Error())
		if details := apperrors.DetailsOf(err); details != nil {
			errorDetail = errorDetail.WithDetails(details)
		}
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(errorDetail))
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error")

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
}

// HandleBindingError answers a failed ShouldBind call with the offending fields
func HandleBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{Field: fe.Field(), Message: formatValidationError(fe)})
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(fields)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
		WithDetails(err.Error())
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// HandleInvalidID answers a malformed path parameter
func HandleInvalidID(c *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
