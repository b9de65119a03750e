package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/pkg/apperrors"
	"github.com/consolahealth/studenthealth/internal/pkg/dberrors"
	"github.com/consolahealth/studenthealth/internal/pkg/logger"
)

// HandleAPIError maps an error to its status code and writes the error envelope.
// Anything not recognised is logged and reported as a 500 without internals.
func HandleAPIError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors

	switch {
	case apperrors.IsNotFound(err):
		abortWith(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()))
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
		if fields := apperrors.DetailsOf(err); len(fields) > 0 {
			detail = detail.WithDetails(fields)
		}
		abortWith(c, http.StatusBadRequest, detail)
	case errors.As(err, &verrs):
		abortWith(c, http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "invalid query parameters").WithDetails(BindingErrorDetails(verrs)))
	case errors.Is(err, apperrors.ErrBadRequest):
		abortWith(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, err.Error()))
	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
		if fields := apperrors.DetailsOf(err); len(fields) > 0 {
			detail = detail.WithDetails(fields)
		}
		abortWith(c, http.StatusConflict, detail)
	case errors.Is(err, apperrors.ErrConflict):
		abortWith(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error()))
	case dberrors.IsDatabaseError(err):
		logger.Error().Err(err).
			Str("requestId", GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("Database error")
		abortWith(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error"))
	default:
		logger.Error().Err(err).
			Str("requestId", GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled API error")
		abortWith(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}

func abortWith(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
