package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/application/service"
	"github.com/rkstores/billing-api/internal/presentation/http/dto/response"
	"github.com/rkstores/billing-api/pkg/apperror"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, exists := c.Get("user_roles")
	if !exists {
		return nil
	}
	return roles.([]string)
}

// respondBindingError renders field-level validation failures from request
// binding. Non-validator errors (malformed JSON) get a generic bad request.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.BadRequest(c, "Invalid request body")
		return
	}
	fieldErrors := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: "failed on " + fe.Tag() + " validation",
		})
	}
	response.ValidationError(c, fieldErrors)
}

// respondServiceError maps engine sentinel errors onto HTTP responses.
// Unrecognized errors fall through to the apperror mapping.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDetails),
		errors.Is(err, service.ErrAmountExceeded):
		response.ErrorWithCode(c, 422, err.Error())
	case errors.Is(err, service.ErrAuthorizationRequired),
		errors.Is(err, service.ErrOtpRejected):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrOtpExpired):
		response.ErrorWithCode(c, 410, err.Error())
	case errors.Is(err, service.ErrChannelUnavailable):
		response.ErrorWithCode(c, 503, err.Error())
	default:
		response.Error(c, err)
	}
}
