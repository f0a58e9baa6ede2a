package handlers

import (
	"errors"
	"net/http"

	"tourbook/services/booking"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps the booking error taxonomy to HTTP. Every response
// carries a stable machine-readable code and a short message; internal
// details and backend identity never leak. Rate limiting is rejected at
// the middleware edge before a handler ever runs.
func respondError(c *gin.Context, err error) {
	var guardErr *booking.GuardError
	var validationErr *booking.ValidationError
	var capacityErr *booking.CapacityConflictError
	var conflictErr *booking.ConflictError
	var notFoundErr *booking.NotFoundError
	var providerErr *booking.ProviderError

	switch {
	case errors.As(err, &guardErr):
		c.JSON(http.StatusForbidden, utils.ErrorResponse{
			Code:    guardErr.Code,
			Message: guardErr.Message,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{
			Code:    "validation_failed",
			Message: "request failed validation",
			Details: validationErr.Details,
		})
	case errors.As(err, &capacityErr):
		c.JSON(http.StatusConflict, utils.ErrorResponse{
			Code:    "capacity_conflict",
			Message: capacityErr.Message,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, utils.ErrorResponse{
			Code:    conflictErr.Code,
			Message: conflictErr.Message,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, utils.ErrorResponse{
			Code:    "not_found",
			Message: notFoundErr.Error(),
		})
	case errors.As(err, &providerErr):
		utils.GetLogger().Error("provider failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, utils.ErrorResponse{
			Code:    "provider_error",
			Message: "The scheduling service is temporarily unavailable. Please try again.",
		})
	default:
		utils.GetLogger().Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{
			Code:    "internal_error",
			Message: "An unexpected error occurred.",
		})
	}
}
