package adaptor

import (
	"context"
	"errors"
	"net/http"

	"resort-booking/internal/reservation"
	"resort-booking/pkg/utils"

	"go.uber.org/zap"
)

// Error codes returned in the "code" field of failed responses.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "BOOKING_CONFLICT"
	CodeRetryExhausted    = "BOOKING_BUSY"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeTimeout           = "TIMEOUT"
	CodeInternal          = "INTERNAL_ERROR"
)

// writeServiceError maps the reservation error kinds onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *reservation.ValidationError
		conflictErr   *reservation.BookingConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.ResponseError(w, http.StatusBadRequest, CodeValidation, validationErr.Message, validationErr.Fields)

	case errors.Is(err, reservation.ErrValidation):
		utils.ResponseError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)

	case errors.Is(err, reservation.ErrForbidden):
		utils.ResponseError(w, http.StatusForbidden, CodeForbidden, "You are not allowed to perform this action", nil)

	case errors.Is(err, reservation.ErrNotFound):
		utils.ResponseError(w, http.StatusNotFound, CodeNotFound, err.Error(), nil)

	case errors.As(err, &conflictErr):
		code := CodeConflict
		if conflictErr.RetriesExhausted {
			code = CodeRetryExhausted
		}
		utils.ResponseError(w, http.StatusConflict, code, conflictErr.Error(), nil)

	case errors.Is(err, reservation.ErrInvalidTransition):
		utils.ResponseError(w, http.StatusUnprocessableEntity, CodeInvalidTransition, err.Error(), nil)

	case errors.Is(err, context.DeadlineExceeded):
		log.Warn(operation+" timed out", zap.Error(err))
		utils.ResponseError(w, http.StatusGatewayTimeout, CodeTimeout, "Request timed out", nil)

	default:
		log.Error(operation+" failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}
