package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/gin-gonic/gin"
)

// statusForError maps an error kind onto the HTTP status returned to callers.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrAccountInactive):
		return http.StatusLocked
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrInvalidData):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicateTransaction), errors.Is(err, apperrors.ErrDuplicateFraudCase):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrResourceBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError logs err and writes the matching status with an ErrorResponse body.
// Internal failures are reported with publicMsg instead of the raw error.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, publicMsg string) {
	status := statusForError(err)
	body := dto.ErrorResponse{
		Error:     err.Error(),
		Kind:      apperrors.KindName(err),
		Retryable: apperrors.IsRetryable(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error(publicMsg, slog.String("error", err.Error()), slog.String("kind", body.Kind))
		if status == http.StatusInternalServerError {
			body.Error = publicMsg
		}
	} else {
		logger.Warn(publicMsg, slog.String("error", err.Error()), slog.String("kind", body.Kind))
	}
	c.JSON(status, body)
}

// respondBindError writes a 400 for a request body that failed to bind.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request format: " + err.Error(),
		Kind:  apperrors.KindName(apperrors.ErrInvalidData),
	})
}
