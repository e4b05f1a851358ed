package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Error codes returned in the "code" field of error bodies.
const (
	codeInvalidArgument = "INVALID_ARGUMENT"
	codeNotFound        = "NOT_FOUND"
	codeRateNotFound    = "RATE_NOT_FOUND"
	codeDuplicate       = "DUPLICATE"
	codeConflict        = "CONFLICT"
	codeInvalidState    = "INVALID_STATE"
	codeUnauthorized    = "UNAUTHORIZED"
	codeInternal        = "INTERNAL"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps service errors to a status and a body carrying the full error
// text, so callers learn which pair, date or entry failed. Only unexpected errors
// are replaced by fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status, code := http.StatusInternalServerError, codeInternal
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status, code = http.StatusBadRequest, codeInvalidArgument
	case errors.Is(err, apperrors.ErrRateNotFound):
		status, code = http.StatusNotFound, codeRateNotFound
	case errors.Is(err, apperrors.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		status, code = http.StatusConflict, codeDuplicate
	case errors.Is(err, apperrors.ErrInvalidState):
		status, code = http.StatusConflict, codeInvalidState
	case errors.Is(err, apperrors.ErrConflict):
		status, code = http.StatusConflict, codeConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, errorResponse{Error: fallback, Code: code})
		return
	}
	logger.Warn("Request rejected", slog.String("code", code), slog.String("error", err.Error()))
	c.JSON(status, errorResponse{Error: err.Error(), Code: code})
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request format: " + err.Error(), Code: codeInvalidArgument})
}

// requireUserID returns the authenticated caller or writes a 401.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized", Code: codeUnauthorized})
	}
	return userID, ok
}
