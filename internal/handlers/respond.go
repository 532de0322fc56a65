package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// respondError writes err with the status apperrors.HTTPStatus assigns it.
// Server-side failures hide the cause behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, what string, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + ": " + err.Error()})
}

// requireUser returns the authenticated user or writes 401.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// parseOptionalDate parses a YYYY-MM-DD query value. Empty yields nil.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, apperrors.NewValidationError("dates must be YYYY-MM-DD")
	}
	return &t, nil
}
