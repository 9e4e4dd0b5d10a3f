package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"hsaledger/internal"
	"hsaledger/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.L()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a plain error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.WriteJSON(w, status, map[string]interface{}{
		"code":    status,
		"message": message,
	})
}

// HandleServiceError maps a service error onto the wire. AppErrors are
// written flat (type/code/message/details at the top level) because the
// client parses message and, for over-limit failures, the detail figures
// out of the response body directly.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if details, ok := appErr.Details.(internal.OverLimitDetails); ok {
		h.WriteJSON(w, appErr.StatusCode, map[string]interface{}{
			"type":            appErr.Type,
			"code":            appErr.Code,
			"message":         appErr.Message,
			"expenseAmount":   details.ExpenseAmount,
			"currentTotal":    details.CurrentTotal,
			"attemptedAmount": details.AttemptedAmount,
		})
		return
	}

	h.WriteJSON(w, appErr.StatusCode, appErr)
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
