package middleware

import (
	"net/http"

	"hsaledger/pkg/logger"

	"github.com/google/uuid"
)

// TraceHeader is echoed back on every response so clients can quote the
// ID when reporting a failed upload or reimbursement.
const TraceHeader = "X-Trace-ID"

// RequestID tags each request with a trace ID, minting one when the
// client sent none, and stamps it onto the request-scoped logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
