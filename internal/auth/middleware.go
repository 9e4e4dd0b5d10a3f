package auth

import (
	"net/http"

	"hsaledger/internal"
	"hsaledger/internal/transport"
)

// Middleware authenticates every request with the bearer token from the
// Authorization header. Missing or bad tokens yield 401 AppErrors, kept
// distinct from validation failures.
func Middleware(base *transport.BaseHandler, verifier VerifierAPI) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := base.ExtractTokenFromHeader(r)
			if token == "" {
				base.Logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
				base.HandleServiceError(w, internal.ErrMissingToken)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				base.Logger.Warn("auth middleware: token rejected", "error", err, "path", r.URL.Path)
				base.HandleServiceError(w, err)
				return
			}

			user := &User{ID: claims.Subject, Email: claims.Email}
			ctx := ContextWithUser(r.Context(), user)
			ctx = internal.ContextWithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
