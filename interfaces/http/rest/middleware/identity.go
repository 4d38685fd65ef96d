package middleware

import (
	"context"
	"net/http"

	"tangle-backend/pkg/common"
)

// IdentityHeader names the header carrying the resolved user identity.
// Authentication itself happens upstream; this service only consumes
// the identity it produced.
const IdentityHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// Identity extracts the user identity from the request header and
// rejects requests without one.
func Identity() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(IdentityHeader)
			if userID == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the identity stored by the Identity middleware
func UserID(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}
