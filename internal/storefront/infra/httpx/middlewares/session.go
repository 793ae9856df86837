package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jcmexdev/product-catalog/internal/pkg/constants"
)

const sessionMaxAge = 30 * 24 * 60 * 60

// Session makes sure every request carries a session id. A missing or
// malformed cookie is replaced with a fresh uuid.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(constants.CookieSession); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     constants.CookieSession,
				Value:    sid,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), constants.ContextKeySessionID, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the id Session stored in ctx, or "".
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(constants.ContextKeySessionID).(string)
	return sid
}
