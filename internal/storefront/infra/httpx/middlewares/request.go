package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/product-catalog/internal/pkg/constants"
	"github.com/jcmexdev/product-catalog/internal/pkg/interceptors"
)

// AttachRequestMetadata copies chi's request id into the context key the
// logger reads and echoes it back to the client.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set(constants.HeaderXRequestId, requestID)
		}

		next.ServeHTTP(w, r.WithContext(interceptors.ContextWithRequestID(r.Context(), requestID)))
	})
}
