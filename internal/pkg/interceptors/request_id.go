// Package interceptors holds outbound middleware that carries request
// metadata across service hops.
package interceptors

import (
	"context"
	"net/http"

	"github.com/jcmexdev/product-catalog/internal/pkg/constants"
)

// RequestIDFromContext returns the request id stored by the inbound
// middleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeyRequestID).(string)
	return id
}

// ContextWithRequestID stores id under the key the logger and
// PropagateRequestID read.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

type requestIDTransport struct {
	next http.RoundTripper
}

// PropagateRequestID wraps next so every outgoing request carries the
// X-Request-Id of its context. A header already set by the caller wins.
func PropagateRequestID(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return requestIDTransport{next: next}
}

func (t requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := RequestIDFromContext(req.Context())
	if id == "" || req.Header.Get(constants.HeaderXRequestId) != "" {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	out := req.Clone(req.Context())
	out.Header.Set(constants.HeaderXRequestId, id)
	return t.next.RoundTrip(out)
}
