package constants

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestId = "X-Request-Id"

	// CookieSession carries the browser session that owns a cart.
	CookieSession = "catalog_session"

	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = "request_id"
	// ContextKeySessionID is the context key for the cart session ID.
	ContextKeySessionID contextKey = "session_id"
)
