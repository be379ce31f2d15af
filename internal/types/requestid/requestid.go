// Package requestid attaches unique identifiers to HTTP requests and the
// background tasks they submit.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// RequestID is a unique identifier for a request.
type RequestID string

// HeaderKey is the response header carrying the request ID.
const HeaderKey = "X-Request-ID"

// contextKey is an unexported type for context keys defined in this package.
type contextKey struct{}

// Generate generates a new random request ID.
func Generate() RequestID {
	return RequestID(uuid.NewString())
}

// FromContext returns the RequestID value stored in ctx, if any.
func FromContext(ctx context.Context) (RequestID, bool) {
	id, exists := ctx.Value(contextKey{}).(RequestID)
	return id, exists
}

// NewContext returns a new Context that carries value requestID.
func NewContext(ctx context.Context, requestID RequestID) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}
