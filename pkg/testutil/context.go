package testutil

import (
	"context"
	"time"

	"census/pkg/requestcontext"
)

// TestRequestID is the request id FixedContext injects.
const TestRequestID = "test-request"

// FixedContext returns a background context carrying a fixed request time
// and TestRequestID, as the HTTP middleware chain would.
func FixedContext(now time.Time) context.Context {
	ctx := requestcontext.WithTime(context.Background(), now)
	return requestcontext.WithRequestID(ctx, TestRequestID)
}
