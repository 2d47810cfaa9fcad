// Package requestcontext provides transport-independent context accessors for
// values scoped to the processing of one inbound event.
//
// Usage in consumers (set values):
//
//	ctx = requestcontext.WithEventID(ctx, event.ID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "docnotify/pkg/domain"
)

type (
	eventIDKey     struct{}
	requestTimeKey struct{}
)

// EventID returns the id of the event being processed, or the zero value.
func EventID(ctx context.Context) id.EventID {
	if eventID, ok := ctx.Value(eventIDKey{}).(id.EventID); ok {
		return eventID
	}
	return id.EventID{}
}

// WithEventID injects the id of the event being processed.
func WithEventID(ctx context.Context, eventID id.EventID) context.Context {
	return context.WithValue(ctx, eventIDKey{}, eventID)
}

// Now returns the time injected with WithTime, or time.Now.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the clock for everything downstream of ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
