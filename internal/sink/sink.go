// Package sink delivers recovered messages to their destination.
package sink

import (
	"context"

	"golang.org/x/time/rate"

	"qsrescue/internal/model"
)

// Sink is the publish target for recovered messages. Publish blocks until
// the destination has taken the message; Close must be safe to call on every
// exit path, including early termination from a limit or a fatal error.
type Sink interface {
	Publish(ctx context.Context, body []byte, contentType model.ContentType) error
	Close() error
}

// Nop is the dry-run sink: every publish succeeds with no side effects, so a
// run still exercises scanning, decoding and validation in full and reports
// the expected recovery yield.
type Nop struct{}

// Publish implements Sink
func (Nop) Publish(context.Context, []byte, model.ContentType) error { return nil }

// Close implements Sink
func (Nop) Close() error { return nil }

// rateLimited throttles publishes against a wrapped sink
type rateLimited struct {
	next    Sink
	limiter *rate.Limiter
}

// RateLimited caps publishes at perSecond against the wrapped sink.
// perSecond <= 0 disables the cap and returns the sink unchanged.
func RateLimited(next Sink, perSecond float64) Sink {
	if perSecond <= 0 {
		return next
	}
	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Publish implements Sink
func (r *rateLimited) Publish(ctx context.Context, body []byte, contentType model.ContentType) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.Publish(ctx, body, contentType)
}

// Close implements Sink
func (r *rateLimited) Close() error { return r.next.Close() }
