package shortener

import "context"

// Resolver is the redirect path. Each call ends in exactly one of
// ErrNotFound, ErrExpired or a resolved destination.
type Resolver struct {
	registry Registry
	clock    Clock
	events   emitter
}

// NewResolver creates a resolver. A nil sink discards events and a nil
// clock uses the system time.
func NewResolver(registry Registry, sink EventSink, clock Clock) *Resolver {
	clock = clockOrSystem(clock)

	return &Resolver{
		registry: registry,
		clock:    clock,
		events:   newEmitter(sink, clock),
	}
}

// Resolve returns the destination for code and counts the hit.
// Expired records are left in place and their hit count is not touched.
func (r *Resolver) Resolve(ctx context.Context, code Code) (string, error) {
	r.events.emit(MsgAttempt, map[string]any{"code": string(code)})

	shortURL, err := r.registry.Get(ctx, code)
	if err != nil {
		return "", err
	}

	if shortURL.Expired(r.clock.Now()) {
		return "", ErrExpired
	}

	if _, err := r.registry.IncrementHits(ctx, code); err != nil {
		return "", err
	}

	return shortURL.Destination, nil
}
