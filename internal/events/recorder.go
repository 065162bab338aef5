package events

import (
	"context"

	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"go.uber.org/zap"
)

// Recorder is the consumer-side handler for events read off the transport.
type Recorder struct {
	logger *zap.Logger
}

// NewRecorder creates a recorder that logs each received event.
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Handle satisfies messaging.Handler[shortener.Event].
func (r *Recorder) Handle(_ context.Context, event *shortener.Event) error {
	fields := append([]zap.Field{zap.String("event", event.Msg)}, eventFields(event)...)
	r.logger.Info("event received", fields...)

	return nil
}
