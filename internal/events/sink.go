// Package events holds shortener.EventSink implementations: structured
// logging, transport publishing, metrics and fan-out.
package events

import (
	"github.com/hariprasanth02/2203031240132/internal/messaging"
	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"go.uber.org/zap"
)

// TopicEvents is the transport topic core events are published to.
const TopicEvents = "shortener.events"

// LoggerSink writes every event as a zap entry.
type LoggerSink struct {
	logger *zap.Logger
}

// NewLoggerSink creates a sink that logs events at info level.
func NewLoggerSink(logger *zap.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

func (s *LoggerSink) Log(event shortener.Event) {
	s.logger.Info(event.Msg, eventFields(&event)...)
}

// PublisherSink forwards events to a message transport. Publish failures
// are logged and dropped.
type PublisherSink struct {
	publish messaging.Publish[shortener.Event]
	logger  *zap.Logger
}

// NewPublisherSink creates a sink that publishes through publish.
func NewPublisherSink(publish messaging.Publish[shortener.Event], logger *zap.Logger) *PublisherSink {
	return &PublisherSink{
		publish: publish,
		logger:  logger,
	}
}

func (s *PublisherSink) Log(event shortener.Event) {
	if err := s.publish(&event); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("msg", event.Msg),
			zap.Error(err),
		)
	}
}

// Multi fans an event out to several sinks in order. A panicking sink is
// skipped; the rest still receive the event.
type Multi []shortener.EventSink

func (m Multi) Log(event shortener.Event) {
	for _, sink := range m {
		logSafely(sink, event)
	}
}

func logSafely(sink shortener.EventSink, event shortener.Event) {
	defer func() {
		_ = recover()
	}()

	sink.Log(event)
}

func eventFields(event *shortener.Event) []zap.Field {
	fields := make([]zap.Field, 0, len(event.Payload)+1)
	fields = append(fields, zap.Time("eventTime", event.Time))

	for key, value := range event.Payload {
		fields = append(fields, zap.Any(key, value))
	}

	return fields
}

// Compile-time checks.
var (
	_ shortener.EventSink = (*LoggerSink)(nil)
	_ shortener.EventSink = (*PublisherSink)(nil)
	_ shortener.EventSink = Multi(nil)
)
