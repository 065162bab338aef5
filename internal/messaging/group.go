package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a component with a start/stop lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// topicOf names a consumer in logs. Consumers without a topic log as "".
func topicOf(r Runnable) string {
	if t, ok := r.(interface{ Topic() string }); ok {
		return t.Topic()
	}

	return ""
}

// ConsumerGroup starts and stops consumers together and closes their
// shared subscriber last.
type ConsumerGroup struct {
	consumers  []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates a new consumer group.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a consumer to the group.
func (g *ConsumerGroup) Add(consumer Runnable) {
	g.consumers = append(g.consumers, consumer)
}

// Start starts every consumer. If one fails, those already started are
// shut down in reverse order.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			g.logger.Error("consumer failed to start",
				zap.String("topic", topicOf(consumer)),
				zap.Error(err),
			)

			for j := i - 1; j >= 0; j-- {
				_ = g.shutdownConsumer(g.consumers[j])
			}

			return fmt.Errorf("start consumer %d: %w", i, err)
		}
	}

	g.logger.Info("consumer group started", zap.Int("count", len(g.consumers)))

	return nil
}

// Shutdown stops all consumers, then closes the subscriber. The first
// error is returned but every step is attempted.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("shutting down consumer group")

	var firstErr error

	for _, consumer := range g.consumers {
		if err := g.shutdownConsumer(consumer); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := g.subscriber.Close(); err != nil {
		g.logger.Error("subscriber close failed", zap.Error(err))

		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (g *ConsumerGroup) shutdownConsumer(consumer Runnable) error {
	err := consumer.Shutdown()
	if err != nil {
		g.logger.Error("consumer shutdown failed",
			zap.String("topic", topicOf(consumer)),
			zap.Error(err),
		)
	}

	return err
}
