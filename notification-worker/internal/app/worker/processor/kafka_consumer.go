package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"barbersbuddies/notification-worker/internal/app/worker/service"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/metrics"
)

const serviceName = "notification-worker"

// messageReader is the part of kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.ReaderStats
}

// KafkaConsumer feeds events to the triggers. An offset is committed only
// after its trigger succeeded; a failed message is retried in place with
// growing delays, up to maxAttempts.
type KafkaConsumer struct {
	reader      messageReader
	triggers    service.TriggerServiceInterface
	topic       string
	groupID     string
	retryDelay  time.Duration
	maxAttempts int
	stopChan    chan struct{}
	doneChan    chan struct{}
}

func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	triggers service.TriggerServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0, // synchronous commits
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return newKafkaConsumer(reader, topic, groupID, triggers)
}

func newKafkaConsumer(reader messageReader, topic, groupID string, triggers service.TriggerServiceInterface) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		triggers:    triggers,
		topic:       topic,
		groupID:     groupID,
		retryDelay:  2 * time.Second,
		maxAttempts: 6,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Error().Err(err).Msg("Error closing Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(readCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if readCtx.Err() == nil {
				metrics.RecordKafkaError(serviceName, c.topic, "fetch")
				logger.Error().Err(err).Msg("Error fetching message")
				c.sleep(time.Second)
			}
			continue
		}

		c.handle(ctx, message)
	}
}

// handle processes one message until it succeeds, is undecodable, runs out
// of attempts, or the consumer stops. Later messages of the partition wait
// behind it.
func (c *KafkaConsumer) handle(ctx context.Context, message kafka.Message) {
	delay := c.retryDelay

	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := c.processMessage(ctx, message)
		if err == nil {
			metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))
			c.commit(ctx, message)
			return
		}

		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			metrics.RecordKafkaError(serviceName, c.topic, "decode")
			logger.Error().Err(err).Int64("offset", message.Offset).Msg("Dropping undecodable message")
			c.commit(ctx, message)
			return
		}

		metrics.RecordKafkaError(serviceName, c.topic, "process")
		if attempt >= c.maxAttempts {
			logger.Error().
				Err(err).
				Int64("offset", message.Offset).
				Int("partition", message.Partition).
				Int("attempts", attempt).
				Msg("Giving up on message")
			c.commit(ctx, message)
			return
		}

		logger.Warn().
			Err(err).
			Int64("offset", message.Offset).
			Int("partition", message.Partition).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("Error processing message, retrying")

		if !c.sleep(delay) || ctx.Err() != nil {
			return
		}
		delay *= 2
	}
}

func (c *KafkaConsumer) commit(ctx context.Context, message kafka.Message) {
	if err := c.reader.CommitMessages(ctx, message); err != nil {
		metrics.RecordKafkaError(serviceName, c.topic, "commit")
		logger.Error().Err(err).Int64("offset", message.Offset).Msg("Error committing message")
	}
}

// sleep waits for d and reports false if the consumer was stopped meanwhile.
func (c *KafkaConsumer) sleep(d time.Duration) bool {
	select {
	case <-c.stopChan:
		return false
	case <-time.After(d):
		return true
	}
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(message.Value, &env); err != nil {
		return &decodeError{err: fmt.Errorf("failed to unmarshal event envelope: %w", err)}
	}

	logger.Debug().
		Str("event_type", env.Type).
		Str("event_id", env.ID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received event")

	return c.triggers.Handle(ctx, &env)
}

func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
