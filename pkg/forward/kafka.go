// Package forward publishes received notifications to Kafka.
package forward

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mwuertinger/nest-events/pkg/config"
	"github.com/mwuertinger/nest-events/pkg/event"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

const (
	unknownKey = "unknown-device"

	defaultBatchTimeout = 5 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka writes the summary of each message to a topic, keyed by the device
// or relation object so updates of one resource stay in order.
type Kafka struct {
	writer messageWriter
}

// NewKafka returns a forwarder with a synchronous writer. Every call writes
// a single message, so batches are flushed right away.
func NewKafka(kafkaConfig config.Kafka) *Kafka {
	batchTimeout := kafkaConfig.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}
	return &Kafka{writer: &kafka.Writer{
		Addr:         kafka.TCP(kafkaConfig.Brokers...),
		Topic:        kafkaConfig.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchSize:    1,
		BatchTimeout: batchTimeout,
	}}
}

func (k *Kafka) HandleEvent(ctx context.Context, msg *event.Message) error {
	summary, err := event.Summarize(msg)
	if err != nil {
		return err
	}
	m, err := encode(summary)
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, m); err != nil {
		return errors.Wrap(err, "kafka write")
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

func encode(summary event.Summary) (kafka.Message, error) {
	value, err := json.Marshal(summary)
	if err != nil {
		return kafka.Message{}, errors.Wrap(err, "encode summary")
	}

	key := summary.Device
	if key == "" && summary.Relation != nil {
		key = summary.Relation.Object
	}
	if key == "" {
		key = unknownKey
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  summary.Timestamp,
		Headers: []kafka.Header{
			{Key: "eventId", Value: []byte(summary.EventID)},
		},
	}, nil
}
