package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	dr "disaster_response"

	"github.com/segmentio/kafka-go"
)

const kafkaName = "kafka"

var (
	ErrNoBrokers = errors.New("kafka publisher requires at least one broker")
	ErrNoTopic   = errors.New("kafka publisher requires a topic")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes each alert as a JSON message keyed by location, so alerts
// for one location stay ordered within a partition.
type Kafka struct {
	topic  string
	writer messageWriter
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if strings.TrimSpace(topic) == "" {
		return nil, ErrNoTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaWithWriter(topic, w), nil
}

func newKafkaWithWriter(topic string, w messageWriter) *Kafka {
	return &Kafka{topic: topic, writer: w}
}

func (k *Kafka) Name() string { return kafkaName }

func (k *Kafka) Notify(ctx context.Context, alerts []dr.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(alerts))
	for _, a := range alerts {
		value, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode alert %s: %w", a.AlertID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(a.Location),
			Value: value,
			Headers: []kafka.Header{
				{Key: "severity", Value: []byte(a.Severity)},
			},
		})
	}
	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d alerts to %s: %w", len(msgs), k.topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
