package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// KafkaSink exports every bus event to a Kafka topic, keyed by participant
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer connects a synchronous producer to brokers
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Retry.Max = KafkaMaxRetries
	cfg.Producer.Timeout = KafkaProducerTimeout
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// NewKafkaSink wraps a producer. An empty topic uses KafkaDefaultTopic.
func NewKafkaSink(producer sarama.SyncProducer, topic string) *KafkaSink {
	if topic == "" {
		topic = KafkaDefaultTopic
	}
	return &KafkaSink{producer: producer, topic: topic}
}

// Register subscribes the sink to every event type on bus
func (k *KafkaSink) Register(bus Bus) {
	SubscribeAll(bus, k.Handle)
}

// Handle sends one event. A send failure is returned so the resilient
// publisher can retry the event.
func (k *KafkaSink) Handle(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", evt.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(evt.Type)},
			{Key: []byte("schema_version"), Value: []byte(evt.Version)},
		},
		Timestamp: evt.OccurredAt,
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if key := partitionKey(evt); key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgKafkaSendFailed, "event_type", evt.Type, "error", err)
		return fmt.Errorf("kafka send %s: %w", evt.Type, err)
	}

	logger.FromContext(ctx).Debug(LogMsgKafkaSent,
		"event_type", evt.Type,
		"partition", partition,
		"offset", offset)
	return nil
}

// Close closes the underlying producer
func (k *KafkaSink) Close() error {
	return k.producer.Close()
}

func partitionKey(evt Event) string {
	keyed, err := DecodePayload[struct {
		ParticipantID string `json:"participant_id"`
		Guild         string `json:"guild"`
	}](evt.Payload)
	if err != nil {
		return ""
	}
	if keyed.ParticipantID != "" {
		return keyed.ParticipantID
	}
	return keyed.Guild
}
