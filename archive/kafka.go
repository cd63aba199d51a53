package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"newsbrief/types"

	"github.com/IBM/sarama"
)

// BriefEvent is the message value published for each completed brief
type BriefEvent struct {
	ID           string           `json:"id"`
	Mode         types.Mode       `json:"mode"`
	Topic        string           `json:"topic"`
	Text         string           `json:"text"`
	ArticleCount int              `json:"article_count"`
	Sentiment    *types.Sentiment `json:"sentiment,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// KafkaSink publishes one event per brief, keyed by brief ID
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

var _ Sink = (*KafkaSink)(nil)

// ProducerConfig is the sarama configuration used for brief events
func ProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	return cfg
}

func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	producer, err := sarama.NewSyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaSinkWithProducer(producer, topic), nil
}

func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (k *KafkaSink) Publish(ctx context.Context, b *types.Brief) error {
	if b == nil {
		return nil
	}

	value, err := json.Marshal(BriefEvent{
		ID:           b.ID,
		Mode:         b.Mode,
		Topic:        b.Topic,
		Text:         b.Text,
		ArticleCount: len(b.Articles),
		Sentiment:    b.Sentiment,
		CreatedAt:    b.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("kafka archive: failed to encode brief %s: %w", b.ID, err)
	}

	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(b.ID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("kafka archive: failed to send brief %s: %w", b.ID, err)
	}
	return nil
}

func (k *KafkaSink) Close() error {
	return k.producer.Close()
}
