package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
	"github.com/ygo/ydk-maker/internal/models"
)

type Producer struct {
	producer *kafka.Producer
	logger   *logrus.Logger
	topic    string
}

type ProducerConfig struct {
	Brokers string
	Topic   string
	Logger  *logrus.Logger
}

func NewProducer(config ProducerConfig) (*Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": config.Brokers,
		"client.id":         "ydk-maker",
		"acks":              "all",
		"compression.type":  "snappy",
		"linger.ms":         10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	producer := &Producer{
		producer: p,
		logger:   config.Logger,
		topic:    config.Topic,
	}

	// Start delivery report handler
	go producer.handleDeliveryReports()

	return producer, nil
}

func (p *Producer) handleDeliveryReports() {
	for e := range p.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				p.logger.Errorf("Delivery failed: %v", ev.TopicPartition.Error)
			} else {
				p.logger.Debugf("Delivered message to %v", ev.TopicPartition)
			}
		}
	}
}

// PublishDeck publishes a converted deck event to Kafka
func (p *Producer) PublishDeck(event models.DeckEvent) error {
	msg, err := newDeckMessage(p.topic, event)
	if err != nil {
		return err
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("failed to produce deck message: %w", err)
	}

	p.logger.Debugf("Published %s event %s to topic %s", event.EventType, event.EventID, p.topic)
	return nil
}

// newDeckMessage builds the Kafka message for a deck event, keyed by event id
func newDeckMessage(topic string, event models.DeckEvent) (*kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deck event: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.EventID),
		Value:          data,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(event.EventType)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}, nil
}

// Flush waits for all messages to be delivered
func (p *Producer) Flush(timeoutMs int) int {
	return p.producer.Flush(timeoutMs)
}

// Close closes the producer
func (p *Producer) Close() {
	p.producer.Close()
}
