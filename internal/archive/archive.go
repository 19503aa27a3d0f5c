// Package archive publishes persisted chat messages to Kafka for downstream
// consumers (search indexing, moderation). Publishing is strictly best-effort
// and always happens after the message is durable in MySQL.
package archive

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

// Event is the archive record for one persisted message.
type Event struct {
	Kind           string    `json:"kind"` // "direct" or "group"
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId,omitempty"`
	GroupID        string    `json:"groupId,omitempty"`
	SenderID       string    `json:"senderId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Sink receives archive events. A nil Sink is valid and drops everything,
// which is how the service runs with Kafka disabled.
type Sink interface {
	Publish(e Event)
}

// Publisher writes archive events to a Kafka topic, keyed by conversation or
// group so one thread stays in one partition.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

func (p *Publisher) Publish(e Event) {
	value, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal archive event", "messageID", e.MessageID, "error", err)
		return
	}

	key := e.ConversationID
	if key == "" {
		key = e.GroupID
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		slog.Error("Failed to publish archive event", "messageID", e.MessageID, "error", err)
	}
}
