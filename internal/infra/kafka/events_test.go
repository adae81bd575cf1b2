package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T) (*EventPublisher, *fakeAsyncProducer) {
	t.Helper()

	asyncProducer := newFakeAsyncProducer()
	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "accounts",
		},
		done: make(chan struct{}),
	}

	publisher := NewEventPublisher(producer, config.AppSettings{
		Name: "accounts-service",
		Env:  "test",
	}, zaptest.NewLogger(t))

	return publisher, asyncProducer
}

func TestPublishAccountRegistered(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	registeredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	event := domain.AccountRegisteredEvent{
		EventID:      "event-123",
		AccountID:    "acc-456",
		Nickname:     "brisk_otter_0001",
		Email:        "user@example.com",
		Role:         domain.RoleAdmin,
		RegisteredAt: registeredAt,
	}

	if err := publisher.PublishAccountRegistered(context.Background(), event); err != nil {
		t.Fatalf("PublishAccountRegistered returned error: %v", err)
	}

	message := <-asyncProducer.input
	if message.Topic != "accounts.account.registered" {
		t.Fatalf("expected topic accounts.account.registered, got %s", message.Topic)
	}

	raw, err := message.Value.Encode()
	if err != nil {
		t.Fatalf("encode message value: %v", err)
	}

	var envelope struct {
		EventID   string            `json:"event_id"`
		EventType string            `json:"event_type"`
		AccountID string            `json:"account_id"`
		Version   string            `json:"version"`
		Metadata  map[string]string `json:"metadata"`
		Payload   struct {
			Role         string    `json:"role"`
			RegisteredAt time.Time `json:"registered_at"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	if envelope.EventID != "event-123" {
		t.Fatalf("expected event id event-123, got %s", envelope.EventID)
	}
	if envelope.EventType != "account.registered" {
		t.Fatalf("expected event type account.registered, got %s", envelope.EventType)
	}
	if envelope.AccountID != "acc-456" {
		t.Fatalf("expected account id acc-456, got %s", envelope.AccountID)
	}
	if envelope.Version != schemaVersion {
		t.Fatalf("expected version %s, got %s", schemaVersion, envelope.Version)
	}
	if envelope.Metadata["service"] != "accounts-service" || envelope.Metadata["environment"] != "test" {
		t.Fatalf("unexpected metadata: %v", envelope.Metadata)
	}
	if envelope.Payload.Role != "ADMIN" {
		t.Fatalf("expected payload role ADMIN, got %s", envelope.Payload.Role)
	}
	if !envelope.Payload.RegisteredAt.Equal(registeredAt) {
		t.Fatalf("expected registered_at %v, got %v", registeredAt, envelope.Payload.RegisteredAt)
	}
}

func TestPublishHonorsContextCancellation(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	// Fill the input channel so the next publish would block.
	asyncProducer.input <- &sarama.ProducerMessage{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := publisher.PublishAccountLocked(ctx, domain.AccountLockedEvent{
		EventID:   "event-1",
		AccountID: "acc-1",
		LockedAt:  time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("expected cancelled context to abort publish")
	}
}

func TestTopicName(t *testing.T) {
	producer := &Producer{cfg: config.KafkaSettings{TopicPrefix: "accounts"}}

	if got := producer.TopicName("account.locked"); got != "accounts.account.locked" {
		t.Fatalf("expected prefixed topic, got %s", got)
	}
	if got := producer.TopicName("accounts.account.locked"); got != "accounts.account.locked" {
		t.Fatalf("expected already-prefixed topic unchanged, got %s", got)
	}

	bare := &Producer{cfg: config.KafkaSettings{}}
	if got := bare.TopicName("account.locked"); got != "account.locked" {
		t.Fatalf("expected unprefixed topic, got %s", got)
	}
}
