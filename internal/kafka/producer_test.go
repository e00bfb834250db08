package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"money-transfer-backend/internal/models"
)

func newTestProducer(t *testing.T) (*KafkaProducer, *mocks.SyncProducer) {
	t.Helper()

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	mockProducer := mocks.NewSyncProducer(t, config)

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return &KafkaProducer{
		producer: mockProducer,
		topic:    "transactions.created",
		log:      log,
	}, mockProducer
}

func TestKafkaProducer_Send_KeyedByUserID(t *testing.T) {
	producer, mockProducer := newTestProducer(t)

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "transactions.created" {
			return fmt.Errorf("unexpected topic %q", msg.Topic)
		}

		// ключ партиционирования — id пользователя: события одного
		// пользователя попадают в одну партицию и сохраняют порядок
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return fmt.Errorf("partition key must be the user id, got %q", key)
		}

		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var event models.TransactionCreatedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return fmt.Errorf("payload is not a valid event: %w", err)
		}
		if event.CreatedByUserID != 42 {
			return fmt.Errorf("unexpected created_by_user_id %d", event.CreatedByUserID)
		}
		return nil
	})

	event := sampleEvent()
	event.CreatedByUserID = 42

	err := producer.SendTransactionCreatedEvent(context.Background(), event)

	require.NoError(t, err)
	require.NoError(t, mockProducer.Close())
}

func TestKafkaProducer_Send_BrokerError(t *testing.T) {
	producer, mockProducer := newTestProducer(t)

	brokerErr := errors.New("kafka: broker not available")
	mockProducer.ExpectSendMessageAndFail(brokerErr)

	err := producer.SendTransactionCreatedEvent(context.Background(), sampleEvent())

	assert.ErrorIs(t, err, brokerErr)
	require.NoError(t, mockProducer.Close())
}

func TestNoOpProducer_DropsEventWithWarning(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	producer := NewNoOpProducer(log)

	err := producer.SendTransactionCreatedEvent(context.Background(), sampleEvent())

	require.NoError(t, err)
	// потеря события без kafka — не тихий debug, а предупреждение
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	require.NoError(t, producer.Close())
}
