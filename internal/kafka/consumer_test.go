package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"money-transfer-backend/internal/models"
)

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) InsertIfNew(ctx context.Context, event models.TransactionCreatedEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) List(ctx context.Context, userID int64, q models.TransactionListQuery) ([]models.TransactionListItem, int, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.TransactionListItem), args.Int(1), args.Error(2)
}

func (m *mockTransactionRepo) UpdateStatus(ctx context.Context, id, userID int64, status models.TransactionStatus) (*models.Transaction, error) {
	args := m.Called(ctx, id, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func setupHandler() (*consumerGroupHandler, *mockTransactionRepo) {
	repo := new(mockTransactionRepo)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return &consumerGroupHandler{repo: repo, log: log}, repo
}

func sampleEvent() models.TransactionCreatedEvent {
	return models.TransactionCreatedEvent{
		EventID:         uuid.New(),
		CreatedByUserID: 1,
		SenderID:        10,
		ReceiverID:      20,
		SourceAmount:    10000,
		SourceCurrency:  "JPY",
		DestCurrency:    "NPR",
		ExchangeRate:    0.92,
		DestAmount:      9200,
		Fee:             500,
		TotalDestAmount: 9700,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
}

func messageFor(t *testing.T, event models.TransactionCreatedEvent) *sarama.ConsumerMessage {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{
		Topic:     "transactions.created",
		Partition: 0,
		Offset:    1,
		Value:     payload,
	}
}

func TestProcessMessage_InsertsNewEvent(t *testing.T) {
	handler, repo := setupHandler()
	ctx := context.Background()

	event := sampleEvent()
	repo.On("InsertIfNew", ctx, mock.AnythingOfType("models.TransactionCreatedEvent")).
		Return(true, nil)

	err := handler.processMessage(ctx, messageFor(t, event))

	assert.NoError(t, err)
	repo.AssertExpectations(t)

	// значения переносятся из события как есть
	stored := repo.Calls[0].Arguments.Get(1).(models.TransactionCreatedEvent)
	assert.Equal(t, event.EventID, stored.EventID)
	assert.Equal(t, 9200.00, stored.DestAmount)
	assert.Equal(t, 500.00, stored.Fee)
	assert.Equal(t, 9700.00, stored.TotalDestAmount)
}

func TestProcessMessage_DuplicateIsAcked(t *testing.T) {
	handler, repo := setupHandler()
	ctx := context.Background()

	repo.On("InsertIfNew", ctx, mock.AnythingOfType("models.TransactionCreatedEvent")).
		Return(false, nil)

	err := handler.processMessage(ctx, messageFor(t, sampleEvent()))

	// дубликат не ошибка: offset двигается, вторая строка не появляется
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProcessMessage_MalformedPayloadIsSkipped(t *testing.T) {
	handler, repo := setupHandler()
	ctx := context.Background()

	err := handler.processMessage(ctx, &sarama.ConsumerMessage{
		Topic: "transactions.created",
		Value: []byte("{not json"),
	})

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "InsertIfNew")
}

func TestProcessMessage_MissingEventIDIsSkipped(t *testing.T) {
	handler, repo := setupHandler()
	ctx := context.Background()

	event := sampleEvent()
	event.EventID = uuid.Nil

	err := handler.processMessage(ctx, messageFor(t, event))

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "InsertIfNew")
}

func TestProcessMessage_RepoErrorIsReturned(t *testing.T) {
	handler, repo := setupHandler()
	ctx := context.Background()

	repoErr := errors.New("connection refused")
	repo.On("InsertIfNew", ctx, mock.AnythingOfType("models.TransactionCreatedEvent")).
		Return(false, repoErr)

	err := handler.processMessage(ctx, messageFor(t, sampleEvent()))

	// ошибка хранилища возвращается наверх, offset не подтверждается
	assert.ErrorIs(t, err, repoErr)
	repo.AssertExpectations(t)
}
