package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/money"
)

func setupTransactionService() (*TransactionService, *MockSenderRepo, *MockReceiverRepo, *MockTransactionRepo, *MockKafkaProducer) {
	senderRepo := new(MockSenderRepo)
	receiverRepo := new(MockReceiverRepo)
	txRepo := new(MockTransactionRepo)
	producer := new(MockKafkaProducer)

	rules := money.NewRules(0.92, 10000000, []money.FeeBand{
		{UpTo: 50000, Fee: 500},
		{UpTo: 500000, Fee: 1000},
	}, 1500)

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	service := NewTransactionService(senderRepo, receiverRepo, txRepo, producer, rules, "JPY", "NPR", log)

	return service, senderRepo, receiverRepo, txRepo, producer
}

func TestTransactionService_Create_Success(t *testing.T) {
	service, senderRepo, receiverRepo, _, producer := setupTransactionService()
	ctx := context.Background()

	userID := int64(1)
	req := models.CreateTransactionRequest{
		SenderID:   10,
		ReceiverID: 20,
		AmountJPY:  10000,
	}

	senderRepo.On("FindActiveOwned", ctx, int64(10), userID).
		Return(&models.Sender{ID: 10, FullName: "Taro Yamada"}, nil)
	receiverRepo.On("FindActiveOwned", ctx, int64(20), userID).
		Return(&models.Receiver{ID: 20, FullName: "Sita Sharma"}, nil)

	var published models.TransactionCreatedEvent
	producer.On("SendTransactionCreatedEvent", mock.Anything, mock.AnythingOfType("models.TransactionCreatedEvent")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(models.TransactionCreatedEvent)
		}).
		Return(nil)

	receipt, err := service.Create(ctx, userID, req)

	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Equal(t, "Queued", receipt.Message)
	assert.Equal(t, 9200.00, receipt.DestAmount)
	assert.Equal(t, 500.00, receipt.Fee)
	assert.Equal(t, 9700.00, receipt.TotalDestAmount)
	assert.Equal(t, 0.92, receipt.ExchangeRate)

	// в событии те же поля, что и в квитанции: консюмер ничего не пересчитывает
	assert.NotEqual(t, uuid.Nil, published.EventID)
	assert.Equal(t, receipt.EventID, published.EventID)
	assert.Equal(t, userID, published.CreatedByUserID)
	assert.Equal(t, int64(10), published.SenderID)
	assert.Equal(t, int64(20), published.ReceiverID)
	assert.Equal(t, 10000.00, published.SourceAmount)
	assert.Equal(t, "JPY", published.SourceCurrency)
	assert.Equal(t, "NPR", published.DestCurrency)
	assert.Equal(t, 9200.00, published.DestAmount)
	assert.Equal(t, 500.00, published.Fee)
	assert.Equal(t, 9700.00, published.TotalDestAmount)
	assert.Equal(t, models.StatusPending, published.Status)
	assert.Nil(t, published.Note)
	assert.False(t, published.CreatedAt.IsZero())

	senderRepo.AssertExpectations(t)
	receiverRepo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestTransactionService_Create_MidBandFee(t *testing.T) {
	service, senderRepo, receiverRepo, _, producer := setupTransactionService()
	ctx := context.Background()

	userID := int64(1)
	req := models.CreateTransactionRequest{
		SenderID:   10,
		ReceiverID: 20,
		AmountJPY:  150000,
	}

	senderRepo.On("FindActiveOwned", ctx, int64(10), userID).
		Return(&models.Sender{ID: 10}, nil)
	receiverRepo.On("FindActiveOwned", ctx, int64(20), userID).
		Return(&models.Receiver{ID: 20}, nil)
	producer.On("SendTransactionCreatedEvent", mock.Anything, mock.AnythingOfType("models.TransactionCreatedEvent")).
		Return(nil)

	receipt, err := service.Create(ctx, userID, req)

	require.NoError(t, err)
	assert.Equal(t, 138000.00, receipt.DestAmount)
	assert.Equal(t, 1000.00, receipt.Fee)
	assert.Equal(t, 139000.00, receipt.TotalDestAmount)
}

func TestTransactionService_Create_InvalidAmount(t *testing.T) {
	service, senderRepo, _, _, producer := setupTransactionService()
	ctx := context.Background()

	for _, amount := range []float64{0, -100, 10000001} {
		req := models.CreateTransactionRequest{SenderID: 10, ReceiverID: 20, AmountJPY: amount}

		receipt, err := service.Create(ctx, 1, req)

		assert.ErrorIs(t, err, custom_err.ErrInvalidAmount, "amount %v", amount)
		assert.Nil(t, receipt)
	}

	// сумма отклоняется до обращения к базе и брокеру
	senderRepo.AssertNotCalled(t, "FindActiveOwned")
	producer.AssertNotCalled(t, "SendTransactionCreatedEvent")
}

func TestTransactionService_Create_SenderNotFound(t *testing.T) {
	service, senderRepo, receiverRepo, _, producer := setupTransactionService()
	ctx := context.Background()

	req := models.CreateTransactionRequest{SenderID: 999, ReceiverID: 20, AmountJPY: 10000}

	senderRepo.On("FindActiveOwned", ctx, int64(999), int64(1)).
		Return(nil, custom_err.ErrSenderNotFound)

	receipt, err := service.Create(ctx, 1, req)

	assert.ErrorIs(t, err, custom_err.ErrSenderNotFound)
	assert.Nil(t, receipt)

	receiverRepo.AssertNotCalled(t, "FindActiveOwned")
	producer.AssertNotCalled(t, "SendTransactionCreatedEvent")
	senderRepo.AssertExpectations(t)
}

func TestTransactionService_Create_ReceiverNotFound(t *testing.T) {
	service, senderRepo, receiverRepo, _, producer := setupTransactionService()
	ctx := context.Background()

	req := models.CreateTransactionRequest{SenderID: 10, ReceiverID: 999, AmountJPY: 10000}

	senderRepo.On("FindActiveOwned", ctx, int64(10), int64(1)).
		Return(&models.Sender{ID: 10}, nil)
	receiverRepo.On("FindActiveOwned", ctx, int64(999), int64(1)).
		Return(nil, custom_err.ErrReceiverNotFound)

	receipt, err := service.Create(ctx, 1, req)

	assert.ErrorIs(t, err, custom_err.ErrReceiverNotFound)
	assert.Nil(t, receipt)

	producer.AssertNotCalled(t, "SendTransactionCreatedEvent")
}

func TestTransactionService_Create_PublishUnavailable(t *testing.T) {
	service, senderRepo, receiverRepo, _, producer := setupTransactionService()
	ctx := context.Background()

	req := models.CreateTransactionRequest{SenderID: 10, ReceiverID: 20, AmountJPY: 10000}

	senderRepo.On("FindActiveOwned", ctx, int64(10), int64(1)).
		Return(&models.Sender{ID: 10}, nil)
	receiverRepo.On("FindActiveOwned", ctx, int64(20), int64(1)).
		Return(&models.Receiver{ID: 20}, nil)
	producer.On("SendTransactionCreatedEvent", mock.Anything, mock.AnythingOfType("models.TransactionCreatedEvent")).
		Return(errors.New("kafka: client has run out of available brokers"))

	receipt, err := service.Create(ctx, 1, req)

	assert.ErrorIs(t, err, custom_err.ErrPublishUnavailable)
	assert.Nil(t, receipt)
}

func TestTransactionService_Create_NoteTooLong(t *testing.T) {
	service, senderRepo, _, _, producer := setupTransactionService()
	ctx := context.Background()

	note := strings.Repeat("x", 256)
	req := models.CreateTransactionRequest{SenderID: 10, ReceiverID: 20, AmountJPY: 10000, Note: &note}

	receipt, err := service.Create(ctx, 1, req)

	assert.ErrorIs(t, err, custom_err.ErrInvalidInput)
	assert.Nil(t, receipt)

	senderRepo.AssertNotCalled(t, "FindActiveOwned")
	producer.AssertNotCalled(t, "SendTransactionCreatedEvent")
}

func TestTransactionService_Create_NoteTrimmed(t *testing.T) {
	service, senderRepo, receiverRepo, _, producer := setupTransactionService()
	ctx := context.Background()

	note := "  family support  "
	req := models.CreateTransactionRequest{SenderID: 10, ReceiverID: 20, AmountJPY: 10000, Note: &note}

	senderRepo.On("FindActiveOwned", ctx, int64(10), int64(1)).
		Return(&models.Sender{ID: 10}, nil)
	receiverRepo.On("FindActiveOwned", ctx, int64(20), int64(1)).
		Return(&models.Receiver{ID: 20}, nil)

	var published models.TransactionCreatedEvent
	producer.On("SendTransactionCreatedEvent", mock.Anything, mock.AnythingOfType("models.TransactionCreatedEvent")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(models.TransactionCreatedEvent)
		}).
		Return(nil)

	_, err := service.Create(ctx, 1, req)

	require.NoError(t, err)
	require.NotNil(t, published.Note)
	assert.Equal(t, "family support", *published.Note)
}

func TestTransactionService_UpdateStatus_Success(t *testing.T) {
	service, _, _, txRepo, _ := setupTransactionService()
	ctx := context.Background()

	expected := &models.Transaction{ID: 5, Status: models.StatusSuccess}
	txRepo.On("UpdateStatus", ctx, int64(5), int64(1), models.StatusSuccess).
		Return(expected, nil)

	tx, err := service.UpdateStatus(ctx, 5, 1, models.StatusSuccess)

	require.NoError(t, err)
	assert.Equal(t, expected, tx)
	txRepo.AssertExpectations(t)
}

func TestTransactionService_UpdateStatus_NonTerminal(t *testing.T) {
	service, _, _, txRepo, _ := setupTransactionService()
	ctx := context.Background()

	for _, status := range []models.TransactionStatus{models.StatusPending, "UNKNOWN", ""} {
		tx, err := service.UpdateStatus(ctx, 5, 1, status)

		assert.ErrorIs(t, err, custom_err.ErrInvalidStatus, "status %q", status)
		assert.Nil(t, tx)
	}

	txRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestTransactionService_List_InvalidStatusFilter(t *testing.T) {
	service, _, _, txRepo, _ := setupTransactionService()
	ctx := context.Background()

	bad := models.TransactionStatus("DONE")
	resp, err := service.List(ctx, 1, models.TransactionListQuery{Status: &bad})

	assert.ErrorIs(t, err, custom_err.ErrInvalidInput)
	assert.Nil(t, resp)

	txRepo.AssertNotCalled(t, "List")
}

func TestTransactionService_List_Success(t *testing.T) {
	service, _, _, txRepo, _ := setupTransactionService()
	ctx := context.Background()

	items := []models.TransactionListItem{
		{Transaction: models.Transaction{ID: 1, Status: models.StatusSuccess}},
		{Transaction: models.Transaction{ID: 2, Status: models.StatusPending}},
	}
	txRepo.On("List", ctx, int64(1), mock.AnythingOfType("models.TransactionListQuery")).
		Return(items, 2, nil)

	resp, err := service.List(ctx, 1, models.TransactionListQuery{})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Data, 2)
	txRepo.AssertExpectations(t)
}
