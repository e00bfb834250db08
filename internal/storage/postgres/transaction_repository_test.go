package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
)

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

func TestTransactionRepository_InsertIfNew_NewEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepository(mock)
	ctx := context.Background()
	event := sampleEvent()

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(
			event.EventID,
			event.CreatedByUserID,
			event.SenderID,
			event.ReceiverID,
			event.SourceAmount,
			event.SourceCurrency,
			event.DestCurrency,
			event.ExchangeRate,
			event.DestAmount,
			event.Fee,
			event.TotalDestAmount,
			event.Status,
			event.Note,
			event.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted, err := repo.InsertIfNew(ctx, event)

	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_InsertIfNew_DuplicateEventID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepository(mock)
	ctx := context.Background()
	event := sampleEvent()

	// ON CONFLICT DO NOTHING: строка не вставлена, ошибки нет
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(
			event.EventID,
			event.CreatedByUserID,
			event.SenderID,
			event.ReceiverID,
			event.SourceAmount,
			event.SourceCurrency,
			event.DestCurrency,
			event.ExchangeRate,
			event.DestAmount,
			event.Fee,
			event.TotalDestAmount,
			event.Status,
			event.Note,
			event.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	inserted, err := repo.InsertIfNew(ctx, event)

	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_InsertIfNew_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepository(mock)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(errors.New("connection reset"))

	inserted, err := repo.InsertIfNew(ctx, sampleEvent())

	assert.Error(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(int64(99), int64(1)).
		WillReturnError(pgx.ErrNoRows)

	tx, err := repo.GetByID(ctx, 99, 1)

	assert.ErrorIs(t, err, custom_err.ErrNotFound)
	assert.Nil(t, tx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_UpdateStatus_NotPendingOrMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepository(mock)
	ctx := context.Background()

	// WHERE status = 'PENDING' — уже терминальная запись не возвращается
	mock.ExpectQuery("UPDATE transactions").
		WithArgs(int64(5), int64(1), models.StatusSuccess).
		WillReturnError(pgx.ErrNoRows)

	tx, err := repo.UpdateStatus(ctx, 5, 1, models.StatusSuccess)

	assert.ErrorIs(t, err, custom_err.ErrNotFound)
	assert.Nil(t, tx)
	assert.NoError(t, mock.ExpectationsWereMet())
}
