package postgres

import (
	"context"
	"errors"
	"fmt"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type TransactionRepository interface {
	// InsertIfNew идемпотентная вставка по event_id.
	// Возвращает false без ошибки, если событие уже было сохранено.
	InsertIfNew(ctx context.Context, event models.TransactionCreatedEvent) (bool, error)

	GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error)
	List(ctx context.Context, userID int64, q models.TransactionListQuery) ([]models.TransactionListItem, int, error)
	UpdateStatus(ctx context.Context, id, userID int64, status models.TransactionStatus) (*models.Transaction, error)
}

// TxDB минимальный срез pgxpool.Pool, чтобы репозиторий можно было
// проверять через pgxmock
type TxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgTransactionRepository struct {
	db TxDB
}

func NewTransactionRepository(db TxDB) TransactionRepository {
	return &PgTransactionRepository{db: db}
}

func (r *PgTransactionRepository) InsertIfNew(ctx context.Context, event models.TransactionCreatedEvent) (bool, error) {
	const op = "storage.InsertTransactionIfNew"

	tag, err := r.db.Exec(ctx, storage.InsertTransactionIfNewQuery,
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
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID,
		&t.EventID,
		&t.CreatedByUserID,
		&t.SenderID,
		&t.ReceiverID,
		&t.SourceAmount,
		&t.SourceCurrency,
		&t.DestCurrency,
		&t.ExchangeRate,
		&t.DestAmount,
		&t.Fee,
		&t.TotalDestAmount,
		&t.Status,
		&t.Note,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgTransactionRepository) GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	const op = "storage.GetTransactionByID"

	t, err := scanTransaction(r.db.QueryRow(ctx, storage.GetTransactionByIDQuery, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func (r *PgTransactionRepository) List(ctx context.Context, userID int64, q models.TransactionListQuery) ([]models.TransactionListItem, int, error) {
	const op = "storage.ListTransactions"

	var status *string
	if q.Status != nil {
		s := string(*q.Status)
		status = &s
	}

	var total int
	if err := r.db.QueryRow(ctx, storage.CountTransactionsQuery, userID, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, storage.ListTransactionsQuery, userID, status, q.Offset(), q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.TransactionListItem, 0, q.Limit)
	for rows.Next() {
		var item models.TransactionListItem
		err := rows.Scan(
			&item.ID,
			&item.EventID,
			&item.CreatedByUserID,
			&item.SenderID,
			&item.ReceiverID,
			&item.SourceAmount,
			&item.SourceCurrency,
			&item.DestCurrency,
			&item.ExchangeRate,
			&item.DestAmount,
			&item.Fee,
			&item.TotalDestAmount,
			&item.Status,
			&item.Note,
			&item.IsActive,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.SenderName,
			&item.SenderPhone,
			&item.ReceiverName,
			&item.ReceiverPhone,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan error: %w", op, err)
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (r *PgTransactionRepository) UpdateStatus(ctx context.Context, id, userID int64, status models.TransactionStatus) (*models.Transaction, error) {
	const op = "storage.UpdateTransactionStatus"

	t, err := scanTransaction(r.db.QueryRow(ctx, storage.UpdateTransactionStatusQuery, id, userID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}
