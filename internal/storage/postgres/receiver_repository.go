package postgres

import (
	"context"
	"errors"
	"fmt"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReceiverRepository interface {
	Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Receiver, error)
	FindActiveOwned(ctx context.Context, id, userID int64) (*models.Receiver, error)
	List(ctx context.Context, userID int64, q models.ListQuery) ([]models.Receiver, int, error)
	Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Receiver, error)
	Deactivate(ctx context.Context, id, userID int64) error
}

type PgReceiverRepository struct {
	db *pgxpool.Pool
}

func NewReceiverRepository(db *pgxpool.Pool) ReceiverRepository {
	return &PgReceiverRepository{db: db}
}

func scanReceiver(row pgx.Row) (*models.Receiver, error) {
	var rcv models.Receiver
	err := row.Scan(
		&rcv.ID,
		&rcv.FullName,
		&rcv.Phone,
		&rcv.Address,
		&rcv.Country,
		&rcv.BankName,
		&rcv.BankAccount,
		&rcv.CreatedByUserID,
		&rcv.IsActive,
		&rcv.CreatedAt,
		&rcv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rcv, nil
}

func (r *PgReceiverRepository) Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Receiver, error) {
	const op = "storage.CreateReceiver"

	country := req.Country
	if country == "" {
		country = "Nepal"
	}

	receiver, err := scanReceiver(r.db.QueryRow(ctx, storage.CreateReceiverQuery,
		req.FullName, models.NormalizePhone(req.Phone), req.Address, country,
		req.BankName, req.BankAccount, userID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, custom_err.ErrPhoneExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return receiver, nil
}

func (r *PgReceiverRepository) FindActiveOwned(ctx context.Context, id, userID int64) (*models.Receiver, error) {
	const op = "storage.FindActiveOwnedReceiver"

	receiver, err := scanReceiver(r.db.QueryRow(ctx, storage.FindActiveOwnedReceiverQuery, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrReceiverNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return receiver, nil
}

func (r *PgReceiverRepository) List(ctx context.Context, userID int64, q models.ListQuery) ([]models.Receiver, int, error) {
	const op = "storage.ListReceivers"

	search := searchPattern(q.Search)

	var total int
	if err := r.db.QueryRow(ctx, storage.CountReceiversQuery, userID, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, storage.ListReceiversQuery, userID, search, q.Offset(), q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	receivers := make([]models.Receiver, 0, q.Limit)
	for rows.Next() {
		receiver, err := scanReceiver(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan error: %w", op, err)
		}
		receivers = append(receivers, *receiver)
	}
	return receivers, total, nil
}

func (r *PgReceiverRepository) Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Receiver, error) {
	const op = "storage.UpdateReceiver"

	var phone *string
	if req.Phone != nil {
		normalized := models.NormalizePhone(*req.Phone)
		phone = &normalized
	}

	receiver, err := scanReceiver(r.db.QueryRow(ctx, storage.UpdateReceiverQuery,
		id, userID, req.FullName, phone, req.Address, req.Country, req.BankName, req.BankAccount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrReceiverNotFound
		}
		if isUniqueViolation(err) {
			return nil, custom_err.ErrPhoneExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return receiver, nil
}

func (r *PgReceiverRepository) Deactivate(ctx context.Context, id, userID int64) error {
	const op = "storage.DeactivateReceiver"

	tag, err := r.db.Exec(ctx, storage.DeactivateReceiverQuery, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return custom_err.ErrReceiverNotFound
	}
	return nil
}
