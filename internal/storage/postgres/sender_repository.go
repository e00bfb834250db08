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
	"github.com/jackc/pgx/v5/pgxpool"
)

type SenderRepository interface {
	Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Sender, error)
	FindActiveOwned(ctx context.Context, id, userID int64) (*models.Sender, error)
	List(ctx context.Context, userID int64, q models.ListQuery) ([]models.Sender, int, error)
	Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Sender, error)
	Deactivate(ctx context.Context, id, userID int64) error
}

type PgSenderRepository struct {
	db *pgxpool.Pool
}

func NewSenderRepository(db *pgxpool.Pool) SenderRepository {
	return &PgSenderRepository{db: db}
}

// isUniqueViolation нарушение уникального индекса (код 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanSender(row pgx.Row) (*models.Sender, error) {
	var s models.Sender
	err := row.Scan(
		&s.ID,
		&s.FullName,
		&s.Phone,
		&s.Address,
		&s.Country,
		&s.CreatedByUserID,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgSenderRepository) Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Sender, error) {
	const op = "storage.CreateSender"

	country := req.Country
	if country == "" {
		country = "Japan"
	}

	sender, err := scanSender(r.db.QueryRow(ctx, storage.CreateSenderQuery,
		req.FullName, models.NormalizePhone(req.Phone), req.Address, country, userID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, custom_err.ErrPhoneExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sender, nil
}

func (r *PgSenderRepository) FindActiveOwned(ctx context.Context, id, userID int64) (*models.Sender, error) {
	const op = "storage.FindActiveOwnedSender"

	sender, err := scanSender(r.db.QueryRow(ctx, storage.FindActiveOwnedSenderQuery, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrSenderNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sender, nil
}

func (r *PgSenderRepository) List(ctx context.Context, userID int64, q models.ListQuery) ([]models.Sender, int, error) {
	const op = "storage.ListSenders"

	search := searchPattern(q.Search)

	var total int
	if err := r.db.QueryRow(ctx, storage.CountSendersQuery, userID, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, storage.ListSendersQuery, userID, search, q.Offset(), q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	senders := make([]models.Sender, 0, q.Limit)
	for rows.Next() {
		sender, err := scanSender(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan error: %w", op, err)
		}
		senders = append(senders, *sender)
	}
	return senders, total, nil
}

func (r *PgSenderRepository) Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Sender, error) {
	const op = "storage.UpdateSender"

	var phone *string
	if req.Phone != nil {
		normalized := models.NormalizePhone(*req.Phone)
		phone = &normalized
	}

	sender, err := scanSender(r.db.QueryRow(ctx, storage.UpdateSenderQuery,
		id, userID, req.FullName, phone, req.Address, req.Country))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrSenderNotFound
		}
		if isUniqueViolation(err) {
			return nil, custom_err.ErrPhoneExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sender, nil
}

func (r *PgSenderRepository) Deactivate(ctx context.Context, id, userID int64) error {
	const op = "storage.DeactivateSender"

	tag, err := r.db.Exec(ctx, storage.DeactivateSenderQuery, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return custom_err.ErrSenderNotFound
	}
	return nil
}

// searchPattern NULL означает «без фильтра»
func searchPattern(search string) *string {
	if search == "" {
		return nil
	}
	pattern := "%" + search + "%"
	return &pattern
}
