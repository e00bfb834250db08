package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, email, fullName string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)

	CreateOtp(ctx context.Context, userID int64, otpHash string, expiresAt time.Time) error
	GetLatestOtp(ctx context.Context, userID int64) (*models.UserOtp, error)
	ConsumeOtpTx(ctx context.Context, tx pgx.Tx, otpID int64) error
}

type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PgUserRepository{db: db}
}

func (r *PgUserRepository) Create(ctx context.Context, email, fullName string) (*models.User, error) {
	const op = "storage.CreateUser"

	var user models.User
	err := r.db.QueryRow(ctx, storage.CreateUserQuery, email, fullName).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	var user models.User
	err := r.db.QueryRow(ctx, storage.GetUserByEmailQuery, email).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"

	var user models.User
	err := r.db.QueryRow(ctx, storage.GetUserByIDQuery, id).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (r *PgUserRepository) CreateOtp(ctx context.Context, userID int64, otpHash string, expiresAt time.Time) error {
	const op = "storage.CreateOtp"

	if _, err := r.db.Exec(ctx, storage.CreateOtpQuery, userID, otpHash, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PgUserRepository) GetLatestOtp(ctx context.Context, userID int64) (*models.UserOtp, error) {
	const op = "storage.GetLatestOtp"

	var otp models.UserOtp
	err := r.db.QueryRow(ctx, storage.GetLatestOtpQuery, userID).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.OtpHash,
		&otp.ExpiresAt,
		&otp.ConsumedAt,
		&otp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrOtpNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &otp, nil
}

func (r *PgUserRepository) ConsumeOtpTx(ctx context.Context, tx pgx.Tx, otpID int64) error {
	const op = "storage.ConsumeOtp"

	tag, err := tx.Exec(ctx, storage.ConsumeOtpQuery, otpID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return custom_err.ErrOtpConsumed
	}
	return nil
}
