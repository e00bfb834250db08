package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"money-transfer-backend/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, email, fullName string) (*models.User, error) {
	args := m.Called(ctx, email, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) CreateOtp(ctx context.Context, userID int64, otpHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, otpHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) GetLatestOtp(ctx context.Context, userID int64) (*models.UserOtp, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserOtp), args.Error(1)
}

func (m *MockUserRepository) ConsumeOtpTx(ctx context.Context, tx pgx.Tx, otpID int64) error {
	args := m.Called(ctx, tx, otpID)
	return args.Error(0)
}

type MockSenderRepo struct {
	mock.Mock
}

func (m *MockSenderRepo) Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Sender, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sender), args.Error(1)
}

func (m *MockSenderRepo) FindActiveOwned(ctx context.Context, id, userID int64) (*models.Sender, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sender), args.Error(1)
}

func (m *MockSenderRepo) List(ctx context.Context, userID int64, q models.ListQuery) ([]models.Sender, int, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Sender), args.Int(1), args.Error(2)
}

func (m *MockSenderRepo) Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Sender, error) {
	args := m.Called(ctx, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sender), args.Error(1)
}

func (m *MockSenderRepo) Deactivate(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockReceiverRepo struct {
	mock.Mock
}

func (m *MockReceiverRepo) Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Receiver, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receiver), args.Error(1)
}

func (m *MockReceiverRepo) FindActiveOwned(ctx context.Context, id, userID int64) (*models.Receiver, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receiver), args.Error(1)
}

func (m *MockReceiverRepo) List(ctx context.Context, userID int64, q models.ListQuery) ([]models.Receiver, int, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Receiver), args.Int(1), args.Error(2)
}

func (m *MockReceiverRepo) Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Receiver, error) {
	args := m.Called(ctx, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receiver), args.Error(1)
}

func (m *MockReceiverRepo) Deactivate(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) InsertIfNew(ctx context.Context, event models.TransactionCreatedEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) List(ctx context.Context, userID int64, q models.TransactionListQuery) ([]models.TransactionListItem, int, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.TransactionListItem), args.Int(1), args.Error(2)
}

func (m *MockTransactionRepo) UpdateStatus(ctx context.Context, id, userID int64, status models.TransactionStatus) (*models.Transaction, error) {
	args := m.Called(ctx, id, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) SendTransactionCreatedEvent(ctx context.Context, event models.TransactionCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockKafkaProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOtp(email, otp string, expiresIn time.Duration) error {
	args := m.Called(email, otp, expiresIn)
	return args.Error(0)
}
