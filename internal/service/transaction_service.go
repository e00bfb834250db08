package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/kafka"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/money"
	"money-transfer-backend/internal/storage/postgres"

	"github.com/google/uuid"
)

const maxNoteLen = 255

type Transactions interface {
	Create(ctx context.Context, userID int64, req models.CreateTransactionRequest) (*models.TransactionReceipt, error)
	List(ctx context.Context, userID int64, q models.TransactionListQuery) (*models.PagedResponse[models.TransactionListItem], error)
	GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id, userID int64, status models.TransactionStatus) (*models.Transaction, error)
}

// TransactionService продюсер событий transactions.created. Проверяет
// бизнес-предусловия, один раз вычисляет денежные поля и публикует
// неизменяемое событие. Строку в базе создаёт консюмер, не продюсер.
type TransactionService struct {
	senderRepo   postgres.SenderRepository
	receiverRepo postgres.ReceiverRepository
	txRepo       postgres.TransactionRepository
	producer     kafka.Producer
	rules        *money.Rules
	srcCurrency  string
	dstCurrency  string
	log          *slog.Logger
}

func NewTransactionService(
	senderRepo postgres.SenderRepository,
	receiverRepo postgres.ReceiverRepository,
	txRepo postgres.TransactionRepository,
	producer kafka.Producer,
	rules *money.Rules,
	srcCurrency, dstCurrency string,
	log *slog.Logger,
) *TransactionService {
	return &TransactionService{
		senderRepo:   senderRepo,
		receiverRepo: receiverRepo,
		txRepo:       txRepo,
		producer:     producer,
		rules:        rules,
		srcCurrency:  srcCurrency,
		dstCurrency:  dstCurrency,
		log:          log,
	}
}

func (s *TransactionService) Create(ctx context.Context, userID int64, req models.CreateTransactionRequest) (*models.TransactionReceipt, error) {
	const op = "service.CreateTransaction"

	// сумма проверяется до любых обращений к базе и брокеру
	if err := s.rules.ValidateAmount(req.AmountJPY); err != nil {
		return nil, err
	}

	var note *string
	if req.Note != nil {
		trimmed := strings.TrimSpace(*req.Note)
		if len(trimmed) > maxNoteLen {
			return nil, fmt.Errorf("%w: note is too long", custom_err.ErrInvalidInput)
		}
		if trimmed != "" {
			note = &trimmed
		}
	}

	if _, err := s.senderRepo.FindActiveOwned(ctx, req.SenderID, userID); err != nil {
		return nil, err
	}
	if _, err := s.receiverRepo.FindActiveOwned(ctx, req.ReceiverID, userID); err != nil {
		return nil, err
	}

	destAmount, err := s.rules.Convert(req.AmountJPY)
	if err != nil {
		return nil, err
	}
	fee := s.rules.TieredFee(destAmount)
	total := s.rules.Total(destAmount, fee)

	event := models.TransactionCreatedEvent{
		EventID:         uuid.New(),
		CreatedByUserID: userID,
		SenderID:        req.SenderID,
		ReceiverID:      req.ReceiverID,
		SourceAmount:    req.AmountJPY,
		SourceCurrency:  s.srcCurrency,
		DestCurrency:    s.dstCurrency,
		ExchangeRate:    s.rules.Rate(),
		DestAmount:      destAmount,
		Fee:             fee,
		TotalDestAmount: total,
		Status:          models.StatusPending,
		Note:            note,
		CreatedAt:       time.Now().UTC(),
	}

	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.producer.SendTransactionCreatedEvent(sendCtx, event); err != nil {
		s.log.Error("публикация события не удалась",
			slog.String("op", op),
			slog.String("event_id", event.EventID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", custom_err.ErrPublishUnavailable, err.Error())
	}

	s.log.Info("событие о переводе опубликовано",
		slog.String("op", op),
		slog.String("event_id", event.EventID.String()),
		slog.Int64("user_id", userID),
		slog.Float64("amount_jpy", req.AmountJPY),
		slog.Float64("total_npr", total))

	return &models.TransactionReceipt{
		Message:         "Queued",
		EventID:         event.EventID,
		DestAmount:      destAmount,
		Fee:             fee,
		TotalDestAmount: total,
		ExchangeRate:    s.rules.Rate(),
	}, nil
}

func (s *TransactionService) List(ctx context.Context, userID int64, q models.TransactionListQuery) (*models.PagedResponse[models.TransactionListItem], error) {
	const op = "service.ListTransactions"

	q.Normalize()
	if q.Status != nil && !q.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status", custom_err.ErrInvalidInput)
	}

	items, total, err := s.txRepo.List(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.PagedResponse[models.TransactionListItem]{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Data:  items,
	}, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	return s.txRepo.GetByID(ctx, id, userID)
}

// UpdateStatus переводит PENDING в терминальное состояние. Это ручная
// операция оператора, событийный конвейер статусы не трогает.
func (s *TransactionService) UpdateStatus(ctx context.Context, id, userID int64, status models.TransactionStatus) (*models.Transaction, error) {
	const op = "service.UpdateTransactionStatus"

	if !status.IsTerminal() {
		return nil, custom_err.ErrInvalidStatus
	}

	t, err := s.txRepo.UpdateStatus(ctx, id, userID, status)
	if err != nil {
		return nil, err
	}

	s.log.Info("статус перевода обновлён",
		slog.String("op", op),
		slog.Int64("transaction_id", id),
		slog.String("status", string(status)))

	return t, nil
}
