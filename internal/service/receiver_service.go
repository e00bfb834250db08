package service

import (
	"context"
	"fmt"
	"log/slog"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/storage/postgres"
)

type Receivers interface {
	Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Receiver, error)
	List(ctx context.Context, userID int64, q models.ListQuery) (*models.PagedResponse[models.Receiver], error)
	GetByID(ctx context.Context, id, userID int64) (*models.Receiver, error)
	Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Receiver, error)
	Delete(ctx context.Context, id, userID int64) error
}

type ReceiverService struct {
	repo postgres.ReceiverRepository
	log  *slog.Logger
}

func NewReceiverService(repo postgres.ReceiverRepository, log *slog.Logger) Receivers {
	return &ReceiverService{repo: repo, log: log}
}

func (s *ReceiverService) Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Receiver, error) {
	const op = "service.CreateReceiver"

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", custom_err.ErrInvalidInput, err.Error())
	}

	receiver, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("получатель создан",
		slog.String("op", op),
		slog.Int64("receiver_id", receiver.ID),
		slog.Int64("user_id", userID))

	return receiver, nil
}

func (s *ReceiverService) List(ctx context.Context, userID int64, q models.ListQuery) (*models.PagedResponse[models.Receiver], error) {
	const op = "service.ListReceivers"

	q.Normalize()
	receivers, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.PagedResponse[models.Receiver]{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Data:  receivers,
	}, nil
}

func (s *ReceiverService) GetByID(ctx context.Context, id, userID int64) (*models.Receiver, error) {
	return s.repo.FindActiveOwned(ctx, id, userID)
}

func (s *ReceiverService) Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Receiver, error) {
	return s.repo.Update(ctx, id, userID, req)
}

func (s *ReceiverService) Delete(ctx context.Context, id, userID int64) error {
	const op = "service.DeleteReceiver"

	if err := s.repo.Deactivate(ctx, id, userID); err != nil {
		return err
	}

	s.log.Info("получатель деактивирован",
		slog.String("op", op),
		slog.Int64("receiver_id", id),
		slog.Int64("user_id", userID))

	return nil
}
