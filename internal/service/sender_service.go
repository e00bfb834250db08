package service

import (
	"context"
	"fmt"
	"log/slog"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/storage/postgres"
)

type Senders interface {
	Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Sender, error)
	List(ctx context.Context, userID int64, q models.ListQuery) (*models.PagedResponse[models.Sender], error)
	GetByID(ctx context.Context, id, userID int64) (*models.Sender, error)
	Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Sender, error)
	Delete(ctx context.Context, id, userID int64) error
}

type SenderService struct {
	repo postgres.SenderRepository
	log  *slog.Logger
}

func NewSenderService(repo postgres.SenderRepository, log *slog.Logger) Senders {
	return &SenderService{repo: repo, log: log}
}

func (s *SenderService) Create(ctx context.Context, userID int64, req models.CreatePartyRequest) (*models.Sender, error) {
	const op = "service.CreateSender"

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", custom_err.ErrInvalidInput, err.Error())
	}

	sender, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("отправитель создан",
		slog.String("op", op),
		slog.Int64("sender_id", sender.ID),
		slog.Int64("user_id", userID))

	return sender, nil
}

func (s *SenderService) List(ctx context.Context, userID int64, q models.ListQuery) (*models.PagedResponse[models.Sender], error) {
	const op = "service.ListSenders"

	q.Normalize()
	senders, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.PagedResponse[models.Sender]{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Data:  senders,
	}, nil
}

func (s *SenderService) GetByID(ctx context.Context, id, userID int64) (*models.Sender, error) {
	return s.repo.FindActiveOwned(ctx, id, userID)
}

func (s *SenderService) Update(ctx context.Context, id, userID int64, req models.UpdatePartyRequest) (*models.Sender, error) {
	return s.repo.Update(ctx, id, userID, req)
}

func (s *SenderService) Delete(ctx context.Context, id, userID int64) error {
	const op = "service.DeleteSender"

	if err := s.repo.Deactivate(ctx, id, userID); err != nil {
		return err
	}

	s.log.Info("отправитель деактивирован",
		slog.String("op", op),
		slog.Int64("sender_id", id),
		slog.Int64("user_id", userID))

	return nil
}
