package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/storage/postgres"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Consumer читает события transactions.created и идемпотентно сохраняет их
// в базу. Сообщение подтверждается только после успешной вставки либо когда
// оно заведомо бесполезно (мусорный payload, дубликат).
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	repo          postgres.TransactionRepository
	topic         string
	log           *slog.Logger
	wg            sync.WaitGroup
}

func NewConsumer(brokers []string, groupID, topic string, repo postgres.TransactionRepository, log *slog.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V3_0_0_0
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	// при первом подключении группы начинаем с текущего offset,
	// историю топика не перечитываем
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	consumerGroup, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	log.Info("kafka consumer создан",
		slog.String("group_id", groupID),
		slog.String("topic", topic))

	return &Consumer{
		consumerGroup: consumerGroup,
		repo:          repo,
		topic:         topic,
		log:           log,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("запуск kafka consumer")

	handler := &consumerGroupHandler{
		repo: c.repo,
		log:  c.log,
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		backoff := time.Second
		for {
			// Consume блокируется до ребаланса или ошибки соединения.
			// Ошибка уровня соединения означает переподключение с паузой,
			// а не падение процесса.
			if err := c.consumerGroup.Consume(ctx, []string{c.topic}, handler); err != nil {
				c.log.Error("ошибка consume, переподключение",
					slog.String("error", err.Error()),
					slog.Duration("backoff", backoff))

				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return
				}
				if backoff < 30*time.Second {
					backoff *= 2
				}
			} else {
				backoff = time.Second
			}

			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for err := range c.consumerGroup.Errors() {
			c.log.Error("ошибка consumer group", slog.String("error", err.Error()))
		}
	}()

	return nil
}

func (c *Consumer) Close(ctx context.Context) error {
	c.log.Info("закрытие kafka consumer")

	done := make(chan struct{})
	go func() {
		if err := c.consumerGroup.Close(); err != nil {
			c.log.Error("failed to close consumer group", slog.String("error", err.Error()))
		}
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.log.Info("kafka consumer закрыт")
		return nil
	case <-ctx.Done():
		c.log.Warn("kafka consumer close timeout")
		return ctx.Err()
	}
}

type consumerGroupHandler struct {
	repo postgres.TransactionRepository
	log  *slog.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.processMessage(session.Context(), message); err != nil {
			h.log.Error("failed to process message",
				slog.String("topic", message.Topic),
				slog.Int64("offset", message.Offset),
				slog.String("error", err.Error()))

			// offset не подтверждён: выходим из claim, брокер передоставит
			// сообщение после переподключения
			return err
		}
		session.MarkMessage(message, "")
	}
	return nil
}

// processMessage nil означает «сообщение обработано, offset можно двигать».
// Мусорный payload и дубликат — тоже nil: повторять их бессмысленно.
func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	h.log.Debug("получено сообщение из kafka",
		slog.String("topic", message.Topic),
		slog.Int("partition", int(message.Partition)),
		slog.Int64("offset", message.Offset))

	var event models.TransactionCreatedEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		h.log.Error("ошибка десериализации события, сообщение пропущено",
			slog.String("error", err.Error()),
			slog.String("raw_message", string(message.Value)))
		return nil
	}

	if event.EventID == uuid.Nil {
		h.log.Error("событие без event_id, сообщение пропущено",
			slog.String("raw_message", string(message.Value)))
		return nil
	}

	inserted, err := h.repo.InsertIfNew(ctx, event)
	if err != nil {
		h.log.Error("ошибка сохранения транзакции",
			slog.String("event_id", event.EventID.String()),
			slog.String("error", err.Error()))
		return err
	}

	if !inserted {
		// повторная доставка, штатная ситуация при at-least-once
		h.log.Info("дубликат события, запись уже существует",
			slog.String("event_id", event.EventID.String()))
		return nil
	}

	h.log.Info("транзакция сохранена",
		slog.String("event_id", event.EventID.String()),
		slog.Int64("user_id", event.CreatedByUserID),
		slog.Float64("total_dest_amount", event.TotalDestAmount))

	return nil
}
