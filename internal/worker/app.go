package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"money-transfer-backend/internal/config"
	"money-transfer-backend/internal/db"
	"money-transfer-backend/internal/kafka"
	"money-transfer-backend/internal/storage/postgres"
	"money-transfer-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App консюмер событий transactions.created: читает топик и идемпотентно
// переносит события в базу. Живёт отдельно от HTTP-сервиса и не зависит
// от него.
type App struct {
	log      *slog.Logger
	logFile  *os.File
	cfg      *config.Config
	pool     *pgxpool.Pool
	consumer *kafka.Consumer
}

func NewApp() (*App, error) {
	loggerWithFile := logger.NewLoggerWithFile("consumer.log")
	log := loggerWithFile.Logger

	log.Info("инициализация consumer приложения")

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	log.Info("конфигурация загружена",
		slog.String("kafka_topic", cfg.Kafka.Topic),
		slog.String("group_id", cfg.Kafka.GroupID))

	pool, err := db.NewPool(context.Background(), cfg.DB.DSN(), db.ConsumerPoolConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}
	log.Info("подключение к базе данных установлено")

	txRepo := postgres.NewTransactionRepository(pool)

	log.Info("инициализация kafka consumer")
	consumer, err := kafka.NewConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupID,
		cfg.Kafka.Topic,
		txRepo,
		log,
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания kafka consumer: %w", err)
	}

	return &App{
		log:      log,
		logFile:  loggerWithFile.LogFile,
		cfg:      cfg,
		pool:     pool,
		consumer: consumer,
	}, nil
}

func (a *App) Run() error {
	a.log.Info("приложение запускается")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.consumer.Start(ctx); err != nil {
		return fmt.Errorf("ошибка запуска consumer: %w", err)
	}

	a.log.Info("kafka consumer запущен, ожидание сообщений...")

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-shutdownChan
	a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))

	a.log.Info("приложение останавливается")

	cancel()

	ctxClose, cancelClose := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelClose()

	a.log.Info("закрытие kafka consumer")
	if err := a.consumer.Close(ctxClose); err != nil {
		a.log.Error("ошибка при закрытии kafka consumer", slog.String("error", err.Error()))
	}

	a.log.Info("закрытие соединения с базой данных")
	a.pool.Close()

	a.log.Info("закрытие файла логов")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("ошибка при закрытии файла логов", slog.String("error", err.Error()))
		}
	}

	a.log.Info("приложение остановлено корректно")
	return nil
}
