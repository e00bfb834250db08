package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"money-transfer-backend/internal/api/handlers"
	"money-transfer-backend/internal/api/middlew"
	"money-transfer-backend/internal/config"
	"money-transfer-backend/internal/db"
	"money-transfer-backend/internal/kafka"
	"money-transfer-backend/internal/mailer"
	"money-transfer-backend/internal/money"
	"money-transfer-backend/internal/server"
	"money-transfer-backend/internal/service"
	"money-transfer-backend/internal/storage/postgres"
	"money-transfer-backend/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App HTTP-сервис: аутентификация по OTP, справочники отправителей и
// получателей, продюсер событий о переводах
type App struct {
	log         *slog.Logger
	server      *server.Server
	pool        *pgxpool.Pool
	redisClient *redis.Client
	logFile     *os.File
	cfg         *config.Config

	authService        service.Auth
	senderService      service.Senders
	receiverService    service.Receivers
	transactionService service.Transactions
	kafkaProducer      kafka.Producer
	otpLimiter         *middlew.OtpLimiter
}

func NewApp() (*App, error) {
	loggerWithFile := logger.NewLoggerWithFile("server.log")
	log := loggerWithFile.Logger
	log.Info("инициализация приложения")

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}
	log.Info("конфигурация загружена", slog.String("port", cfg.HTTPPort))

	log.Info("выполнение миграций базы данных")
	if err := db.RunMigrations(cfg.DB.MigrationURL(), "migrations"); err != nil {
		return nil, fmt.Errorf("ошибка выполнения миграций: %w", err)
	}
	log.Info("миграции успешно применены")

	pool, err := db.NewPool(context.Background(), cfg.DB.DSN(), db.ServerPoolConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}
	log.Info("подключение к базе данных установлено")

	var redisClient *redis.Client
	var otpLimiter *middlew.OtpLimiter
	if cfg.Redis.Enabled {
		log.Info("подключение к redis", slog.String("addr", cfg.Redis.Addr))
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("ошибка подключения к redis: %w", err)
		}
		otpLimiter = middlew.NewOtpLimiter(redisClient, log)
	} else {
		log.Info("redis отключен, лимиты otp не применяются")
	}

	var kafkaProducer kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("инициализация kafka producer", slog.Any("brokers", cfg.Kafka.Brokers))
		kafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации kafka: %w", err)
		}
	} else {
		log.Info("kafka отключен в конфигурации")
		kafkaProducer = kafka.NewNoOpProducer(log)
	}

	srv := server.NewServer(cfg.HTTPPort)
	log.Info("сервер инициализирован", slog.String("port", cfg.HTTPPort))
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middleware.Recoverer)
	srv.RegisterSwagger()

	return &App{
		log:           log,
		server:        srv,
		pool:          pool,
		redisClient:   redisClient,
		logFile:       loggerWithFile.LogFile,
		cfg:           cfg,
		kafkaProducer: kafkaProducer,
		otpLimiter:    otpLimiter,
	}, nil
}

func (a *App) BuildAuthLayer() {
	txManager := service.NewPgxTxManager(a.pool)
	userRepo := postgres.NewUserRepository(a.pool)

	var m mailer.Mailer
	if a.cfg.SMTP.Host != "" {
		m = mailer.NewSMTPMailer(a.cfg.SMTP, a.log)
	} else {
		m = mailer.NewLogMailer(a.log)
	}

	a.authService = service.NewAuthService(
		userRepo,
		txManager,
		m,
		a.cfg.JWT.Secret,
		a.cfg.JWT.Expiration,
		a.cfg.OTP.Expiration,
		a.log,
	)

	authHandler := handlers.NewAuthHandler(a.authService)

	requestOtp := http.HandlerFunc(authHandler.RequestOtp)
	verifyOtp := http.HandlerFunc(authHandler.VerifyOtp)

	if a.otpLimiter != nil {
		a.server.Router.Method(http.MethodPost, "/api/v1/auth/request-otp", a.otpLimiter.LimitRequest(requestOtp))
		a.server.Router.Method(http.MethodPost, "/api/v1/auth/verify-otp", a.otpLimiter.LimitVerify(verifyOtp))
	} else {
		a.server.Router.Post("/api/v1/auth/request-otp", authHandler.RequestOtp)
		a.server.Router.Post("/api/v1/auth/verify-otp", authHandler.VerifyOtp)
	}

	a.log.Info("слой 'auth' собран и маршруты зарегистрированы")
}

func (a *App) BuildPartyLayer() error {
	if a.authService == nil {
		err := errors.New("authService not initialized, call BuildAuthLayer first")
		a.log.Error(err.Error())
		return err
	}

	senderRepo := postgres.NewSenderRepository(a.pool)
	receiverRepo := postgres.NewReceiverRepository(a.pool)

	a.senderService = service.NewSenderService(senderRepo, a.log)
	a.receiverService = service.NewReceiverService(receiverRepo, a.log)

	senderHandler := handlers.NewSenderHandler(a.senderService)
	receiverHandler := handlers.NewReceiverHandler(a.receiverService)

	a.server.Router.Group(func(r chi.Router) {
		r.Use(middlew.RequireAuth(a.authService))

		r.Post("/api/v1/senders", senderHandler.Create)
		r.Get("/api/v1/senders", senderHandler.List)
		r.Get("/api/v1/senders/{id}", senderHandler.GetByID)
		r.Put("/api/v1/senders/{id}", senderHandler.Update)
		r.Delete("/api/v1/senders/{id}", senderHandler.Delete)

		r.Post("/api/v1/receivers", receiverHandler.Create)
		r.Get("/api/v1/receivers", receiverHandler.List)
		r.Get("/api/v1/receivers/{id}", receiverHandler.GetByID)
		r.Put("/api/v1/receivers/{id}", receiverHandler.Update)
		r.Delete("/api/v1/receivers/{id}", receiverHandler.Delete)
	})

	a.log.Info("слой 'party' собран и маршруты зарегистрированы")
	return nil
}

func (a *App) BuildTransactionLayer() error {
	if a.authService == nil {
		err := errors.New("authService not initialized, call BuildAuthLayer first")
		a.log.Error(err.Error())
		return err
	}
	if a.kafkaProducer == nil {
		err := errors.New("kafkaProducer not initialized")
		a.log.Error(err.Error())
		return err
	}

	senderRepo := postgres.NewSenderRepository(a.pool)
	receiverRepo := postgres.NewReceiverRepository(a.pool)
	txRepo := postgres.NewTransactionRepository(a.pool)

	rules := money.NewRules(
		a.cfg.Transfer.ExchangeRate,
		a.cfg.Transfer.MaxAmount,
		[]money.FeeBand{
			{UpTo: a.cfg.Transfer.LowBandUpTo, Fee: a.cfg.Transfer.LowBandFee},
			{UpTo: a.cfg.Transfer.MidBandUpTo, Fee: a.cfg.Transfer.MidBandFee},
		},
		a.cfg.Transfer.HighBandFee,
	)

	a.transactionService = service.NewTransactionService(
		senderRepo,
		receiverRepo,
		txRepo,
		a.kafkaProducer,
		rules,
		a.cfg.Transfer.SourceCurrency,
		a.cfg.Transfer.DestCurrency,
		a.log,
	)

	transactionHandler := handlers.NewTransactionHandler(a.transactionService)

	a.server.Router.Group(func(r chi.Router) {
		r.Use(middlew.RequireAuth(a.authService))

		r.Post("/api/v1/transactions", transactionHandler.Create)
		r.Get("/api/v1/transactions", transactionHandler.List)
		r.Get("/api/v1/transactions/{id}", transactionHandler.GetByID)
		r.Patch("/api/v1/transactions/{id}/status", transactionHandler.UpdateStatus)
	})

	a.log.Info("слой 'transactions' собран и маршруты зарегистрированы")
	return nil
}

func (a *App) Run() error {
	a.log.Info("сервер запускается")

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdownChan:
		a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))
	}

	a.log.Info("приложение останавливается")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
	}

	if a.kafkaProducer != nil {
		a.log.Info("закрытие kafka producer")
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("ошибка при закрытии kafka producer", slog.String("error", err.Error()))
		}
	}

	if a.redisClient != nil {
		a.log.Info("закрытие соединения с redis")
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("ошибка при закрытии redis", slog.String("error", err.Error()))
		}
	}

	a.log.Info("закрытие соединения с базой данных")
	a.pool.Close()

	a.log.Info("закрытие файла логов")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("ошибка при закрытии файла логов", slog.String("error", err.Error()))
		}
	}

	a.log.Info("приложение остановлено")
	return nil
}
