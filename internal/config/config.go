package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort string `envconfig:"APP_PORT" default:"8080"`
	DB       DBConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Transfer TransferConfig
	OTP      OTPConfig
}

type DBConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"     required:"true"`
	Port     string `envconfig:"POSTGRES_PORT"     required:"true"`
	User     string `envconfig:"POSTGRES_USER"     required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName   string `envconfig:"POSTGRES_DB"       required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE"  default:"disable"`
}

type JWTConfig struct {
	Secret     string        `envconfig:"JWT_SECRET" required:"true"`
	Expiration time.Duration `envconfig:"JWT_EXPIRATION" default:"24h"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"transactions.created"`
	GroupID string   `envconfig:"KAFKA_GROUP_ID" default:"transactions-consumer"`
	// Enabled=false — режим локальной отладки HTTP-слоя: события
	// переводов теряются и в базу не попадают
	Enabled bool `envconfig:"KAFKA_ENABLED" default:"true"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:""`
	Port     int    `envconfig:"SMTP_PORT" default:"1025"`
	User     string `envconfig:"SMTP_USER" default:""`
	Password string `envconfig:"SMTP_PASSWORD" default:""`
	From     string `envconfig:"MAIL_FROM" default:"no-reply@moneytransfer.local"`
}

// TransferConfig задаёт денежные правила перевода: курс JPY->NPR,
// максимальную сумму и пороги комиссионных диапазонов.
// Пороги и курс — конфигурация, а не бизнес-закон.
type TransferConfig struct {
	SourceCurrency string  `envconfig:"TRANSFER_SOURCE_CURRENCY" default:"JPY"`
	DestCurrency   string  `envconfig:"TRANSFER_DEST_CURRENCY" default:"NPR"`
	ExchangeRate   float64 `envconfig:"TRANSFER_EXCHANGE_RATE" default:"0.92"`
	MaxAmount      float64 `envconfig:"TRANSFER_MAX_AMOUNT" default:"10000000"`

	LowBandUpTo float64 `envconfig:"TRANSFER_FEE_LOW_UPTO" default:"50000"`
	MidBandUpTo float64 `envconfig:"TRANSFER_FEE_MID_UPTO" default:"500000"`
	LowBandFee  float64 `envconfig:"TRANSFER_FEE_LOW" default:"500"`
	MidBandFee  float64 `envconfig:"TRANSFER_FEE_MID" default:"1000"`
	HighBandFee float64 `envconfig:"TRANSFER_FEE_HIGH" default:"1500"`
}

type OTPConfig struct {
	Expiration time.Duration `envconfig:"OTP_EXPIRATION" default:"5m"`
}

func NewConfig() (*Config, error) {
	envFile := "config.env"

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("warning: не удалось загрузить файл %s, используются только системные переменные окружения: %v", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}

	return &cfg, nil
}

func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (d *DBConfig) MigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}
