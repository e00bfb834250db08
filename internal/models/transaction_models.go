package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

func (s TransactionStatus) IsValid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailed
}

// IsTerminal только PENDING -> SUCCESS|FAILED разрешено
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// TransactionCreatedEvent — неизменяемое событие о созданном переводе.
// Все денежные поля вычисляются продюсером ровно один раз и переносятся
// консюмером в базу как есть, без пересчёта.
type TransactionCreatedEvent struct {
	EventID         uuid.UUID         `json:"event_id"`
	CreatedByUserID int64             `json:"created_by_user_id"`
	SenderID        int64             `json:"sender_id"`
	ReceiverID      int64             `json:"receiver_id"`
	SourceAmount    float64           `json:"source_amount"`
	SourceCurrency  string            `json:"source_currency"`
	DestCurrency    string            `json:"dest_currency"`
	ExchangeRate    float64           `json:"exchange_rate"`
	DestAmount      float64           `json:"dest_amount"`
	Fee             float64           `json:"fee"`
	TotalDestAmount float64           `json:"total_dest_amount"`
	Status          TransactionStatus `json:"status"`
	Note            *string           `json:"note,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Transaction запись в системе учёта, event_id уникален
type Transaction struct {
	ID              int64             `json:"id" db:"id"`
	EventID         uuid.UUID         `json:"event_id" db:"event_id"`
	CreatedByUserID int64             `json:"created_by_user_id" db:"created_by_user_id"`
	SenderID        int64             `json:"sender_id" db:"sender_id"`
	ReceiverID      int64             `json:"receiver_id" db:"receiver_id"`
	SourceAmount    float64           `json:"source_amount" db:"source_amount"`
	SourceCurrency  string            `json:"source_currency" db:"source_currency"`
	DestCurrency    string            `json:"dest_currency" db:"dest_currency"`
	ExchangeRate    float64           `json:"exchange_rate" db:"exchange_rate"`
	DestAmount      float64           `json:"dest_amount" db:"dest_amount"`
	Fee             float64           `json:"fee" db:"fee"`
	TotalDestAmount float64           `json:"total_dest_amount" db:"total_dest_amount"`
	Status          TransactionStatus `json:"status" db:"status"`
	Note            *string           `json:"note" db:"note"`
	IsActive        bool              `json:"is_active" db:"is_active"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// TransactionListItem строка списка с именами сторон
type TransactionListItem struct {
	Transaction
	SenderName    string `json:"sender_name" db:"sender_name"`
	SenderPhone   string `json:"sender_phone" db:"sender_phone"`
	ReceiverName  string `json:"receiver_name" db:"receiver_name"`
	ReceiverPhone string `json:"receiver_phone" db:"receiver_phone"`
}

// CreateTransactionRequest запрос на перевод, сумма в JPY
type CreateTransactionRequest struct {
	SenderID   int64   `json:"senderId"`
	ReceiverID int64   `json:"receiverId"`
	AmountJPY  float64 `json:"amountJPY"`
	Note       *string `json:"note,omitempty"`
}

// TransactionReceipt ответ продюсера: перевод поставлен в очередь,
// строка в базе появится асинхронно
type TransactionReceipt struct {
	Message         string    `json:"message"`
	EventID         uuid.UUID `json:"eventId"`
	DestAmount      float64   `json:"destAmount"`
	Fee             float64   `json:"fee"`
	TotalDestAmount float64   `json:"totalDestAmount"`
	ExchangeRate    float64   `json:"exchangeRate"`
}

// UpdateStatusRequest перевод статуса в терминальное состояние
type UpdateStatusRequest struct {
	Status TransactionStatus `json:"status"`
}

// TransactionListQuery фильтры списка переводов
type TransactionListQuery struct {
	ListQuery
	Status *TransactionStatus
}
