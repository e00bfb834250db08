package models

import (
	"errors"
	"strings"
	"time"
)

// Sender отправитель перевода, принадлежит создавшему его пользователю
type Sender struct {
	ID              int64     `json:"id" db:"id"`
	FullName        string    `json:"full_name" db:"full_name"`
	Phone           string    `json:"phone" db:"phone"`
	Address         *string   `json:"address" db:"address"`
	Country         string    `json:"country" db:"country"`
	CreatedByUserID int64     `json:"created_by_user_id" db:"created_by_user_id"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Receiver получатель перевода
type Receiver struct {
	ID              int64     `json:"id" db:"id"`
	FullName        string    `json:"full_name" db:"full_name"`
	Phone           string    `json:"phone" db:"phone"`
	Address         *string   `json:"address" db:"address"`
	Country         string    `json:"country" db:"country"`
	BankName        *string   `json:"bank_name" db:"bank_name"`
	BankAccount     *string   `json:"bank_account" db:"bank_account"`
	CreatedByUserID int64     `json:"created_by_user_id" db:"created_by_user_id"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePartyRequest общий запрос на создание отправителя/получателя
type CreatePartyRequest struct {
	FullName    string  `json:"full_name"`
	Phone       string  `json:"phone"`
	Address     *string `json:"address,omitempty"`
	Country     string  `json:"country,omitempty"`
	BankName    *string `json:"bank_name,omitempty"`
	BankAccount *string `json:"bank_account,omitempty"`
}

// UpdatePartyRequest частичное обновление, nil-поля не трогаются
type UpdatePartyRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	Country     *string `json:"country,omitempty"`
	BankName    *string `json:"bank_name,omitempty"`
	BankAccount *string `json:"bank_account,omitempty"`
}

// ListQuery параметры списков: поиск + пагинация
type ListQuery struct {
	Search string
	Page   int
	Limit  int
}

// Normalize ограничивает пагинацию разумными пределами
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 50 {
		q.Limit = 50
	}
}

func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PagedResponse обёртка списка с пагинацией
type PagedResponse[T any] struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Data  []T `json:"data"`
}

func (r CreatePartyRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return errors.New("full_name is required")
	}
	if len(r.FullName) > 120 {
		return errors.New("full_name is too long")
	}
	phone := NormalizePhone(r.Phone)
	if len(phone) < 7 || len(phone) > 20 {
		return errors.New("phone must be 7-20 characters")
	}
	return nil
}

// NormalizePhone убирает всё кроме цифр и '+', чтобы не плодить
// дубликаты вида "123 456" и "123456"
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
