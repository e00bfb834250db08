package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User представляет пользователя системы (вход только по OTP)
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserOtp одноразовый код, хранится только bcrypt-хэш
type UserOtp struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	OtpHash    string     `db:"otp_hash"`
	ExpiresAt  time.Time  `db:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// RequestOtpRequest запрос одноразового кода на email
type RequestOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestOtpResponse ответ на запрос OTP
type RequestOtpResponse struct {
	Message string `json:"message"`
}

// VerifyOtpRequest подтверждение кода
type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6"`
}

// VerifyOtpResponse ответ с JWT токеном
type VerifyOtpResponse struct {
	Token string `json:"token"`
}

// JWTClaims кастомные claims для JWT токена
type JWTClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
