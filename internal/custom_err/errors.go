package custom_err

import "errors"

var (
	// Transaction pipeline errors
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrSenderNotFound     = errors.New("sender not found")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrPublishUnavailable = errors.New("event broker unavailable")
	ErrInvalidStatus      = errors.New("invalid status transition")

	// Auth errors
	ErrOtpNotFound     = errors.New("no otp found, request otp first")
	ErrOtpExpired      = errors.New("otp expired")
	ErrOtpConsumed     = errors.New("otp already used")
	ErrInvalidOtp      = errors.New("invalid otp")
	ErrUserDeactivated = errors.New("user is deactivated")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenNotActive  = errors.New("token not active yet")
	ErrUnauthorized    = errors.New("unauthorized")

	// Generic errors
	ErrNotFound        = errors.New("resource not found")
	ErrPhoneExists     = errors.New("phone number already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrTooManyRequests = errors.New("too many requests")
)
