package mailer

import (
	"fmt"
	"log/slog"
	"time"

	"money-transfer-backend/internal/config"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendOtp(email, otp string, expiresIn time.Duration) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *slog.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, log *slog.Logger) Mailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (m *SMTPMailer) SendOtp(email, otp string, expiresIn time.Duration) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your OTP Code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your OTP is %s. It expires in %d minutes.", otp, int(expiresIn.Minutes())))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	m.log.Debug("otp отправлен на почту", slog.String("email", email))
	return nil
}

// LogMailer для локальной разработки без SMTP: код просто пишется в лог
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) Mailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOtp(email, otp string, expiresIn time.Duration) error {
	m.log.Info("SMTP отключен, otp выводится в лог",
		slog.String("email", email),
		slog.String("otp", otp))
	return nil
}
