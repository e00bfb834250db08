package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strings"
	"time"

	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/mailer"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/storage/postgres"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Auth interface {
	RequestOtp(ctx context.Context, req models.RequestOtpRequest) (*models.RequestOtpResponse, error)
	VerifyOtp(ctx context.Context, req models.VerifyOtpRequest) (*models.VerifyOtpResponse, error)
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

type AuthService struct {
	userRepo      postgres.UserRepository
	txManager     TxManager
	mailer        mailer.Mailer
	jwtSecret     []byte
	jwtExpiration time.Duration
	otpExpiration time.Duration
	log           *slog.Logger
}

func NewAuthService(
	userRepo postgres.UserRepository,
	txManager TxManager,
	m mailer.Mailer,
	jwtSecret string,
	jwtExpiration time.Duration,
	otpExpiration time.Duration,
	log *slog.Logger,
) Auth {
	return &AuthService{
		userRepo:      userRepo,
		txManager:     txManager,
		mailer:        m,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
		otpExpiration: otpExpiration,
		log:           log,
	}
}

// RequestOtp находит или создаёт пользователя по email и высылает
// одноразовый код. В базе хранится только bcrypt-хэш кода.
func (s *AuthService) RequestOtp(ctx context.Context, req models.RequestOtpRequest) (*models.RequestOtpResponse, error) {
	const op = "service.RequestOtp"

	email := normalizeEmail(req.Email)
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", custom_err.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, custom_err.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		fullName, _, _ := strings.Cut(email, "@")
		user, err = s.userRepo.Create(ctx, email, fullName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("создан новый пользователь",
			slog.String("op", op),
			slog.Int64("user_id", user.ID))
	}

	if !user.IsActive {
		return nil, custom_err.ErrUserDeactivated
	}

	otp, err := generateOtp()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to hash otp: %w", op, err)
	}

	expiresAt := time.Now().Add(s.otpExpiration)
	if err := s.userRepo.CreateOtp(ctx, user.ID, string(otpHash), expiresAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.mailer.SendOtp(email, otp, s.otpExpiration); err != nil {
		s.log.Error("не удалось отправить otp",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("otp выслан",
		slog.String("op", op),
		slog.Int64("user_id", user.ID))

	return &models.RequestOtpResponse{Message: "OTP sent to email"}, nil
}

func (s *AuthService) VerifyOtp(ctx context.Context, req models.VerifyOtpRequest) (*models.VerifyOtpResponse, error) {
	const op = "service.VerifyOtp"

	email := normalizeEmail(req.Email)
	otp := strings.TrimSpace(req.Otp)
	if email == "" || otp == "" {
		return nil, fmt.Errorf("%w: email and otp required", custom_err.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, custom_err.ErrOtpNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, custom_err.ErrUserDeactivated
	}

	record, err := s.userRepo.GetLatestOtp(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if record.ConsumedAt != nil {
		return nil, custom_err.ErrOtpConsumed
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, custom_err.ErrOtpExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.OtpHash), []byte(otp)); err != nil {
		return nil, custom_err.ErrInvalidOtp
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		return s.userRepo.ConsumeOtpTx(ctx, tx, record.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		s.log.Error("failed to generate JWT", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("пользователь вошёл по otp",
		slog.String("op", op),
		slog.Int64("user_id", user.ID))

	return &models.VerifyOtpResponse{Token: token}, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, custom_err.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, custom_err.ErrTokenNotActive
		}
		return nil, custom_err.ErrInvalidToken
	}

	if !token.Valid {
		return nil, custom_err.ErrInvalidToken
	}

	if claims.UserID == 0 || claims.Email == "" {
		return nil, custom_err.ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) generateJWT(user *models.User) (string, error) {
	claims := models.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOtp криптостойкий шестизначный код
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
