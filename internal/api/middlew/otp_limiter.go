package middlew

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"money-transfer-backend/pkg/response"

	"github.com/redis/go-redis/v9"
)

// OtpLimiter ограничивает запросы и проверки OTP счётчиками в redis
// по IP и по email. При ошибке redis пропускает запрос: лимитер не должен
// полностью блокировать вход.
type OtpLimiter struct {
	client *redis.Client
	log    *slog.Logger
}

func NewOtpLimiter(client *redis.Client, log *slog.Logger) *OtpLimiter {
	return &OtpLimiter{client: client, log: log}
}

// hit true, если запрос укладывается в лимит
func (l *OtpLimiter) hit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// LimitRequest лимит на выдачу кода: 5 с одного IP и 3 на email за 10 минут
func (l *OtpLimiter) LimitRequest(next http.Handler) http.Handler {
	return l.limit("req", 5, 3, next)
}

// LimitVerify лимит на проверку кода (защита от перебора): 10 с IP, 6 на email
func (l *OtpLimiter) LimitVerify(next http.Handler) http.Handler {
	return l.limit("verify", 10, 6, next)
}

func (l *OtpLimiter) limit(kind string, ipLimit, emailLimit int, next http.Handler) http.Handler {
	const window = 10 * time.Minute

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := GetLogger(r.Context())
		ctx := r.Context()

		ip := clientIP(r)
		email := peekEmail(r)

		ipOK, err := l.hit(ctx, fmt.Sprintf("otp:%s:ip:%s", kind, ip), ipLimit, window)
		if err != nil {
			log.Error("redis limiter error", slog.String("error", err.Error()))
			next.ServeHTTP(w, r)
			return
		}

		emailOK := true
		if email != "" {
			emailOK, err = l.hit(ctx, fmt.Sprintf("otp:%s:email:%s", kind, email), emailLimit, window)
			if err != nil {
				log.Error("redis limiter error", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
		}

		if !ipOK || !emailOK {
			log.Warn("превышен лимит otp запросов",
				slog.String("kind", kind),
				slog.String("ip", ip))
			response.WriteJSONError(w, log, http.StatusTooManyRequests, "too_many_requests", "Too many OTP requests. Try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// тело запроса на выдачу кода помещается в 4KB; больший префикс не буферизуем
const maxPeekBytes = 4096

type peekedBody struct {
	io.Reader
	io.Closer
}

// peekEmail читает email из тела, не съедая его для следующего обработчика.
// Буферизуется не больше maxPeekBytes: прочитанный префикс возвращается
// в r.Body, остаток тела дочитает следующий обработчик.
func peekEmail(r *http.Request) string {
	if r.Body == nil {
		return ""
	}

	prefix, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	if err != nil {
		return ""
	}
	r.Body = peekedBody{
		Reader: io.MultiReader(bytes.NewReader(prefix), r.Body),
		Closer: r.Body,
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(prefix, &payload); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(payload.Email))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
