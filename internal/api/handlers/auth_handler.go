package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"money-transfer-backend/internal/api/middlew"
	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/service"
	"money-transfer-backend/pkg/response"
)

type AuthHandler struct {
	service service.Auth
}

func NewAuthHandler(service service.Auth) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// RequestOtp godoc
// @Summary      Запросить одноразовый код
// @Description  Высылает шестизначный OTP на указанный email, при первом входе создаёт пользователя
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.RequestOtpRequest true "Email"
// @Success      200 {object} models.RequestOtpResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Router       /auth/request-otp [post]
func (h *AuthHandler) RequestOtp(w http.ResponseWriter, r *http.Request) {
	const op = "handler.RequestOtp"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.RequestOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	result, err := h.service.RequestOtp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidInput):
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", "Invalid email")
		case errors.Is(err, custom_err.ErrUserDeactivated):
			response.WriteJSONError(w, log, http.StatusForbidden, "user_deactivated", "User is deactivated")
		default:
			log.Error("failed to request otp", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// VerifyOtp godoc
// @Summary      Подтвердить одноразовый код
// @Description  Проверяет OTP и выдаёт JWT токен
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.VerifyOtpRequest true "Email и код"
// @Success      200 {object} models.VerifyOtpResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	const op = "handler.VerifyOtp"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	result, err := h.service.VerifyOtp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidInput):
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", "Email and OTP required")
		case errors.Is(err, custom_err.ErrOtpNotFound):
			response.WriteJSONError(w, log, http.StatusBadRequest, "otp_not_found", "No OTP found. Request OTP first.")
		case errors.Is(err, custom_err.ErrOtpConsumed):
			response.WriteJSONError(w, log, http.StatusBadRequest, "otp_consumed", "OTP already used. Request a new OTP.")
		case errors.Is(err, custom_err.ErrOtpExpired):
			response.WriteJSONError(w, log, http.StatusBadRequest, "otp_expired", "OTP expired. Request a new OTP.")
		case errors.Is(err, custom_err.ErrInvalidOtp):
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_otp", "Invalid OTP")
		case errors.Is(err, custom_err.ErrUserDeactivated):
			response.WriteJSONError(w, log, http.StatusForbidden, "user_deactivated", "User is deactivated")
		default:
			log.Error("failed to verify otp", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}
