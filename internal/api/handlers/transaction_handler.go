package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"money-transfer-backend/internal/api/middlew"
	"money-transfer-backend/internal/custom_err"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/service"
	"money-transfer-backend/pkg/response"

	"github.com/go-chi/chi/v5"
)

type TransactionHandler struct {
	service service.Transactions
}

func NewTransactionHandler(service service.Transactions) *TransactionHandler {
	return &TransactionHandler{
		service: service,
	}
}

// Create godoc
// @Summary      Создать перевод
// @Description  Проверяет отправителя и получателя, считает сумму в NPR и комиссию, публикует событие в очередь. Возвращает 202: перевод поставлен в очередь, строка в базе появится асинхронно.
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body models.CreateTransactionRequest true "Данные перевода"
// @Success      202 {object} models.TransactionReceipt
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Router       /transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateTransaction"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	userID := middlew.GetUserID(r.Context())

	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	log.Info("запрос на перевод",
		slog.String("op", op),
		slog.Int64("sender_id", req.SenderID),
		slog.Int64("receiver_id", req.ReceiverID),
		slog.Float64("amount_jpy", req.AmountJPY))

	result, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrSenderNotFound):
			log.Info("sender not found", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusNotFound, "sender_not_found", "Sender not found")
		case errors.Is(err, custom_err.ErrReceiverNotFound):
			log.Info("receiver not found", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusNotFound, "receiver_not_found", "Receiver not found")
		case errors.Is(err, custom_err.ErrInvalidAmount):
			log.Warn("invalid amount", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_amount", "Invalid amount")
		case errors.Is(err, custom_err.ErrInvalidInput):
			log.Warn("invalid input", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", "Invalid request")
		case errors.Is(err, custom_err.ErrPublishUnavailable):
			log.Error("broker unavailable", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusServiceUnavailable, "publish_unavailable", "Transfer queue is unavailable, try again later")
		default:
			log.Error("failed to create transaction", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusAccepted, result)
}

// List godoc
// @Summary      Список переводов
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int    false "Страница"
// @Param        limit  query int    false "Размер страницы (до 50)"
// @Param        status query string false "Фильтр по статусу" Enums(PENDING, SUCCESS, FAILED)
// @Success      200 {object} models.PagedResponse[models.TransactionListItem]
// @Failure      401 {object} response.ErrorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListTransactions"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	q := models.TransactionListQuery{
		ListQuery: parseListQuery(r),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.TransactionStatus(raw)
		if !status.IsValid() {
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_status", "Unknown status filter")
			return
		}
		q.Status = &status
	}

	result, err := h.service.List(r.Context(), userID, q)
	if err != nil {
		log.Error("failed to list transactions", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// GetByID godoc
// @Summary      Получить перевод
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "ID перевода"
// @Success      200 {object} models.Transaction
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetTransactionByID"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	id, err := parseID(r)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_id", "Invalid transaction id")
		return
	}

	result, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Transaction not found")
			return
		}
		log.Error("failed to get transaction", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// UpdateStatus godoc
// @Summary      Обновить статус перевода
// @Description  Переводит PENDING в SUCCESS или FAILED
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "ID перевода"
// @Param        request body models.UpdateStatusRequest true "Новый статус"
// @Success      200 {object} models.Transaction
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /transactions/{id}/status [patch]
func (h *TransactionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handler.UpdateTransactionStatus"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	userID := middlew.GetUserID(r.Context())

	id, err := parseID(r)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_id", "Invalid transaction id")
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), id, userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidStatus):
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_status", "Status must be SUCCESS or FAILED")
		case errors.Is(err, custom_err.ErrNotFound):
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Transaction not found")
		default:
			log.Error("failed to update status", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseListQuery(r *http.Request) models.ListQuery {
	q := models.ListQuery{Search: r.URL.Query().Get("q")}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		q.Limit = limit
	}
	q.Normalize()
	return q
}
