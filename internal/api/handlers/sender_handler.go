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

type SenderHandler struct {
	service service.Senders
}

func NewSenderHandler(service service.Senders) *SenderHandler {
	return &SenderHandler{
		service: service,
	}
}

// Create godoc
// @Summary      Создать отправителя
// @Tags         senders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body models.CreatePartyRequest true "Данные отправителя"
// @Success      201 {object} models.Sender
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /senders [post]
func (h *SenderHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateSender"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	userID := middlew.GetUserID(r.Context())

	var req models.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	result, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writePartyError(w, log, op, "Sender", err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, result)
}

// List godoc
// @Summary      Список отправителей
// @Tags         senders
// @Security     BearerAuth
// @Produce      json
// @Param        q     query string false "Поиск по имени и телефону"
// @Param        page  query int    false "Страница"
// @Param        limit query int    false "Размер страницы (до 50)"
// @Success      200 {object} models.PagedResponse[models.Sender]
// @Failure      401 {object} response.ErrorResponse
// @Router       /senders [get]
func (h *SenderHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListSenders"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	result, err := h.service.List(r.Context(), userID, parseListQuery(r))
	if err != nil {
		log.Error("failed to list senders", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// GetByID godoc
// @Summary      Получить отправителя
// @Tags         senders
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "ID отправителя"
// @Success      200 {object} models.Sender
// @Failure      404 {object} response.ErrorResponse
// @Router       /senders/{id} [get]
func (h *SenderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetSenderByID"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	id, err := parseID(r)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_id", "Invalid sender id")
		return
	}

	result, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		writePartyError(w, log, op, "Sender", err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// Update godoc
// @Summary      Обновить отправителя
// @Tags         senders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "ID отправителя"
// @Param        request body models.UpdatePartyRequest true "Изменяемые поля"
// @Success      200 {object} models.Sender
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /senders/{id} [put]
func (h *SenderHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handler.UpdateSender"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	userID := middlew.GetUserID(r.Context())

	id, err := parseID(r)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_id", "Invalid sender id")
		return
	}

	var req models.UpdatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	result, err := h.service.Update(r.Context(), id, userID, req)
	if err != nil {
		writePartyError(w, log, op, "Sender", err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// Delete godoc
// @Summary      Удалить отправителя
// @Description  Мягкое удаление, запись деактивируется
// @Tags         senders
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "ID отправителя"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /senders/{id} [delete]
func (h *SenderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handler.DeleteSender"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	id, err := parseID(r)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_id", "Invalid sender id")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		writePartyError(w, log, op, "Sender", err)
		return
	}

	response.WriteJSONMessage(w, log, http.StatusOK, "Sender deleted")
}

// writePartyError общий маппинг ошибок CRUD отправителей/получателей
func writePartyError(w http.ResponseWriter, log *slog.Logger, op, entity string, err error) {
	switch {
	case errors.Is(err, custom_err.ErrInvalidInput):
		log.Warn("invalid input", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, custom_err.ErrPhoneExists):
		log.Warn("phone exists", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusConflict, "phone_exists", "Phone number already exists")
	case errors.Is(err, custom_err.ErrSenderNotFound), errors.Is(err, custom_err.ErrReceiverNotFound), errors.Is(err, custom_err.ErrNotFound):
		log.Info("not found", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusNotFound, "not_found", entity+" not found")
	default:
		log.Error("internal error", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
