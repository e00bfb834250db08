package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"money-transfer-backend/internal/api/middlew"
	"money-transfer-backend/internal/models"
	"money-transfer-backend/internal/service"
	"money-transfer-backend/pkg/response"
)

type ReceiverHandler struct {
	service service.Receivers
}

func NewReceiverHandler(service service.Receivers) *ReceiverHandler {
	return &ReceiverHandler{
		service: service,
	}
}

// Create godoc
// @Summary      Создать получателя
// @Tags         receivers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body models.CreatePartyRequest true "Данные получателя"
// @Success      201 {object} models.Receiver
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /receivers [post]
func (h *ReceiverHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateReceiver"
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
		writePartyError(w, log, op, "Receiver", err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, result)
}

// List godoc
// @Summary      Список получателей
// @Tags         receivers
// @Security     BearerAuth
// @Produce      json
// @Param        q     query string false "Поиск по имени и телефону"
// @Param        page  query int    false "Страница"
// @Param        limit query int    false "Размер страницы (до 50)"
// @Success      200 {object} models.PagedResponse[models.Receiver]
// @Failure      401 {object} response.ErrorResponse
// @Router       /receivers [get]
func (h *ReceiverHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListReceivers"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	result, err := h.service.List(r.Context(), userID, parseListQuery(r))
	if err != nil {
		log.Error("failed to list receivers", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// GetByID godoc
// @Summary      Получить получателя
// @Tags         receivers
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "ID получателя"
// @Success      200 {object} models.Receiver
// @Failure      404 {object} response.ErrorResponse
// @Router       /receivers/{id} [get]
func (h *ReceiverHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetReceiverByID"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	id, err := parseID(r)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_id", "Invalid receiver id")
		return
	}

	result, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		writePartyError(w, log, op, "Receiver", err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// Update godoc
// @Summary      Обновить получателя
// @Tags         receivers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "ID получателя"
// @Param        request body models.UpdatePartyRequest true "Изменяемые поля"
// @Success      200 {object} models.Receiver
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /receivers/{id} [put]
func (h *ReceiverHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handler.UpdateReceiver"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	userID := middlew.GetUserID(r.Context())

	id, err := parseID(r)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_id", "Invalid receiver id")
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
		writePartyError(w, log, op, "Receiver", err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// Delete godoc
// @Summary      Удалить получателя
// @Description  Мягкое удаление, запись деактивируется
// @Tags         receivers
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "ID получателя"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /receivers/{id} [delete]
func (h *ReceiverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handler.DeleteReceiver"
	log := middlew.GetLogger(r.Context())

	userID := middlew.GetUserID(r.Context())

	id, err := parseID(r)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_id", "Invalid receiver id")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		writePartyError(w, log, op, "Receiver", err)
		return
	}

	response.WriteJSONMessage(w, log, http.StatusOK, "Receiver deleted")
}
