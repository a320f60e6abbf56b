package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"skincare-shop/internal/model"
	"skincare-shop/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// accountIDHeader carries the authenticated account identity, set by the
// external auth layer in front of this service.
const accountIDHeader = "X-Account-ID"

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	accountID := r.Header.Get(accountIDHeader)
	if accountID == "" {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing account identity", h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), accountID, &req)
	if err != nil {
		status, code, message := mapDomainError(err)

		// Initiation failures still created the order; tell the client
		// which order to retry payment for.
		if order != nil && code == model.ErrCodePaymentInitiation {
			writeJSON(w, status, struct {
				ErrorResponse
				OrderID uuid.UUID `json:"orderId"`
			}{ErrorResponse{Error: code, Message: message}, order.OrderID})
			return
		}

		writeError(w, status, code, message, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// RetryPayment handles POST /api/orders/{id}/payment requests.
func (h *OrderHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/orders/"), "/payment")
	orderID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid order ID format", h.logger)
		return
	}

	resp, err := h.service.RetryPayment(r.Context(), orderID)
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	orderIDStr := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	if orderIDStr == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "order ID is required", h.logger)
		return
	}

	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve order", h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeUnknownOrder, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListByAccount handles GET /api/orders requests for the calling account.
func (h *OrderHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	accountID := r.Header.Get(accountIDHeader)
	if accountID == "" {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing account identity", h.logger)
		return
	}

	orders, err := h.service.ListByAccount(r.Context(), accountID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to list orders", h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}
