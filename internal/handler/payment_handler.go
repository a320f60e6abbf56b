package handler

import (
	"errors"
	"net/http"

	"skincare-shop/internal/gateway"
	"skincare-shop/internal/model"
	"skincare-shop/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler handles inbound payment gateway callbacks.
type PaymentHandler struct {
	service   service.PaymentService
	resultURL string
	logger    zerolog.Logger
}

// NewPaymentHandler creates a new payment callback handler. resultURL is the
// frontend page shoppers are sent to after a VNPay return.
func NewPaymentHandler(service service.PaymentService, resultURL string, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		resultURL: resultURL,
		logger:    logger.With().Str("handler", "payment").Logger(),
	}
}

// callbackResponse is the body returned to gateways on their IPN calls.
type callbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId,omitempty"`
}

// MoMoCallback handles GET /api/payment/momo/callback (the MoMo IPN).
// The response is always 200: gateways retry on non-2xx, and a forged
// signature must not trigger a retry storm. Failures are recorded in logs.
func (h *PaymentHandler) MoMoCallback(w http.ResponseWriter, r *http.Request) {
	params := flattenQuery(r)

	orderID, status, err := h.service.HandleCallback(r.Context(), gateway.NameMoMo, params)
	if err != nil {
		h.logger.Warn().Err(err).Msg("MoMo callback rejected")
		writeJSON(w, http.StatusOK, callbackResponse{Success: false, Message: callbackMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, callbackResponse{
		Success: status == model.StatusPaid,
		Message: "payment " + string(status),
		OrderID: orderID.String(),
	})
}

// VNPayReturn handles GET /api/vn-pay/return. The shopper arrives here from
// the VNPay payment page and is redirected to the frontend result page.
func (h *PaymentHandler) VNPayReturn(w http.ResponseWriter, r *http.Request) {
	params := flattenQuery(r)

	_, status, err := h.service.HandleCallback(r.Context(), gateway.NameVNPay, params)
	if err != nil {
		h.logger.Warn().Err(err).Msg("VNPay return rejected")
	}

	result := "fail"
	if err == nil && status == model.StatusPaid {
		result = "success"
	}

	http.Redirect(w, r, h.resultURL+"?status="+result, http.StatusFound)
}

// flattenQuery collapses the request query to single-valued parameters, the
// shape both gateways sign.
func flattenQuery(r *http.Request) map[string]string {
	values := r.URL.Query()
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params
}

func callbackMessage(err error) string {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	var transitionErr *model.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return transitionErr.Error()
	}

	return "callback processing failed"
}
