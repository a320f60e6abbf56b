package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"skincare-shop/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code. The status
// line is already on the wire by encode time, so an encode failure cannot
// be reported to the client.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// mapDomainError resolves an HTTP status and stable code for a domain error.
func mapDomainError(err error) (int, string, string) {
	var (
		domainErr     *model.DomainError
		stockErr      *model.InsufficientStockError
		transitionErr *model.InvalidTransitionError
		initErr       *model.PaymentInitiationError
	)

	switch {
	case errors.As(err, &stockErr):
		return http.StatusConflict, model.ErrCodeInsufficientStock, stockErr.Error()
	case errors.As(err, &transitionErr):
		return http.StatusConflict, model.ErrCodeInvalidTransition, transitionErr.Error()
	case errors.As(err, &initErr):
		return http.StatusBadGateway, model.ErrCodePaymentInitiation, initErr.Error()
	case errors.As(err, &domainErr):
		status := http.StatusBadRequest
		switch domainErr.Code {
		case model.ErrCodeUnknownOrder:
			status = http.StatusNotFound
		case model.ErrCodeInvalidSignature:
			status = http.StatusUnauthorized
		}
		return status, domainErr.Code, domainErr.Message
	}

	return http.StatusInternalServerError, model.ErrCodeInternalError, "internal error"
}
