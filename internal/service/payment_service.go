package service

import (
	"context"

	"skincare-shop/internal/gateway"
	"skincare-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService.
type paymentService struct {
	orders   OrderService
	gateways map[string]gateway.Gateway
	logger   zerolog.Logger
}

// NewPaymentService creates a new payment callback service.
func NewPaymentService(orders OrderService, gateways map[string]gateway.Gateway, logger zerolog.Logger) PaymentService {
	return &paymentService{
		orders:   orders,
		gateways: gateways,
		logger:   logger.With().Str("service", "payment").Logger(),
	}
}

// HandleCallback verifies an inbound gateway callback and applies the
// resulting status transition. A signature mismatch fails closed: the order
// is never touched.
func (s *paymentService) HandleCallback(ctx context.Context, gatewayName string, params map[string]string) (uuid.UUID, model.OrderStatus, error) {
	gw, ok := s.gateways[gatewayName]
	if !ok {
		return uuid.Nil, "", model.ErrUnknownGateway
	}

	cb, err := gw.ParseCallback(params)
	if err != nil {
		s.logger.Warn().
			Str("gateway", gatewayName).
			Err(err).
			Msg("malformed callback")
		return uuid.Nil, "", err
	}

	valid, err := gw.VerifyCallback(cb)
	if err != nil {
		return uuid.Nil, "", err
	}
	if !valid {
		s.logger.Warn().
			Str("gateway", gatewayName).
			Str("order_ref", cb.OrderRef).
			Msg("callback signature mismatch")
		return uuid.Nil, "", model.ErrInvalidSignature
	}

	orderID, err := gw.OrderIDFromRef(cb.OrderRef)
	if err != nil {
		s.logger.Warn().
			Str("gateway", gatewayName).
			Str("order_ref", cb.OrderRef).
			Msg("callback references unknown order")
		return uuid.Nil, "", err
	}

	status := gw.StatusFromResultCode(cb.ResultCode)

	if err := s.orders.Transition(ctx, orderID, status); err != nil {
		s.logger.Warn().
			Str("gateway", gatewayName).
			Str("order_id", orderID.String()).
			Str("status", string(status)).
			Err(err).
			Msg("callback transition rejected")
		return orderID, status, err
	}

	s.logger.Info().
		Str("gateway", gatewayName).
		Str("order_id", orderID.String()).
		Str("result_code", cb.ResultCode).
		Str("status", string(status)).
		Msg("callback processed")

	return orderID, status, nil
}
