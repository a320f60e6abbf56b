// Package gateway integrates the two supported payment providers. Each
// variant owns its signing algorithm, its order-reference format and its
// initiation flow (remote call for MoMo, locally built redirect for VNPay);
// callers depend only on the Gateway interface.
package gateway

import (
	"context"

	"skincare-shop/internal/config"
	"skincare-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Gateway variant names.
const (
	NameMoMo  = "momo"
	NameVNPay = "vnpay"
)

// Gateway is implemented by exactly the two known payment providers.
type Gateway interface {
	// Name returns the gateway variant name.
	Name() string

	// BuildRequest constructs the signed canonical parameter set for an order.
	BuildRequest(order *model.Order) (*model.PaymentRequest, error)

	// Dispatch turns a signed request into a redirect URL. For MoMo this is
	// a remote initiation call; for VNPay it is a pure local computation.
	Dispatch(ctx context.Context, req *model.PaymentRequest) (string, error)

	// ParseCallback extracts the order reference, result code and claimed
	// signature from a raw callback parameter set.
	ParseCallback(params map[string]string) (*model.PaymentCallback, error)

	// VerifyCallback recomputes the callback signature and compares it with
	// the claimed one.
	VerifyCallback(cb *model.PaymentCallback) (bool, error)

	// OrderIDFromRef resolves the internal order id from the gateway's
	// externally visible order reference.
	OrderIDFromRef(ref string) (uuid.UUID, error)

	// StatusFromResultCode maps the provider's result code to an order status.
	StatusFromResultCode(code string) model.OrderStatus
}

// NewRegistry builds the enabled gateway variants keyed by name.
func NewRegistry(cfg config.PaymentConfig, logger zerolog.Logger) map[string]Gateway {
	registry := make(map[string]Gateway, len(cfg.EnabledGateways))
	for _, name := range cfg.EnabledGateways {
		switch name {
		case NameMoMo:
			registry[name] = NewMoMo(cfg.MoMo, cfg.RequestTimeout, logger)
		case NameVNPay:
			registry[name] = NewVNPay(cfg.VNPay, logger)
		}
	}
	return registry
}
