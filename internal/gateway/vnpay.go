package gateway

import (
	"context"
	"fmt"
	"time"

	"skincare-shop/internal/config"
	"skincare-shop/internal/model"
	"skincare-shop/internal/signature"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	vnpVersion     = "2.1.0"
	vnpCommand     = "pay"
	vnpCurrency    = "VND"
	vnpSuccessCode = "00"
	vnpPendingCode = "07"

	vnpSignatureField     = "vnp_SecureHash"
	vnpSignatureTypeField = "vnp_SecureHashType"
)

// VNPay implements Gateway for the VNPay bank-transfer gateway. There is no
// initiation call: the redirect URL is the signed, sorted query appended to
// the gateway's base URL. Signing uses HMAC-SHA512.
type VNPay struct {
	cfg    config.VNPayConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewVNPay creates the VNPay gateway variant.
func NewVNPay(cfg config.VNPayConfig, logger zerolog.Logger) *VNPay {
	return &VNPay{
		cfg:    cfg,
		logger: logger.With().Str("gateway", NameVNPay).Logger(),
		now:    time.Now,
	}
}

// Name returns the gateway variant name.
func (g *VNPay) Name() string { return NameVNPay }

// BuildRequest constructs the signed payment parameters for an order. The
// transaction reference is the internal order id itself. VNPay amounts carry
// two extra zero digits on top of the minor unit.
func (g *VNPay) BuildRequest(order *model.Order) (*model.PaymentRequest, error) {
	orderRef := order.ID.String()

	params := map[string]string{
		"vnp_Version":    vnpVersion,
		"vnp_Command":    vnpCommand,
		"vnp_TmnCode":    g.cfg.TmnCode,
		"vnp_Locale":     "vn",
		"vnp_CurrCode":   vnpCurrency,
		"vnp_TxnRef":     orderRef,
		"vnp_OrderInfo":  fmt.Sprintf("Thanh toan cho ma GD: %s", orderRef),
		"vnp_OrderType":  "other",
		"vnp_Amount":     fmt.Sprintf("%d00", order.Total),
		"vnp_ReturnUrl":  g.cfg.ReturnURL,
		"vnp_CreateDate": g.now().Format("20060102150405"),
	}

	signed, err := signature.Sign(params, signature.HMACSHA512, g.cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign VNPay request: %w", err)
	}

	return &model.PaymentRequest{
		Gateway:   NameVNPay,
		OrderRef:  orderRef,
		Amount:    order.Total,
		Params:    params,
		Signature: signed,
	}, nil
}

// Dispatch is pure for VNPay: the redirect is the base URL plus the signed
// query string. No network call is made.
func (g *VNPay) Dispatch(_ context.Context, req *model.PaymentRequest) (string, error) {
	query := make(map[string]string, len(req.Params)+1)
	for k, v := range req.Params {
		query[k] = v
	}
	query[vnpSignatureField] = req.Signature

	redirect := g.cfg.BaseURL + "?" + signature.Canonicalize(query)

	g.logger.Info().
		Str("order_ref", req.OrderRef).
		Msg("VNPay redirect URL built")

	return redirect, nil
}

// ParseCallback extracts the order reference, result code and claimed
// signature from the return parameters.
func (g *VNPay) ParseCallback(params map[string]string) (*model.PaymentCallback, error) {
	ref := params["vnp_TxnRef"]
	if ref == "" {
		return nil, model.ErrUnknownOrder
	}

	return &model.PaymentCallback{
		Gateway:    NameVNPay,
		OrderRef:   ref,
		ResultCode: params["vnp_ResponseCode"],
		Signature:  params[vnpSignatureField],
		RawParams:  params,
	}, nil
}

// VerifyCallback recomputes the HMAC-SHA512 signature over every received
// field except the secure-hash fields.
func (g *VNPay) VerifyCallback(cb *model.PaymentCallback) (bool, error) {
	if cb.Signature == "" {
		return false, nil
	}
	return signature.Verify(cb.RawParams, cb.Signature, signature.HMACSHA512, g.cfg.SecretKey,
		vnpSignatureField, vnpSignatureTypeField)
}

// OrderIDFromRef resolves the internal order id: the reference is the id.
func (g *VNPay) OrderIDFromRef(ref string) (uuid.UUID, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return uuid.Nil, model.ErrUnknownOrder
	}
	return id, nil
}

// StatusFromResultCode maps VNPay response codes: 00 is success, 07 is a
// transaction under review, everything else is a failed or abandoned payment.
func (g *VNPay) StatusFromResultCode(code string) model.OrderStatus {
	switch code {
	case vnpSuccessCode:
		return model.StatusPaid
	case vnpPendingCode:
		return model.StatusPendingPayment
	default:
		return model.StatusCancel
	}
}
