package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skincare-shop/internal/config"
	"skincare-shop/internal/model"
	"skincare-shop/internal/signature"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	momoRequestType = "payWithMethod"
	momoSuccessCode = "0"
	momoRefPrefix   = "ORDER"
)

// MoMo implements Gateway for the MoMo e-wallet. Initiation is a remote
// HTTPS call returning the pay URL; requests and callbacks are signed with
// HMAC-SHA256.
type MoMo struct {
	cfg    config.MoMoConfig
	client *http.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewMoMo creates the MoMo gateway variant with a bounded request timeout.
func NewMoMo(cfg config.MoMoConfig, timeout time.Duration, logger zerolog.Logger) *MoMo {
	return &MoMo{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("gateway", NameMoMo).Logger(),
		now:    time.Now,
	}
}

// Name returns the gateway variant name.
func (g *MoMo) Name() string { return NameMoMo }

// BuildRequest constructs the signed initiation parameters for an order.
// The order reference embeds the internal order id between fixed separators
// so the callback can recover it.
func (g *MoMo) BuildRequest(order *model.Order) (*model.PaymentRequest, error) {
	orderRef := fmt.Sprintf("%s_%s_%d", momoRefPrefix, order.ID, g.now().UnixMilli())

	params := map[string]string{
		"accessKey":   g.cfg.AccessKey,
		"amount":      fmt.Sprintf("%d", order.Total),
		"extraData":   "",
		"ipnUrl":      g.cfg.IPNURL,
		"orderId":     orderRef,
		"orderInfo":   fmt.Sprintf("Payment for order #%s", order.ID),
		"partnerCode": g.cfg.PartnerCode,
		"redirectUrl": g.cfg.RedirectURL,
		"requestId":   orderRef,
		"requestType": momoRequestType,
	}

	signed, err := signature.Sign(params, signature.HMACSHA256, g.cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign MoMo request: %w", err)
	}

	return &model.PaymentRequest{
		Gateway:   NameMoMo,
		OrderRef:  orderRef,
		Amount:    order.Total,
		Params:    params,
		Signature: signed,
	}, nil
}

// momoInitRequest is the JSON body of the initiation call.
type momoInitRequest struct {
	PartnerCode string `json:"partnerCode"`
	PartnerName string `json:"partnerName"`
	StoreID     string `json:"storeId"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	Lang        string `json:"lang"`
	RequestType string `json:"requestType"`
	AutoCapture bool   `json:"autoCapture"`
	ExtraData   string `json:"extraData"`
	Signature   string `json:"signature"`
}

// momoInitResponse is the JSON body MoMo answers the initiation call with.
type momoInitResponse struct {
	PayURL     string `json:"payUrl"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// Dispatch sends the signed initiation request and extracts the pay URL.
func (g *MoMo) Dispatch(ctx context.Context, req *model.PaymentRequest) (string, error) {
	body := momoInitRequest{
		PartnerCode: g.cfg.PartnerCode,
		PartnerName: g.cfg.PartnerName,
		StoreID:     g.cfg.StoreID,
		RequestID:   req.Params["requestId"],
		Amount:      req.Amount,
		OrderID:     req.OrderRef,
		OrderInfo:   req.Params["orderInfo"],
		RedirectURL: g.cfg.RedirectURL,
		IPNURL:      g.cfg.IPNURL,
		Lang:        "vi",
		RequestType: momoRequestType,
		AutoCapture: true,
		ExtraData:   req.Params["extraData"],
		Signature:   req.Signature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode MoMo request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build MoMo request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.Error().Err(err).Str("order_ref", req.OrderRef).Msg("MoMo initiation call failed")
		return "", &model.GatewayUnavailableError{Gateway: NameMoMo, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.GatewayUnavailableError{Gateway: NameMoMo, Cause: err}
	}

	var initResp momoInitResponse
	if err := json.Unmarshal(respBody, &initResp); err != nil {
		g.logger.Error().Err(err).Str("order_ref", req.OrderRef).Msg("unparseable MoMo response")
		return "", &model.GatewayRejectedError{Gateway: NameMoMo, Message: "unparseable response"}
	}

	if initResp.PayURL == "" {
		message := initResp.Message
		if message == "" {
			message = "unknown error"
		}
		g.logger.Warn().
			Str("order_ref", req.OrderRef).
			Int("result_code", initResp.ResultCode).
			Str("message", message).
			Msg("MoMo rejected payment request")
		return "", &model.GatewayRejectedError{Gateway: NameMoMo, Message: message}
	}

	g.logger.Info().
		Str("order_ref", req.OrderRef).
		Msg("MoMo payment URL generated")

	return initResp.PayURL, nil
}

// ParseCallback extracts the order reference, result code and claimed
// signature from the IPN parameters.
func (g *MoMo) ParseCallback(params map[string]string) (*model.PaymentCallback, error) {
	ref := params["orderId"]
	if ref == "" {
		return nil, model.ErrUnknownOrder
	}

	return &model.PaymentCallback{
		Gateway:    NameMoMo,
		OrderRef:   ref,
		ResultCode: params["resultCode"],
		Signature:  params["signature"],
		RawParams:  params,
	}, nil
}

// VerifyCallback recomputes the HMAC-SHA256 signature over every received
// field except the signature itself.
func (g *MoMo) VerifyCallback(cb *model.PaymentCallback) (bool, error) {
	if cb.Signature == "" {
		return false, nil
	}
	return signature.Verify(cb.RawParams, cb.Signature, signature.HMACSHA256, g.cfg.SecretKey, "signature")
}

// OrderIDFromRef parses the internal order id out of the composite
// ORDER_<id>_<timestamp> reference.
func (g *MoMo) OrderIDFromRef(ref string) (uuid.UUID, error) {
	parts := strings.Split(ref, "_")
	if len(parts) != 3 || parts[0] != momoRefPrefix {
		return uuid.Nil, model.ErrUnknownOrder
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, model.ErrUnknownOrder
	}
	return id, nil
}

// StatusFromResultCode maps MoMo result codes: 0 is the only success.
func (g *MoMo) StatusFromResultCode(code string) model.OrderStatus {
	if code == momoSuccessCode {
		return model.StatusPaid
	}
	return model.StatusCancel
}
