package gateway

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"skincare-shop/internal/config"
	"skincare-shop/internal/model"
	"skincare-shop/internal/signature"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVNPay() *VNPay {
	cfg := config.VNPayConfig{
		TmnCode:   "K2035S4C",
		SecretKey: "vnpay-secret",
		BaseURL:   "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL: "http://localhost:8080/api/vn-pay/return",
	}
	g := NewVNPay(cfg, zerolog.Nop())
	g.now = func() time.Time {
		return time.Date(2025, 11, 14, 22, 13, 20, 0, time.UTC)
	}
	return g
}

func TestVNPay_BuildRequest(t *testing.T) {
	g := newTestVNPay()
	order := testOrder(150_000)

	req, err := g.BuildRequest(order)
	require.NoError(t, err)

	assert.Equal(t, NameVNPay, req.Gateway)
	assert.Equal(t, order.ID.String(), req.OrderRef)
	assert.Equal(t, int64(150_000), req.Amount)
	assert.Equal(t, "15000000", req.Params["vnp_Amount"])
	assert.Equal(t, "K2035S4C", req.Params["vnp_TmnCode"])
	assert.Equal(t, order.ID.String(), req.Params["vnp_TxnRef"])
	assert.Equal(t, "20251114221320", req.Params["vnp_CreateDate"])

	ok, err := signature.Verify(req.Params, req.Signature, signature.HMACSHA512, "vnpay-secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVNPay_Dispatch(t *testing.T) {
	g := newTestVNPay()
	req, err := g.BuildRequest(testOrder(150_000))
	require.NoError(t, err)

	redirect, err := g.Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(redirect, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?"))

	parsed, err := url.Parse(redirect)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "15000000", query.Get("vnp_Amount"))
	assert.Equal(t, req.Signature, query.Get("vnp_SecureHash"))

	// The query itself must verify, which is what VNPay does on its side.
	flat := make(map[string]string, len(query))
	for k := range query {
		flat[k] = query.Get(k)
	}
	ok, err := signature.Verify(flat, query.Get("vnp_SecureHash"), signature.HMACSHA512, "vnpay-secret",
		"vnp_SecureHash", "vnp_SecureHashType")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVNPay_CallbackRoundTrip(t *testing.T) {
	g := newTestVNPay()

	orderID := uuid.New()
	params := map[string]string{
		"vnp_TmnCode":       "K2035S4C",
		"vnp_TxnRef":        orderID.String(),
		"vnp_Amount":        "15000000",
		"vnp_ResponseCode":  "00",
		"vnp_TransactionNo": "14422574",
		"vnp_BankCode":      "NCB",
		"vnp_PayDate":       "20251114221530",
	}
	signed, err := signature.Sign(params, signature.HMACSHA512, "vnpay-secret")
	require.NoError(t, err)
	params["vnp_SecureHash"] = signed

	cb, err := g.ParseCallback(params)
	require.NoError(t, err)
	assert.Equal(t, orderID.String(), cb.OrderRef)
	assert.Equal(t, "00", cb.ResultCode)

	ok, err := g.VerifyCallback(cb)
	require.NoError(t, err)
	assert.True(t, ok)

	id, err := g.OrderIDFromRef(cb.OrderRef)
	require.NoError(t, err)
	assert.Equal(t, orderID, id)
}

func TestVNPay_CallbackTamperedAmount(t *testing.T) {
	g := newTestVNPay()

	params := map[string]string{
		"vnp_TxnRef":       uuid.New().String(),
		"vnp_Amount":       "15000000",
		"vnp_ResponseCode": "00",
	}
	signed, err := signature.Sign(params, signature.HMACSHA512, "vnpay-secret")
	require.NoError(t, err)
	params["vnp_SecureHash"] = signed
	params["vnp_Amount"] = "100"

	cb, err := g.ParseCallback(params)
	require.NoError(t, err)

	ok, err := g.VerifyCallback(cb)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVNPay_VerifyCallback_MissingSignature(t *testing.T) {
	g := newTestVNPay()

	cb, err := g.ParseCallback(map[string]string{
		"vnp_TxnRef":       uuid.New().String(),
		"vnp_ResponseCode": "00",
	})
	require.NoError(t, err)

	ok, err := g.VerifyCallback(cb)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVNPay_OrderIDFromRef_Invalid(t *testing.T) {
	g := newTestVNPay()

	_, err := g.OrderIDFromRef("not-a-uuid")
	assert.ErrorIs(t, err, model.ErrUnknownOrder)
}

func TestVNPay_StatusFromResultCode(t *testing.T) {
	g := newTestVNPay()

	assert.Equal(t, model.StatusPaid, g.StatusFromResultCode("00"))
	assert.Equal(t, model.StatusPendingPayment, g.StatusFromResultCode("07"))
	assert.Equal(t, model.StatusCancel, g.StatusFromResultCode("24"))
	assert.Equal(t, model.StatusCancel, g.StatusFromResultCode(""))
}
