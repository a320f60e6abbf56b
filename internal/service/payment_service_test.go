package service

import (
	"context"
	"testing"

	"skincare-shop/internal/gateway"
	"skincare-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, accountID string, req *model.OrderRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) RetryPayment(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) Transition(ctx context.Context, orderID uuid.UUID, newStatus model.OrderStatus) error {
	args := m.Called(ctx, orderID, newStatus)
	return args.Error(0)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListByAccount(ctx context.Context, accountID string) ([]model.Order, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func newTestPaymentService() (PaymentService, *MockOrderService, *MockGateway) {
	mockOrders := new(MockOrderService)
	mockGw := &MockGateway{name: gateway.NameMoMo}
	gateways := map[string]gateway.Gateway{gateway.NameMoMo: mockGw}

	svc := NewPaymentService(mockOrders, gateways, zerolog.Nop())
	return svc, mockOrders, mockGw
}

func TestPaymentService_HandleCallback_Success(t *testing.T) {
	ctx := context.Background()
	svc, mockOrders, mockGw := newTestPaymentService()

	orderID := uuid.New()
	params := map[string]string{"orderId": "ORDER_x_1", "resultCode": "0", "signature": "abc"}
	cb := &model.PaymentCallback{Gateway: gateway.NameMoMo, OrderRef: "ORDER_x_1", ResultCode: "0", Signature: "abc", RawParams: params}

	mockGw.On("ParseCallback", params).Return(cb, nil)
	mockGw.On("VerifyCallback", cb).Return(true, nil)
	mockGw.On("OrderIDFromRef", "ORDER_x_1").Return(orderID, nil)
	mockGw.On("StatusFromResultCode", "0").Return(model.StatusPaid)
	mockOrders.On("Transition", ctx, orderID, model.StatusPaid).Return(nil)

	gotID, gotStatus, err := svc.HandleCallback(ctx, gateway.NameMoMo, params)
	require.NoError(t, err)
	assert.Equal(t, orderID, gotID)
	assert.Equal(t, model.StatusPaid, gotStatus)

	mockOrders.AssertExpectations(t)
	mockGw.AssertExpectations(t)
}

func TestPaymentService_HandleCallback_InvalidSignature(t *testing.T) {
	ctx := context.Background()
	svc, mockOrders, mockGw := newTestPaymentService()

	params := map[string]string{"orderId": "ORDER_x_1", "resultCode": "0", "signature": "forged"}
	cb := &model.PaymentCallback{Gateway: gateway.NameMoMo, OrderRef: "ORDER_x_1", ResultCode: "0", Signature: "forged", RawParams: params}

	mockGw.On("ParseCallback", params).Return(cb, nil)
	mockGw.On("VerifyCallback", cb).Return(false, nil)

	_, _, err := svc.HandleCallback(ctx, gateway.NameMoMo, params)
	assert.ErrorIs(t, err, model.ErrInvalidSignature)

	// A forged callback must never reach the order state machine.
	mockOrders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_HandleCallback_UnknownGateway(t *testing.T) {
	svc, mockOrders, _ := newTestPaymentService()

	_, _, err := svc.HandleCallback(context.Background(), "paypal", map[string]string{})
	assert.ErrorIs(t, err, model.ErrUnknownGateway)

	mockOrders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_HandleCallback_MalformedCallback(t *testing.T) {
	ctx := context.Background()
	svc, mockOrders, mockGw := newTestPaymentService()

	params := map[string]string{"resultCode": "0"}
	mockGw.On("ParseCallback", params).Return(nil, model.ErrUnknownOrder)

	_, _, err := svc.HandleCallback(ctx, gateway.NameMoMo, params)
	assert.ErrorIs(t, err, model.ErrUnknownOrder)

	mockOrders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_HandleCallback_TransitionRejected(t *testing.T) {
	ctx := context.Background()
	svc, mockOrders, mockGw := newTestPaymentService()

	orderID := uuid.New()
	params := map[string]string{"orderId": "ORDER_x_1", "resultCode": "1006", "signature": "abc"}
	cb := &model.PaymentCallback{Gateway: gateway.NameMoMo, OrderRef: "ORDER_x_1", ResultCode: "1006", Signature: "abc", RawParams: params}

	transErr := &model.InvalidTransitionError{OrderID: orderID.String(), From: model.StatusPaid, To: model.StatusCancel}

	mockGw.On("ParseCallback", params).Return(cb, nil)
	mockGw.On("VerifyCallback", cb).Return(true, nil)
	mockGw.On("OrderIDFromRef", "ORDER_x_1").Return(orderID, nil)
	mockGw.On("StatusFromResultCode", "1006").Return(model.StatusCancel)
	mockOrders.On("Transition", ctx, orderID, model.StatusCancel).Return(transErr)

	gotID, gotStatus, err := svc.HandleCallback(ctx, gateway.NameMoMo, params)

	var gotErr *model.InvalidTransitionError
	require.ErrorAs(t, err, &gotErr)
	assert.Equal(t, orderID, gotID)
	assert.Equal(t, model.StatusCancel, gotStatus)
}
