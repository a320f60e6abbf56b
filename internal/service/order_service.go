package service

import (
	"context"
	"fmt"
	"time"

	"skincare-shop/internal/gateway"
	"skincare-shop/internal/inventory"
	"skincare-shop/internal/loyalty"
	"skincare-shop/internal/model"
	"skincare-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	accountRepo repository.AccountRepository
	stock       *inventory.Ledger
	points      *loyalty.Ledger
	gateways    map[string]gateway.Gateway
	defaultGw   string
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	accountRepo repository.AccountRepository,
	stock *inventory.Ledger,
	points *loyalty.Ledger,
	gateways map[string]gateway.Gateway,
	defaultGateway string,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		stock:       stock,
		points:      points,
		gateways:    gateways,
		defaultGw:   defaultGateway,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder creates a new order against live inventory and initiates payment.
func (s *orderService) CreateOrder(ctx context.Context, accountID string, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(accountID, req); err != nil {
		return nil, err
	}

	gw, err := s.gateway(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %s not found", accountID)
	}
	if req.RedeemedPoints > account.Points {
		s.logger.Warn().
			Str("account_id", accountID).
			Int("redeemed", req.RedeemedPoints).
			Int("balance", account.Points).
			Msg("redemption exceeds point balance")
		return nil, model.ErrInvalidRedemption
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Roll back on any error so reservations stay all-or-nothing.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:             uuid.New(),
		AccountID:      accountID,
		Status:         model.StatusInProcess,
		RedeemedPoints: req.RedeemedPoints,
		Gateway:        gw.Name(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Reserve stock line by line, in submission order: the first failing
	// line aborts creation and names the offending product.
	for _, item := range req.Items {
		var unitPrice int64
		unitPrice, err = s.stock.Reserve(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			s.logger.Warn().
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Err(err).
				Msg("stock reservation failed")
			return nil, err
		}

		order.Lines = append(order.Lines, model.OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
	}

	subtotal := lo.SumBy(order.Lines, func(l model.OrderLine) int64 { return l.LineTotal() })
	order.Total = subtotal - int64(req.RedeemedPoints)*model.PointRedeemValue
	if order.Total < 0 {
		err = model.ErrInvalidRedemption
		return nil, err
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderLines(ctx, tx, order.Lines); err != nil {
		return nil, fmt.Errorf("failed to create order lines: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("account_id", accountID).
		Int64("total", order.Total).
		Int("line_count", len(order.Lines)).
		Str("gateway", gw.Name()).
		Msg("order created")

	response := &model.OrderResponse{
		OrderID: order.ID,
		Total:   order.Total,
		Status:  order.Status,
	}

	// Payment initiation happens after commit: a gateway failure leaves the
	// order in IN_PROCESS with its stock reserved, ready for a retry.
	payURL, initErr := s.initiatePayment(ctx, gw, order)
	if initErr != nil {
		return response, &model.PaymentInitiationError{OrderID: order.ID.String(), Cause: initErr}
	}

	response.PaymentURL = payURL
	return response, nil
}

// RetryPayment re-runs payment initiation for an existing IN_PROCESS order.
func (s *orderService) RetryPayment(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrUnknownOrder
	}
	if order.Status != model.StatusInProcess {
		return nil, &model.InvalidTransitionError{OrderID: orderID.String(), From: order.Status, To: model.StatusInProcess}
	}

	gw, err := s.gateway(order.Gateway)
	if err != nil {
		return nil, err
	}

	payURL, err := s.initiatePayment(ctx, gw, order)
	if err != nil {
		return nil, &model.PaymentInitiationError{OrderID: orderID.String(), Cause: err}
	}

	return &model.OrderResponse{
		OrderID:    order.ID,
		Total:      order.Total,
		Status:     order.Status,
		PaymentURL: payURL,
	}, nil
}

// Transition applies a status change idempotently, serialised per order by a
// row lock so concurrent callbacks cannot both win.
func (s *orderService) Transition(ctx context.Context, orderID uuid.UUID, newStatus model.OrderStatus) (err error) {
	if !newStatus.Valid() {
		return fmt.Errorf("unknown order status: %s", newStatus)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to transition order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetForUpdate(ctx, tx, orderID)
	if err != nil {
		return fmt.Errorf("failed to transition order: %w", err)
	}
	if order == nil {
		return model.ErrUnknownOrder
	}

	// Duplicate callback delivery is normal gateway behaviour: reapplying
	// the current status succeeds without side effects.
	if order.Status == newStatus {
		s.logger.Debug().
			Str("order_id", orderID.String()).
			Str("status", string(newStatus)).
			Msg("transition is a no-op")
		return tx.Commit(ctx)
	}

	if !model.CanTransition(order.Status, newStatus) {
		err = &model.InvalidTransitionError{OrderID: orderID.String(), From: order.Status, To: newStatus}
		return err
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, newStatus); err != nil {
		return fmt.Errorf("failed to transition order: %w", err)
	}

	if newStatus == model.StatusPaid {
		if err = s.points.CreditOnPaid(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to credit loyalty points: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to transition order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(order.Status)).
		Str("to", string(newStatus)).
		Msg("order status transitioned")

	return nil
}

// GetByID retrieves an order with its lines.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListByAccount retrieves the orders owned by an account.
func (s *orderService) ListByAccount(ctx context.Context, accountID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// gateway resolves the requested gateway name, falling back to the default.
func (s *orderService) gateway(name string) (gateway.Gateway, error) {
	if name == "" {
		name = s.defaultGw
	}
	gw, ok := s.gateways[name]
	if !ok {
		return nil, model.ErrUnknownGateway
	}
	return gw, nil
}

func (s *orderService) initiatePayment(ctx context.Context, gw gateway.Gateway, order *model.Order) (string, error) {
	req, err := gw.BuildRequest(order)
	if err != nil {
		return "", err
	}

	payURL, err := gw.Dispatch(ctx, req)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("gateway", gw.Name()).
			Msg("payment initiation failed")
		return "", err
	}

	return payURL, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(accountID string, req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "order request is required")
	}

	if accountID == "" {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "account ID is required")
	}

	if len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "order must contain at least one item")
	}

	if req.RedeemedPoints < 0 {
		return model.ErrInvalidRedemption
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewDomainError(model.ErrCodeInvalidRequest,
				fmt.Sprintf("item %d: product ID is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
