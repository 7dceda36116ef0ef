package order

import (
	"context"
	"fmt"

	"campuseats-be/internal/cart"
	"campuseats-be/internal/events"
	"campuseats-be/internal/logger"
	"campuseats-be/internal/payment"
	"campuseats-be/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutParams is the input of the checkout pipeline. DeliveryFee is
// quoted by the caller; PaymentReferenceID may be supplied when a
// capture already happened in a prior step.
type CheckoutParams struct {
	CartID             uuid.UUID
	CustomerID         uuid.UUID
	Location           *Location
	Notes              string
	DeliveryFee        float64
	PaymentReferenceID string
}

// CheckoutResult reports either the new order or every validation rule
// the request violated.
type CheckoutResult struct {
	Success     bool
	OrderID     uuid.UUID
	RedirectURL string
	Errors      []string
}

// CancelResult reports the terminal status and the amount refunded.
type CancelResult struct {
	OrderID      uuid.UUID
	Status       OrderStatus
	RefundAmount float64
}

type Service interface {
	Checkout(ctx context.Context, params CheckoutParams) (*CheckoutResult, error)
	AdvanceByCourier(ctx context.Context, orderID, courierID uuid.UUID) (*Order, error)
	Cancel(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*CancelResult, error)
	SetTipReference(ctx context.Context, orderID, userID uuid.UUID, ref string) error
	GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]*Order, error)
	ListCourierOrders(ctx context.Context, courierID uuid.UUID) ([]*Order, error)
	ListOpenOrders(ctx context.Context) ([]*Order, error)
}

type service struct {
	repo               Repository
	cartRepo           cart.Repository
	userRepo           user.Repository
	gateway            payment.Gateway
	refunds            payment.RefundService
	registry           *events.Registry
	currency           string
	locationValidators []LocationValidator
	cartValidators     []CartValidator
}

func NewService(
	repo Repository,
	cartRepo cart.Repository,
	userRepo user.Repository,
	gateway payment.Gateway,
	refunds payment.RefundService,
	registry *events.Registry,
	currency string,
) Service {
	return &service{
		repo:               repo,
		cartRepo:           cartRepo,
		userRepo:           userRepo,
		gateway:            gateway,
		refunds:            refunds,
		registry:           registry,
		currency:           currency,
		locationValidators: DefaultLocationValidators(),
		cartValidators:     DefaultCartValidators(),
	}
}

// Checkout validates the cart, captures payment, and atomically turns
// the cart into a submitted order. Validation failures are collected
// and returned together; infrastructure and gateway failures come back
// as errors and leave no partial order behind.
func (s *service) Checkout(ctx context.Context, params CheckoutParams) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("cart_id", params.CartID.String()),
		zap.String("customer_id", params.CustomerID.String()),
	)

	var errs []string

	c, err := s.cartRepo.GetCart(ctx, params.CartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c == nil {
		errs = append(errs, MsgCartNotFound)
	}

	exists, err := s.userRepo.Exists(ctx, params.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !exists {
		errs = append(errs, MsgUserNotFound)
	}

	if params.Location == nil {
		errs = append(errs, MsgNilLocation)
	} else {
		for _, v := range s.locationValidators {
			if ok, reason := v.Validate(*params.Location); !ok {
				errs = append(errs, reason)
			}
		}
	}

	if c != nil {
		for _, v := range s.cartValidators {
			if ok, reason := v.Validate(c); !ok {
				errs = append(errs, reason)
			}
		}
	}

	if len(errs) > 0 {
		log.Info("checkout rejected", zap.Strings("errors", errs))
		return &CheckoutResult{Success: false, OrderID: uuid.Nil, Errors: errs}, nil
	}

	lines := make([]OrderLine, 0, len(c.Items))
	gatewayLines := make([]payment.CartLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, OrderLine{
			FoodItemID:   item.SKU,
			FoodItemName: item.Name,
			Amount:       item.Count,
			UnitPrice:    item.UnitPrice,
		})
		gatewayLines = append(gatewayLines, payment.CartLine{
			SKU:       item.SKU,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Count:     item.Count,
		})
	}

	// Capture before the transaction opens so a slow gateway never
	// holds a database lock. The gateway bounds the call with its own
	// timeout.
	referenceID := params.PaymentReferenceID
	redirectURL := ""
	capturedHere := false
	if referenceID == "" {
		session, err := s.gateway.CreateCheckoutSession(ctx, gatewayLines, params.DeliveryFee, s.currency)
		if err != nil {
			log.Error("payment capture failed", zap.Error(err))
			return nil, fmt.Errorf("capture payment: %w", err)
		}
		referenceID = session.PaymentReferenceID
		redirectURL = session.RedirectURL
		capturedHere = true
	}

	o := NewOrder(params.CustomerID, *params.Location, lines, params.Notes, params.DeliveryFee, referenceID)

	if err := s.repo.CreateOrderTx(ctx, o, params.CartID); err != nil {
		if capturedHere {
			// Compensate the capture so the customer is not charged
			// for an order that was never created.
			if refundErr := s.refunds.Refund(ctx, referenceID, o.Total()); refundErr != nil {
				log.Error("failed to compensate capture after persist error",
					zap.String("payment_reference_id", referenceID),
					zap.Error(refundErr),
				)
			}
		}
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.registry.Dispatch(ctx, o.DrainEvents()...)

	log.Info("checkout completed",
		zap.String("order_id", o.ID.String()),
		zap.Float64("total", o.Total()),
	)

	return &CheckoutResult{Success: true, OrderID: o.ID, RedirectURL: redirectURL}, nil
}

// AdvanceByCourier moves the order one step forward on behalf of a
// courier. The losing side of a concurrent update gets ErrConflict and
// should re-read and retry.
func (s *service) AdvanceByCourier(ctx context.Context, orderID, courierID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.AdvanceByCourier(courierID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	s.registry.Dispatch(ctx, o.DrainEvents()...)
	return o, nil
}

// Cancel applies the state-dependent refund policy. The terminal
// status is persisted first, so a concurrent courier claim loses the
// version check before any money moves. The refund follows; if it
// fails the cancellation is reverted. The refund never exceeds the
// amount the gateway reports as captured.
func (s *service) Cancel(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*CancelResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.String("order_id", orderID.String()),
	)

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.CustomerID != userID {
		return nil, ErrUnauthorized
	}

	prevStatus := o.Status
	refund, err := o.Cancel()
	if err != nil {
		return nil, err
	}

	if refund > 0 {
		captured, err := s.gateway.GetCapturedAmount(ctx, o.PaymentReferenceID)
		if err != nil {
			return nil, fmt.Errorf("look up captured amount: %w", err)
		}
		if capturedAmount := payment.FromSubunits(captured); refund > capturedAmount {
			log.Warn("refund clamped to captured amount",
				zap.Float64("policy_refund", refund),
				zap.Float64("captured", capturedAmount),
			)
			refund = capturedAmount
		}
	}

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	if refund > 0 {
		if err := s.refunds.Refund(ctx, o.PaymentReferenceID, refund); err != nil {
			// An order must not stay cancelled without its refund.
			o.Status = prevStatus
			if revertErr := s.repo.UpdateStatus(ctx, o); revertErr != nil {
				// Cancelled on record, money not returned; this needs
				// an operator.
				log.Error("refund failed and cancellation could not be reverted",
					zap.String("payment_reference_id", o.PaymentReferenceID),
					zap.Float64("refund", refund),
					zap.NamedError("revert_error", revertErr),
					zap.Error(err),
				)
			}
			return nil, fmt.Errorf("issue refund: %w", err)
		}
	}

	log.Info("order cancelled",
		zap.String("status", string(o.Status)),
		zap.Float64("refund", refund),
	)

	return &CancelResult{OrderID: o.ID, Status: o.Status, RefundAmount: refund}, nil
}

// SetTipReference attaches a tip capture to the order, at most once.
func (s *service) SetTipReference(ctx context.Context, orderID, userID uuid.UUID, ref string) error {
	if ref == "" {
		return payment.ErrEmptyPaymentReference
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if o.CustomerID != userID {
		return ErrUnauthorized
	}
	if err := o.SetTipReference(ref); err != nil {
		return err
	}

	return s.repo.SetTipReference(ctx, orderID, ref)
}

func (s *service) GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if isAdmin || o.CustomerID == userID {
		return o, nil
	}
	if o.CourierID != nil && *o.CourierID == userID {
		return o, nil
	}
	return nil, ErrUnauthorized
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) ListCourierOrders(ctx context.Context, courierID uuid.UUID) ([]*Order, error) {
	return s.repo.ListByCourier(ctx, courierID)
}

func (s *service) ListOpenOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.ListOpen(ctx)
}
