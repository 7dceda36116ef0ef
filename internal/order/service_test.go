package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"campuseats-be/internal/cart"
	"campuseats-be/internal/events"
	"campuseats-be/internal/payment"
	"campuseats-be/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o *Order, cartID uuid.UUID) error {
	args := m.Called(ctx, o, cartID)
	return args.Error(0)
}

func (m *MockRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) SetTipReference(ctx context.Context, orderID uuid.UUID, ref string) error {
	args := m.Called(ctx, orderID, ref)
	return args.Error(0)
}

func (m *MockRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListByCourier(ctx context.Context, courierID uuid.UUID) ([]*Order, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListOpen(ctx context.Context) ([]*Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetCart(ctx context.Context, cartID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) UpsertItem(ctx context.Context, params cart.AddItemParams) (*cart.CartItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) GetItem(ctx context.Context, cartID uuid.UUID, sku int64) (*cart.CartItem, error) {
	args := m.Called(ctx, cartID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) UpdateItemCount(ctx context.Context, cartID uuid.UUID, sku int64, count int) error {
	args := m.Called(ctx, cartID, sku, count)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, cartID uuid.UUID, sku int64) error {
	args := m.Called(ctx, cartID, sku)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockCartRepository) BulkUpdateItemName(ctx context.Context, sku int64, name string) (int64, error) {
	args := m.Called(ctx, sku, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) BulkUpdateItemPrice(ctx context.Context, sku int64, price float64) (int64, error) {
	args := m.Called(ctx, sku, price)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, email, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, lines []payment.CartLine, deliveryFee float64, currency string) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, lines, deliveryFee, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, paymentReferenceID string, amountSubunits int64) error {
	args := m.Called(ctx, paymentReferenceID, amountSubunits)
	return args.Error(0)
}

func (m *MockGateway) GetCapturedAmount(ctx context.Context, paymentReferenceID string) (int64, error) {
	args := m.Called(ctx, paymentReferenceID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRefundService struct {
	mock.Mock
}

func (m *MockRefundService) Refund(ctx context.Context, paymentReferenceID string, amount float64) error {
	args := m.Called(ctx, paymentReferenceID, amount)
	return args.Error(0)
}

type serviceFixture struct {
	repo     *MockRepository
	cartRepo *MockCartRepository
	userRepo *MockUserRepository
	gateway  *MockGateway
	refunds  *MockRefundService
	svc      Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:     new(MockRepository),
		cartRepo: new(MockCartRepository),
		userRepo: new(MockUserRepository),
		gateway:  new(MockGateway),
		refunds:  new(MockRefundService),
	}
	f.svc = NewService(f.repo, f.cartRepo, f.userRepo, f.gateway, f.refunds, events.NewRegistry(), "usd")
	return f
}

func testCart(cartID uuid.UUID) *cart.Cart {
	return &cart.Cart{
		ID:        cartID,
		CreatedAt: time.Now(),
		Items: []cart.CartItem{
			{CartID: cartID, SKU: 1, Name: "Pizza", UnitPrice: 10.00, Count: 2},
			{CartID: cartID, SKU: 2, Name: "Burger", UnitPrice: 8.00, Count: 1},
		},
	}
}

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()
	customerID := uuid.New()
	location := &Location{Building: "Dorm A", RoomNumber: "214"}

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture()
		f.cartRepo.On("GetCart", ctx, cartID).Return(testCart(cartID), nil)
		f.userRepo.On("Exists", ctx, customerID).Return(true, nil)
		f.gateway.On("CreateCheckoutSession", ctx, mock.AnythingOfType("[]payment.CartLine"), 50.00, "usd").
			Return(&payment.CheckoutSession{RedirectURL: "https://pay.example/s_1", PaymentReferenceID: "pi_1"}, nil)
		f.repo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order"), cartID).Return(nil)

		res, err := f.svc.Checkout(ctx, CheckoutParams{
			CartID:      cartID,
			CustomerID:  customerID,
			Location:    location,
			DeliveryFee: 50.00,
		})
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.NotEqual(t, uuid.Nil, res.OrderID)
		assert.Equal(t, "https://pay.example/s_1", res.RedirectURL)

		created := f.repo.Calls[0].Arguments.Get(1).(*Order)
		assert.Equal(t, StatusSubmitted, created.Status)
		assert.Equal(t, "pi_1", created.PaymentReferenceID)
		assert.Equal(t, 78.00, created.Total())
		f.refunds.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CollectsAllValidationFailures", func(t *testing.T) {
		f := newServiceFixture()
		f.cartRepo.On("GetCart", ctx, cartID).Return(nil, nil)
		f.userRepo.On("Exists", ctx, customerID).Return(false, nil)

		res, err := f.svc.Checkout(ctx, CheckoutParams{
			CartID:     cartID,
			CustomerID: customerID,
			Location:   nil,
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, uuid.Nil, res.OrderID)
		assert.ElementsMatch(t, []string{MsgCartNotFound, MsgUserNotFound, MsgNilLocation}, res.Errors)

		f.gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyCartAndMissingRoom", func(t *testing.T) {
		f := newServiceFixture()
		empty := &cart.Cart{ID: cartID, CreatedAt: time.Now()}
		f.cartRepo.On("GetCart", ctx, cartID).Return(empty, nil)
		f.userRepo.On("Exists", ctx, customerID).Return(true, nil)

		res, err := f.svc.Checkout(ctx, CheckoutParams{
			CartID:     cartID,
			CustomerID: customerID,
			Location:   &Location{Building: "Dorm A"},
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.ElementsMatch(t, []string{MsgNoRoom, MsgEmptyCart}, res.Errors)
	})

	t.Run("GatewayFailureCreatesNoOrder", func(t *testing.T) {
		f := newServiceFixture()
		f.cartRepo.On("GetCart", ctx, cartID).Return(testCart(cartID), nil)
		f.userRepo.On("Exists", ctx, customerID).Return(true, nil)
		f.gateway.On("CreateCheckoutSession", ctx, mock.AnythingOfType("[]payment.CartLine"), 50.00, "usd").
			Return(nil, payment.ErrGateway)

		_, err := f.svc.Checkout(ctx, CheckoutParams{
			CartID:      cartID,
			CustomerID:  customerID,
			Location:    location,
			DeliveryFee: 50.00,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, payment.ErrGateway)
		f.repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PersistFailureRefundsTheCapture", func(t *testing.T) {
		f := newServiceFixture()
		f.cartRepo.On("GetCart", ctx, cartID).Return(testCart(cartID), nil)
		f.userRepo.On("Exists", ctx, customerID).Return(true, nil)
		f.gateway.On("CreateCheckoutSession", ctx, mock.AnythingOfType("[]payment.CartLine"), 50.00, "usd").
			Return(&payment.CheckoutSession{RedirectURL: "https://pay.example/s_1", PaymentReferenceID: "pi_1"}, nil)
		f.repo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order"), cartID).Return(errors.New("db down"))
		f.refunds.On("Refund", ctx, "pi_1", 78.00).Return(nil)

		_, err := f.svc.Checkout(ctx, CheckoutParams{
			CartID:      cartID,
			CustomerID:  customerID,
			Location:    location,
			DeliveryFee: 50.00,
		})
		require.Error(t, err)
		f.refunds.AssertCalled(t, "Refund", ctx, "pi_1", 78.00)
	})

	t.Run("PriorCaptureIsNotCompensated", func(t *testing.T) {
		f := newServiceFixture()
		f.cartRepo.On("GetCart", ctx, cartID).Return(testCart(cartID), nil)
		f.userRepo.On("Exists", ctx, customerID).Return(true, nil)
		f.repo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order"), cartID).Return(errors.New("db down"))

		_, err := f.svc.Checkout(ctx, CheckoutParams{
			CartID:             cartID,
			CustomerID:         customerID,
			Location:           location,
			DeliveryFee:        50.00,
			PaymentReferenceID: "pi_preexisting",
		})
		require.Error(t, err)
		f.gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.refunds.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_AdvanceByCourier(t *testing.T) {
	ctx := context.Background()
	courierID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.repo.On("UpdateStatus", ctx, o).Return(nil)

		got, err := f.svc.AdvanceByCourier(ctx, o.ID, courierID)
		require.NoError(t, err)
		assert.Equal(t, StatusBeingPickedUp, got.Status)
	})

	t.Run("ConflictSurfaces", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.repo.On("UpdateStatus", ctx, o).Return(ErrConflict)

		_, err := f.svc.AdvanceByCourier(ctx, o.ID, courierID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("InvalidTransitionSkipsPersist", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		o.Status = StatusDelivered
		o.CourierID = &courierID
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)

		_, err := f.svc.AdvanceByCourier(ctx, o.ID, courierID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("SubmittedRefundsEverything", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.gateway.On("GetCapturedAmount", ctx, "pi_123").Return(int64(7800), nil)
		f.refunds.On("Refund", ctx, "pi_123", 78.00).Return(nil)
		f.repo.On("UpdateStatus", ctx, o).Return(nil)

		res, err := f.svc.Cancel(ctx, o.ID, o.CustomerID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, res.Status)
		assert.Equal(t, 78.00, res.RefundAmount)
	})

	t.Run("AfterClaimFeeIsForfeit", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		courierID := uuid.New()
		require.NoError(t, o.AdvanceByCourier(courierID))
		o.DrainEvents()

		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.gateway.On("GetCapturedAmount", ctx, "pi_123").Return(int64(7800), nil)
		f.refunds.On("Refund", ctx, "pi_123", 28.00).Return(nil)
		f.repo.On("UpdateStatus", ctx, o).Return(nil)

		res, err := f.svc.Cancel(ctx, o.ID, o.CustomerID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelledWithFee, res.Status)
		assert.Equal(t, 28.00, res.RefundAmount)
	})

	t.Run("RefundClampedToCapturedAmount", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.gateway.On("GetCapturedAmount", ctx, "pi_123").Return(int64(5000), nil)
		f.refunds.On("Refund", ctx, "pi_123", 50.00).Return(nil)
		f.repo.On("UpdateStatus", ctx, o).Return(nil)

		res, err := f.svc.Cancel(ctx, o.ID, o.CustomerID, false)
		require.NoError(t, err)
		assert.Equal(t, 50.00, res.RefundAmount)
	})

	t.Run("ConcurrentWriterWinsBeforeMoneyMoves", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.gateway.On("GetCapturedAmount", ctx, "pi_123").Return(int64(7800), nil)
		f.repo.On("UpdateStatus", ctx, o).Return(ErrConflict)

		_, err := f.svc.Cancel(ctx, o.ID, o.CustomerID, false)
		assert.ErrorIs(t, err, ErrConflict)
		f.refunds.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RefundFailureRevertsCancellation", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.gateway.On("GetCapturedAmount", ctx, "pi_123").Return(int64(7800), nil)
		f.refunds.On("Refund", ctx, "pi_123", 78.00).Return(payment.ErrGateway)
		f.repo.On("UpdateStatus", ctx, o).Return(nil)

		_, err := f.svc.Cancel(ctx, o.ID, o.CustomerID, false)
		require.ErrorIs(t, err, payment.ErrGateway)
		assert.Equal(t, StatusSubmitted, o.Status)
		f.repo.AssertNumberOfCalls(t, "UpdateStatus", 2)
	})

	t.Run("NotTheOwner", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)

		_, err := f.svc.Cancel(ctx, o.ID, uuid.New(), false)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("AdminCanCancelAnyOrder", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.gateway.On("GetCapturedAmount", ctx, "pi_123").Return(int64(7800), nil)
		f.refunds.On("Refund", ctx, "pi_123", 78.00).Return(nil)
		f.repo.On("UpdateStatus", ctx, o).Return(nil)

		_, err := f.svc.Cancel(ctx, o.ID, uuid.New(), true)
		assert.NoError(t, err)
	})

	t.Run("AfterPickupRejected", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		o.Status = StatusOnTheWay
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)

		_, err := f.svc.Cancel(ctx, o.ID, o.CustomerID, false)
		assert.ErrorIs(t, err, ErrCancelAfterPickup)
		f.gateway.AssertNotCalled(t, "GetCapturedAmount", mock.Anything, mock.Anything)
	})
}

func TestService_SetTipReference(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)
		f.repo.On("SetTipReference", ctx, o.ID, "pi_tip").Return(nil)

		require.NoError(t, f.svc.SetTipReference(ctx, o.ID, o.CustomerID, "pi_tip"))
	})

	t.Run("EmptyReference", func(t *testing.T) {
		f := newServiceFixture()
		err := f.svc.SetTipReference(ctx, uuid.New(), uuid.New(), "")
		assert.ErrorIs(t, err, payment.ErrEmptyPaymentReference)
	})

	t.Run("AlreadySet", func(t *testing.T) {
		f := newServiceFixture()
		o := testOrder()
		require.NoError(t, o.SetTipReference("pi_first"))
		f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)

		err := f.svc.SetTipReference(ctx, o.ID, o.CustomerID, "pi_second")
		assert.ErrorIs(t, err, ErrTipAlreadySet)
		f.repo.AssertNotCalled(t, "SetTipReference", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_GetOrder(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	o := testOrder()
	courierID := uuid.New()
	o.CourierID = &courierID
	f.repo.On("GetOrder", ctx, o.ID).Return(o, nil)

	t.Run("Owner", func(t *testing.T) {
		got, err := f.svc.GetOrder(ctx, o.ID, o.CustomerID, false)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
	})

	t.Run("AssignedCourier", func(t *testing.T) {
		_, err := f.svc.GetOrder(ctx, o.ID, courierID, false)
		assert.NoError(t, err)
	})

	t.Run("Stranger", func(t *testing.T) {
		_, err := f.svc.GetOrder(ctx, o.ID, uuid.New(), false)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Admin", func(t *testing.T) {
		_, err := f.svc.GetOrder(ctx, o.ID, uuid.New(), true)
		assert.NoError(t, err)
	})
}
