package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, lines []CartLine, deliveryFee float64, currency string) (*CheckoutSession, error) {
	args := m.Called(ctx, lines, deliveryFee, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, paymentReferenceID string, subunits int64) error {
	args := m.Called(ctx, paymentReferenceID, subunits)
	return args.Error(0)
}

func (m *MockGateway) GetCapturedAmount(ctx context.Context, paymentReferenceID string) (int64, error) {
	args := m.Called(ctx, paymentReferenceID)
	return args.Get(0).(int64), args.Error(1)
}

func TestRefundService_Refund(t *testing.T) {
	t.Run("EmptyReference", func(t *testing.T) {
		gw := new(MockGateway)
		svc := NewRefundService(gw)

		err := svc.Refund(context.Background(), "  ", 10.00)
		assert.ErrorIs(t, err, ErrEmptyPaymentReference)
		gw.AssertNotCalled(t, "Refund")
	})

	t.Run("ConvertsToSubunits", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Refund", mock.Anything, "pi_123", int64(1055)).Return(nil)
		svc := NewRefundService(gw)

		err := svc.Refund(context.Background(), "pi_123", 10.555)
		assert.NoError(t, err)
		gw.AssertExpectations(t)
	})
}
