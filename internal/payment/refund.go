package payment

import (
	"context"
	"strings"
)

// RefundService issues a refund against a previously captured payment.
// The refund amount is computed by the caller; this wrapper only
// validates the reference and converts the amount to subunits.
type RefundService interface {
	Refund(ctx context.Context, paymentReferenceID string, amount float64) error
}

type refundService struct {
	gateway Gateway
}

func NewRefundService(gateway Gateway) RefundService {
	return &refundService{gateway: gateway}
}

func (s *refundService) Refund(ctx context.Context, paymentReferenceID string, amount float64) error {
	if strings.TrimSpace(paymentReferenceID) == "" {
		return ErrEmptyPaymentReference
	}
	return s.gateway.Refund(ctx, paymentReferenceID, ToSubunits(amount))
}
