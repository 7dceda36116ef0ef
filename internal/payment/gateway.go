package payment

import "context"

// CartLine is one priced line of a checkout, snapshotted from the cart.
type CartLine struct {
	SKU       int64
	Name      string
	UnitPrice float64
	Count     int
}

// CheckoutSession is the gateway's answer to a capture request: a URL
// the customer is redirected to, and an opaque reference identifying
// the captured charge for later refunds and lookups.
type CheckoutSession struct {
	RedirectURL        string
	PaymentReferenceID string
}

// Gateway is the payment provider capability used by checkout,
// cancellation, and earnings reconciliation. Amount-bearing calls
// operate in integer subunits; conversion happens at this boundary.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, lines []CartLine, deliveryFee float64, currency string) (*CheckoutSession, error)
	Refund(ctx context.Context, paymentReferenceID string, subunits int64) error
	GetCapturedAmount(ctx context.Context, paymentReferenceID string) (int64, error)
}
