package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"campuseats-be/internal/logger"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"go.uber.org/zap"
)

const deliveryFeeLineName = "Delivery fee"

// Narrow views over the Stripe SDK so tests can inject fakes.
type stripeSessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeRefundAPI interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

type stripeIntentAPI interface {
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeGateway struct {
	sessions   stripeSessionAPI
	refunds    stripeRefundAPI
	intents    stripeIntentAPI
	successURL string
	cancelURL  string
	callTTL    time.Duration
}

func NewStripeGateway(apiKey, successURL, cancelURL string) Gateway {
	if apiKey == "" {
		logger.L().Warn("Stripe API key is empty")
	}

	sc := client.New(apiKey, nil)

	return &stripeGateway{
		sessions:   sc.CheckoutSessions,
		refunds:    sc.Refunds,
		intents:    sc.PaymentIntents,
		successURL: successURL,
		cancelURL:  cancelURL,
		callTTL:    15 * time.Second,
	}
}

func (g *stripeGateway) CreateCheckoutSession(
	ctx context.Context,
	lines []CartLine,
	deliveryFee float64,
	currency string,
) (*CheckoutSession, error) {

	log := logger.FromCtx(ctx).With(
		zap.Int("line_count", len(lines)),
		zap.Float64("delivery_fee", deliveryFee),
		zap.String("currency", currency),
	)

	if len(lines) == 0 {
		log.Warn("refusing to create checkout session without line items")
		return nil, ErrNoLineItems
	}

	ctx, cancel := context.WithTimeout(ctx, g.callTTL)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.Context = ctx

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines)+1)
	for _, line := range lines {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(line.Count)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(currency)),
				UnitAmount: stripe.Int64(ToSubunits(line.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(line.Name),
					Metadata: map[string]string{"sku": strconv.FormatInt(line.SKU, 10)},
				},
			},
		})
	}

	if deliveryFee > 0 {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(currency)),
				UnitAmount: stripe.Int64(ToSubunits(deliveryFee)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(deliveryFeeLineName),
				},
			},
		})
	}
	params.LineItems = items

	session, err := g.sessions.New(params)
	if err != nil {
		log.Error("stripe checkout session failed", zap.Error(err))
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrGateway, err)
	}

	referenceID := session.ID
	if session.PaymentIntent != nil {
		referenceID = session.PaymentIntent.ID
	}

	log.Info("stripe checkout session created",
		zap.String("session_id", session.ID),
		zap.String("payment_reference_id", referenceID),
	)

	return &CheckoutSession{
		RedirectURL:        session.URL,
		PaymentReferenceID: referenceID,
	}, nil
}

func (g *stripeGateway) Refund(ctx context.Context, paymentReferenceID string, subunits int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("payment_reference_id", paymentReferenceID),
		zap.Int64("subunits", subunits),
	)

	ctx, cancel := context.WithTimeout(ctx, g.callTTL)
	defer cancel()

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentReferenceID),
		Amount:        stripe.Int64(subunits),
	}
	params.Context = ctx

	if _, err := g.refunds.New(params); err != nil {
		log.Error("stripe refund failed", zap.Error(err))
		return fmt.Errorf("%w: refund: %v", ErrGateway, err)
	}

	log.Info("stripe refund issued")
	return nil
}

func (g *stripeGateway) GetCapturedAmount(ctx context.Context, paymentReferenceID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.callTTL)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := g.intents.Get(paymentReferenceID, params)
	if err != nil {
		logger.FromCtx(ctx).Error("stripe payment lookup failed",
			zap.String("payment_reference_id", paymentReferenceID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("%w: lookup payment: %v", ErrGateway, err)
	}

	return intent.AmountReceived, nil
}
