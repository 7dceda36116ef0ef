package earnings

import (
	"context"
	"sync"
	"time"

	"campuseats-be/internal/logger"
	"campuseats-be/internal/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// tipLookupWorkers bounds concurrent captured-amount calls so a yearly
// reconciliation never floods the gateway.
const tipLookupWorkers = 8

type Service interface {
	// TipAmount returns the captured tip for the order. Orders without
	// a tip reference cost no gateway call.
	TipAmount(ctx context.Context, o DeliveredOrder) (float64, error)
	// MonthlyCourierEarnings reconciles a courier's year into twelve
	// monthly rows, January through December.
	MonthlyCourierEarnings(ctx context.Context, courierID uuid.UUID, year int) ([]MonthlyEarnings, error)
	// RevenueSummary reports delivered-order revenue over [from, to).
	RevenueSummary(ctx context.Context, from, to time.Time) (*RevenueSummary, error)
}

type service struct {
	repo         Repository
	gateway      payment.Gateway
	courierShare float64
}

func NewService(repo Repository, gateway payment.Gateway, courierShare float64) Service {
	return &service{repo: repo, gateway: gateway, courierShare: courierShare}
}

func (s *service) TipAmount(ctx context.Context, o DeliveredOrder) (float64, error) {
	if o.TipPaymentReferenceID == nil || *o.TipPaymentReferenceID == "" {
		return 0, nil
	}

	captured, err := s.gateway.GetCapturedAmount(ctx, *o.TipPaymentReferenceID)
	if err != nil {
		return 0, err
	}
	return payment.FromSubunits(captured), nil
}

func (s *service) MonthlyCourierEarnings(ctx context.Context, courierID uuid.UUID, year int) ([]MonthlyEarnings, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MonthlyCourierEarnings"),
		zap.String("courier_id", courierID.String()),
		zap.Int("year", year),
	)

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	orders, err := s.repo.ListDelivered(ctx, courierID, from, to)
	if err != nil {
		return nil, err
	}

	tips, err := s.lookupTips(ctx, orders)
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyEarnings, 12)
	for i := range rows {
		rows[i].Month = time.Month(i + 1)
	}

	for i, o := range orders {
		row := &rows[o.OrderDate.UTC().Month()-1]
		row.OrderCount++
		row.DeliveryRevenue += o.DeliveryFee * s.courierShare
		row.TipRevenue += tips[i]
	}
	for i := range rows {
		rows[i].TotalRevenue = rows[i].DeliveryRevenue + rows[i].TipRevenue
	}

	log.Info("courier earnings reconciled", zap.Int("delivered_orders", len(orders)))
	return rows, nil
}

func (s *service) RevenueSummary(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	return s.repo.RevenueSummary(ctx, from, to)
}

// lookupTips resolves captured tip amounts for all orders through a
// bounded worker pool. The result slice is positionally aligned with
// the input.
func (s *service) lookupTips(ctx context.Context, orders []DeliveredOrder) ([]float64, error) {
	tips := make([]float64, len(orders))
	errs := make([]error, len(orders))

	sem := make(chan struct{}, tipLookupWorkers)
	var wg sync.WaitGroup
	for i, o := range orders {
		if o.TipPaymentReferenceID == nil || *o.TipPaymentReferenceID == "" {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, o DeliveredOrder) {
			defer wg.Done()
			defer func() { <-sem }()
			tips[i], errs[i] = s.TipAmount(ctx, o)
		}(i, o)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return tips, nil
}
