package earnings

import (
	"time"

	"github.com/google/uuid"
)

// MonthlyEarnings is one reconciliation row for a courier. Delivery
// revenue is the courier's share of the delivery fees; tip revenue is
// the sum of captured tips on the month's delivered orders.
type MonthlyEarnings struct {
	Month           time.Month `json:"month"`
	OrderCount      int        `json:"orderCount"`
	DeliveryRevenue float64    `json:"deliveryRevenue"`
	TipRevenue      float64    `json:"tipRevenue"`
	TotalRevenue    float64    `json:"totalRevenue"`
}

// DeliveredOrder is the slice of an order the reconciliation needs.
type DeliveredOrder struct {
	ID                    uuid.UUID
	OrderDate             time.Time
	DeliveryFee           float64
	TipPaymentReferenceID *string
}

// RevenueSummary aggregates delivered-order revenue over a period.
type RevenueSummary struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	OrderCount      int       `json:"orderCount"`
	LinesRevenue    float64   `json:"linesRevenue"`
	DeliveryRevenue float64   `json:"deliveryRevenue"`
	TotalRevenue    float64   `json:"totalRevenue"`
}
