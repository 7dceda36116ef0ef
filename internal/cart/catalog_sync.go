package cart

import (
	"context"
	"fmt"

	"campuseats-be/internal/events"
	"campuseats-be/internal/logger"

	"go.uber.org/zap"
)

// catalogSync applies catalog change events to every open cart that
// holds the changed SKU. Order lines are snapshots and stay untouched.
type catalogSync struct {
	repo Repository
}

// RegisterCatalogSync subscribes the cart package to catalog changes.
func RegisterCatalogSync(registry *events.Registry, repo Repository) {
	h := &catalogSync{repo: repo}
	registry.Subscribe(events.ItemNameChangedName, h)
	registry.Subscribe(events.ItemPriceChangedName, h)
}

func (h *catalogSync) Handle(ctx context.Context, e events.Event) error {
	switch evt := e.(type) {
	case events.ItemNameChanged:
		updated, err := h.repo.BulkUpdateItemName(ctx, evt.ItemID, evt.NewName)
		if err != nil {
			return fmt.Errorf("sync item name across carts: %w", err)
		}
		logger.FromCtx(ctx).Info("cart lines renamed",
			zap.Int64("sku", evt.ItemID),
			zap.Int64("carts_updated", updated),
		)
	case events.ItemPriceChanged:
		updated, err := h.repo.BulkUpdateItemPrice(ctx, evt.ItemID, evt.NewPrice)
		if err != nil {
			return fmt.Errorf("sync item price across carts: %w", err)
		}
		logger.FromCtx(ctx).Info("cart lines repriced",
			zap.Int64("sku", evt.ItemID),
			zap.Int64("carts_updated", updated),
		)
	}
	return nil
}
