package catalog

import (
	"context"
	"strings"

	"campuseats-be/internal/events"
	"campuseats-be/internal/logger"

	"go.uber.org/zap"
)

// Service owns catalog mutations. Name and price changes are published
// as events so open carts can be kept in sync; historical order lines
// are never touched.
type Service interface {
	GetItem(ctx context.Context, id int64) (*FoodItem, error)
	ListAvailable(ctx context.Context) ([]*FoodItem, error)
	CreateItem(ctx context.Context, name string, price float64) (*FoodItem, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) (*FoodItem, error)
}

type service struct {
	repo     Repository
	registry *events.Registry
}

func NewService(repo Repository, registry *events.Registry) Service {
	return &service{repo: repo, registry: registry}
}

func (s *service) GetItem(ctx context.Context, id int64) (*FoodItem, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *service) ListAvailable(ctx context.Context) ([]*FoodItem, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *service) CreateItem(ctx context.Context, name string, price float64) (*FoodItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	return s.repo.CreateItem(ctx, name, price)
}

func (s *service) UpdateItem(ctx context.Context, params UpdateItemParams) (*FoodItem, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrEmptyName
	}
	if params.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	before, err := s.repo.GetItem(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateItem(ctx, params)
	if err != nil {
		return nil, err
	}

	var changes []events.Event
	if before.Name != updated.Name {
		changes = append(changes, events.ItemNameChanged{
			ItemID:  updated.ID,
			OldName: before.Name,
			NewName: updated.Name,
		})
	}
	if before.Price != updated.Price {
		changes = append(changes, events.ItemPriceChanged{
			ItemID:   updated.ID,
			OldPrice: before.Price,
			NewPrice: updated.Price,
		})
	}

	if len(changes) > 0 {
		logger.FromCtx(ctx).Info("catalog item changed",
			zap.Int64("item_id", updated.ID),
			zap.Int("change_count", len(changes)),
		)
		s.registry.Dispatch(ctx, changes...)
	}

	return updated, nil
}
