package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Service defines the business logic for carts.
type Service interface {
	AddItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	RemoveOne(ctx context.Context, cartID uuid.UUID, sku int64) error
	RemoveCompletely(ctx context.Context, cartID uuid.UUID, sku int64) error
	Clear(ctx context.Context, cartID uuid.UUID) error
	GetCart(ctx context.Context, cartID uuid.UUID) (*Cart, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// AddItem creates the line on first add of a SKU and increments its
// count on every repeat add.
func (s *service) AddItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrEmptyName
	}
	if params.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	return s.repo.UpsertItem(ctx, params)
}

// RemoveOne decrements the line count; the line is deleted once the
// count reaches zero so a zero-count line is never observable through
// this API.
func (s *service) RemoveOne(ctx context.Context, cartID uuid.UUID, sku int64) error {
	item, err := s.repo.GetItem(ctx, cartID, sku)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	if item.Count <= 0 {
		// Unreachable through the API; guards against bad seed data.
		return ErrZeroCountItem
	}

	if item.Count == 1 {
		return s.repo.DeleteItem(ctx, cartID, sku)
	}
	return s.repo.UpdateItemCount(ctx, cartID, sku, item.Count-1)
}

// RemoveCompletely deletes the line regardless of count.
func (s *service) RemoveCompletely(ctx context.Context, cartID uuid.UUID, sku int64) error {
	return s.repo.DeleteItem(ctx, cartID, sku)
}

func (s *service) Clear(ctx context.Context, cartID uuid.UUID) error {
	return s.repo.Clear(ctx, cartID)
}

func (s *service) GetCart(ctx context.Context, cartID uuid.UUID) (*Cart, error) {
	c, err := s.repo.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	return c, nil
}
