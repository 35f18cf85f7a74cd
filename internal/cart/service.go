package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shadowstrength/storefront/pkg/keylock"
	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/metrics"
)

// AddItemInput carries the product behind an add-to-cart button.
type AddItemInput struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Service exposes the cart events of a storefront session.
type Service interface {
	View(ctx context.Context, sessionID string) (View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (View, error)
	IncrementQuantity(ctx context.Context, sessionID, itemID string) (View, error)
	DecrementQuantity(ctx context.Context, sessionID, itemID string) (View, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (View, error)
}

type service struct {
	store   *Store
	locks   *keylock.Keyed
	logg    *logger.Logger
	metrics *metrics.Storefront
}

// NewService builds the cart service. locks may be shared with other services
// that touch the same session scope.
func NewService(store *Store, locks *keylock.Keyed, logg *logger.Logger, m *metrics.Storefront) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if locks == nil {
		return nil, fmt.Errorf("session locks required")
	}
	return &service{store: store, locks: locks, logg: logg, metrics: m}, nil
}

func (s *service) View(ctx context.Context, sessionID string) (View, error) {
	return ToViewModel(s.store.Load(ctx, sessionID)), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (View, error) {
	return s.mutate(ctx, sessionID, "add", func(c Cart) Cart {
		return AddItem(c, input.ID, input.Name, input.Price)
	})
}

func (s *service) IncrementQuantity(ctx context.Context, sessionID, itemID string) (View, error) {
	return s.mutate(ctx, sessionID, "increment", func(c Cart) Cart {
		return IncrementQuantity(c, itemID)
	})
}

func (s *service) DecrementQuantity(ctx context.Context, sessionID, itemID string) (View, error) {
	return s.mutate(ctx, sessionID, "decrement", func(c Cart) Cart {
		return DecrementQuantity(c, itemID)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (View, error) {
	return s.mutate(ctx, sessionID, "remove", func(c Cart) Cart {
		return RemoveItem(c, itemID)
	})
}

// mutate runs one read-mutate-write cycle under the session lock.
func (s *service) mutate(ctx context.Context, sessionID, op string, fn func(Cart) Cart) (View, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	next := fn(s.store.Load(ctx, sessionID))
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return View{}, err
	}
	s.metrics.IncCartMutation(op)
	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"op": op, "items": len(next)}), "cart.mutated")
	}
	return ToViewModel(next), nil
}
