package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/kvstore"
	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/metrics"
)

// maxStoredPriceLen bounds the price text parsed on load. Longer values cannot
// pass money.IsUnitPrice and are rejected before parsing.
const maxStoredPriceLen = 32

// storedItem is the persisted shape; prices are JSON numbers.
type storedItem struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

// Store loads and saves the cart of a session scope.
type Store struct {
	kv      kvstore.Store
	logg    *logger.Logger
	metrics *metrics.Storefront
}

// NewStore wires the cart store to durable storage.
func NewStore(kv kvstore.Store, logg *logger.Logger, m *metrics.Storefront) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &Store{kv: kv, logg: logg, metrics: m}, nil
}

// Load returns the persisted cart. Missing, unreadable or malformed values
// yield an empty cart.
func (s *Store) Load(ctx context.Context, scope string) Cart {
	raw, err := s.kv.Get(ctx, scope, StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.metrics.IncStorageFailure("load_cart")
			s.warn(ctx, "cart.load_failed", err)
		}
		return Cart{}
	}
	c, err := decode(raw)
	if err != nil {
		s.warn(ctx, "cart.corrupt_value", err)
		return Cart{}
	}
	return c
}

// Save overwrites the persisted cart.
func (s *Store) Save(ctx context.Context, scope string, c Cart) error {
	raw, err := encode(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, scope, StorageKey, raw); err != nil {
		s.metrics.IncStorageFailure("save_cart")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart could not be saved")
	}
	return nil
}

// Clear persists an empty cart.
func (s *Store) Clear(ctx context.Context, scope string) error {
	return s.Save(ctx, scope, Clear())
}

func (s *Store) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}

func encode(c Cart) (string, error) {
	items := make([]storedItem, 0, len(c))
	for _, item := range c {
		items = append(items, storedItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
		})
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decode(raw string) (Cart, error) {
	var items []storedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parse cart: %w", err)
	}
	c := make(Cart, 0, len(items))
	for _, item := range items {
		if len(item.Price) > maxStoredPriceLen {
			return nil, fmt.Errorf("price of %q is %d characters long", item.ID, len(item.Price))
		}
		price, err := decimal.NewFromString(item.Price.String())
		if err != nil {
			return nil, fmt.Errorf("parse price of %q: %w", item.ID, err)
		}
		c = append(c, LineItem{ID: item.ID, Name: item.Name, Price: price, Quantity: item.Quantity})
	}
	if !c.valid() {
		return nil, errors.New("cart entries violate line item invariants")
	}
	return c, nil
}
