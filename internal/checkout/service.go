package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shadowstrength/storefront/internal/cart"
	"github.com/shadowstrength/storefront/pkg/enums"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/keylock"
	"github.com/shadowstrength/storefront/pkg/kvstore"
	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/metrics"
	"github.com/shadowstrength/storefront/pkg/validation"
)

const (
	transitionDelivery = "delivery"
	transitionPlace    = "place_order"
)

// Service drives the Delivery -> Payment -> completed checkout sequence.
type Service interface {
	Begin(ctx context.Context, sessionID string) (Flow, error)
	Current(ctx context.Context, sessionID string) (Flow, error)
	SubmitDeliveryInfo(ctx context.Context, sessionID string, form DeliveryForm) (Flow, error)
	PlaceOrder(ctx context.Context, sessionID string, form PaymentForm) (Completion, error)
}

// Options configures NewService.
type Options struct {
	Store    kvstore.Store
	Carts    *cart.Store
	Locks    *keylock.Keyed
	Redirect string
	Logger   *logger.Logger
	Metrics  *metrics.Storefront
}

type service struct {
	flows    flowStore
	carts    *cart.Store
	locks    *keylock.Keyed
	redirect string
	logg     *logger.Logger
	metrics  *metrics.Storefront
}

// NewService builds the checkout service.
func NewService(opts Options) (Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if opts.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if opts.Locks == nil {
		return nil, fmt.Errorf("session locks required")
	}
	redirect := strings.TrimSpace(opts.Redirect)
	if redirect == "" {
		redirect = DefaultRedirect
	}
	return &service{
		flows:    flowStore{kv: opts.Store, logg: opts.Logger},
		carts:    opts.Carts,
		locks:    opts.Locks,
		redirect: redirect,
		logg:     opts.Logger,
		metrics:  opts.Metrics,
	}, nil
}

// Begin resets the session to the Delivery step, as loading the checkout page does.
func (s *service) Begin(ctx context.Context, sessionID string) (Flow, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	flow := deliveryFlow()
	if err := s.flows.save(ctx, sessionID, flow); err != nil {
		return Flow{}, err
	}
	return flow, nil
}

func (s *service) Current(ctx context.Context, sessionID string) (Flow, error) {
	return s.flows.load(ctx, sessionID), nil
}

// SubmitDeliveryInfo validates the delivery form before touching storage. On
// success it snapshots the cart totals and advances to Payment.
func (s *service) SubmitDeliveryInfo(ctx context.Context, sessionID string, form DeliveryForm) (Flow, error) {
	if err := validation.Struct(&form); err != nil {
		s.metrics.IncCheckoutTransition(transitionDelivery, "invalid")
		return Flow{}, err
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	current := s.flows.load(ctx, sessionID)
	if current.Step != enums.CheckoutStepDelivery {
		s.metrics.IncCheckoutTransition(transitionDelivery, "conflict")
		return Flow{}, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery details already submitted").
			WithDetails(map[string]any{"step": current.Step.String()})
	}

	summary := summarize(s.carts.Load(ctx, sessionID))
	next := Flow{Step: enums.CheckoutStepPayment, Summary: &summary}
	if err := s.flows.save(ctx, sessionID, next); err != nil {
		return Flow{}, err
	}
	s.metrics.IncCheckoutTransition(transitionDelivery, "advanced")
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "item_count", summary.ItemCount), "checkout.payment_step")
	}
	return next, nil
}

// PlaceOrder completes a checkout that reached Payment. The flow is discarded
// and the cart cleared; payment details are never persisted.
func (s *service) PlaceOrder(ctx context.Context, sessionID string, form PaymentForm) (Completion, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	current := s.flows.load(ctx, sessionID)
	if current.Step != enums.CheckoutStepPayment || current.Summary == nil {
		s.metrics.IncCheckoutTransition(transitionPlace, "conflict")
		return Completion{}, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery details must be submitted first").
			WithDetails(map[string]any{"step": current.Step.String()})
	}
	if err := validation.Struct(&form); err != nil {
		s.metrics.IncCheckoutTransition(transitionPlace, "invalid")
		return Completion{}, err
	}

	// Flow before cart: a retry after a failed clear must conflict, not place
	// the order again.
	if err := s.flows.discard(ctx, sessionID); err != nil {
		return Completion{}, err
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.metrics.IncCheckoutTransition(transitionPlace, "cart_not_cleared")
		return Completion{}, err
	}
	s.metrics.IncCheckoutTransition(transitionPlace, "completed")
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"item_count":  current.Summary.ItemCount,
			"order_total": current.Summary.OrderTotal,
		}), "checkout.order_placed")
	}
	return Completion{
		Redirect: s.redirect,
		Message:  CompletionMessage,
		Summary:  *current.Summary,
	}, nil
}
