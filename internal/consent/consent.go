// Package consent persists the visitor's one-time cookie consent choice.
package consent

import (
	"context"
	"errors"
	"fmt"

	"github.com/shadowstrength/storefront/pkg/enums"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/kvstore"
	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/metrics"
)

// StorageKey is the session storage key holding "accepted" or "rejected".
const StorageKey = "cookie-consent"

// BannerState tells the storefront whether to show the consent banner.
type BannerState struct {
	Visible  bool                  `json:"visible"`
	Decision enums.ConsentDecision `json:"decision"`
}

// Service reads and records consent decisions.
type Service interface {
	GetDecision(ctx context.Context, sessionID string) enums.ConsentDecision
	RecordDecision(ctx context.Context, sessionID string, decision enums.ConsentDecision) error
	Banner(ctx context.Context, sessionID string) BannerState
}

type service struct {
	kv      kvstore.Store
	logg    *logger.Logger
	metrics *metrics.Storefront
}

func NewService(kv kvstore.Store, logg *logger.Logger, m *metrics.Storefront) (Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &service{kv: kv, logg: logg, metrics: m}, nil
}

// GetDecision never fails: anything other than a recorded choice is Undecided.
func (s *service) GetDecision(ctx context.Context, sessionID string) enums.ConsentDecision {
	raw, err := s.kv.Get(ctx, sessionID, StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "consent.load_failed")
		}
		return enums.ConsentUndecided
	}
	decision, err := enums.ParseConsentDecision(raw)
	if err != nil || !decision.IsDecided() {
		return enums.ConsentUndecided
	}
	return decision
}

func (s *service) RecordDecision(ctx context.Context, sessionID string, decision enums.ConsentDecision) error {
	if !decision.IsDecided() {
		return pkgerrors.New(pkgerrors.CodeValidation, "decision must be accepted or rejected").
			WithDetails(map[string]string{"decision": "must be one of accepted rejected"})
	}
	if err := s.kv.Set(ctx, sessionID, StorageKey, decision.String()); err != nil {
		s.metrics.IncStorageFailure("save_consent")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consent could not be saved")
	}
	s.metrics.IncConsentDecision(decision.String())
	return nil
}

func (s *service) Banner(ctx context.Context, sessionID string) BannerState {
	decision := s.GetDecision(ctx, sessionID)
	return BannerState{Visible: !decision.IsDecided(), Decision: decision}
}
