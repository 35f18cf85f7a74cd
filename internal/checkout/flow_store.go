package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shadowstrength/storefront/pkg/enums"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/kvstore"
	"github.com/shadowstrength/storefront/pkg/logger"
)

type flowStore struct {
	kv   kvstore.Store
	logg *logger.Logger
}

// load returns the persisted flow; absent or malformed values read as Delivery.
func (s flowStore) load(ctx context.Context, scope string) Flow {
	raw, err := s.kv.Get(ctx, scope, FlowKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.warn(ctx, "checkout.flow_load_failed", err)
		}
		return deliveryFlow()
	}
	var flow Flow
	if err := json.Unmarshal([]byte(raw), &flow); err != nil {
		s.warn(ctx, "checkout.flow_corrupt", err)
		return deliveryFlow()
	}
	if !flow.Step.IsValid() {
		s.warn(ctx, "checkout.flow_corrupt", fmt.Errorf("unknown step %q", flow.Step))
		return deliveryFlow()
	}
	if flow.Step == enums.CheckoutStepPayment && flow.Summary == nil {
		s.warn(ctx, "checkout.flow_corrupt", errors.New("payment step without summary"))
		return deliveryFlow()
	}
	return flow
}

func (s flowStore) save(ctx context.Context, scope string, flow Flow) error {
	raw, err := json.Marshal(flow)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode checkout flow")
	}
	if err := s.kv.Set(ctx, scope, FlowKey, string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout progress could not be saved")
	}
	return nil
}

func (s flowStore) discard(ctx context.Context, scope string) error {
	if err := s.kv.Delete(ctx, scope, FlowKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout progress could not be cleared")
	}
	return nil
}

func (s flowStore) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
