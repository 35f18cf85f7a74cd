package consent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowstrength/storefront/pkg/enums"
	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/kvstore"
)

type brokenKV struct{}

func (brokenKV) Get(context.Context, string, string) (string, error) {
	return "", errors.New("backend down")
}

func (brokenKV) Set(context.Context, string, string, string) error {
	return errors.New("backend down")
}

func (brokenKV) Delete(context.Context, string, string) error {
	return errors.New("backend down")
}

func TestDecisionLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	svc, err := NewService(kv, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, enums.ConsentUndecided, svc.GetDecision(ctx, "s1"))
	assert.Equal(t, BannerState{Visible: true, Decision: enums.ConsentUndecided}, svc.Banner(ctx, "s1"))

	require.NoError(t, svc.RecordDecision(ctx, "s1", enums.ConsentAccepted))
	assert.Equal(t, enums.ConsentAccepted, svc.GetDecision(ctx, "s1"))
	assert.False(t, svc.Banner(ctx, "s1").Visible)

	raw, err := kv.Get(ctx, "s1", StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "accepted", raw)

	require.NoError(t, svc.RecordDecision(ctx, "s1", enums.ConsentRejected))
	assert.Equal(t, enums.ConsentRejected, svc.GetDecision(ctx, "s1"))
	assert.Equal(t, enums.ConsentUndecided, svc.GetDecision(ctx, "s2"))
}

func TestUnrecognizedValueIsUndecided(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	svc, err := NewService(kv, nil, nil)
	require.NoError(t, err)

	for _, raw := range []string{"yes", "ACCEPTED", "undecided", ""} {
		require.NoError(t, kv.Set(ctx, "s1", StorageKey, raw))
		assert.Equal(t, enums.ConsentUndecided, svc.GetDecision(ctx, "s1"), raw)
	}
}

func TestRecordUndecidedRejected(t *testing.T) {
	svc, err := NewService(kvstore.NewMemory(), nil, nil)
	require.NoError(t, err)

	err = svc.RecordDecision(context.Background(), "s1", enums.ConsentUndecided)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestStorageFailures(t *testing.T) {
	svc, err := NewService(brokenKV{}, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, enums.ConsentUndecided, svc.GetDecision(ctx, "s1"))
	err = svc.RecordDecision(ctx, "s1", enums.ConsentAccepted)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	require.Error(t, err)
}
