package cron

import (
	"context"
	"errors"

	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/metrics"
)

const storagePurgeJobName = "storage.purge_expired"

// Purger removes expired session storage entries.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type storagePurgeJob struct {
	purger  Purger
	logg    *logger.Logger
	metrics *metrics.JobMetrics
}

// NewStoragePurgeJob sweeps entries whose ttl has lapsed from the sql store.
func NewStoragePurgeJob(purger Purger, logg *logger.Logger, m *metrics.JobMetrics) (Job, error) {
	if purger == nil {
		return nil, errors.New("purger required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &storagePurgeJob{purger: purger, logg: logg, metrics: m}, nil
}

func (j *storagePurgeJob) Name() string { return storagePurgeJobName }

func (j *storagePurgeJob) Run(ctx context.Context) error {
	removed, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	j.metrics.AddPurged(removed)
	if removed > 0 {
		j.logg.Info(j.logg.WithField(ctx, "removed", removed), "expired storage entries purged")
	}
	return nil
}
