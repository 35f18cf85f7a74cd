package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shadowstrength/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL keeps entries in the storage_entries table (see pkg/migrate).
type SQL struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQL builds a store on top of an open GORM connection.
func NewSQL(db *gorm.DB, ttl time.Duration) *SQL {
	return &SQL{db: db, ttl: ttl, now: time.Now}
}

func (s *SQL) Get(ctx context.Context, scope, key string) (string, error) {
	var entry models.StorageEntry
	err := s.db.WithContext(ctx).
		Where("scope = ? AND entry_key = ?", scope, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select storage entry %s: %w", key, err)
	}
	if entry.Expired(s.now()) {
		return "", ErrNotFound
	}
	return entry.Value, nil
}

func (s *SQL) Set(ctx context.Context, scope, key, value string) error {
	entry := models.StorageEntry{
		Scope: scope,
		Key:   key,
		Value: value,
	}
	if s.ttl > 0 {
		expires := s.now().Add(s.ttl).UTC()
		entry.ExpiresAt = &expires
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert storage entry %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, scope, key string) error {
	err := s.db.WithContext(ctx).
		Where("scope = ? AND entry_key = ?", scope, key).
		Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete storage entry %s: %w", key, err)
	}
	return nil
}

// PurgeExpired removes entries whose ttl has lapsed and reports how many were deleted.
func (s *SQL) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&models.StorageEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge storage entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}
