package models

import "time"

// StorageEntry is one key of a session-scoped storage area.
type StorageEntry struct {
	Scope     string     `gorm:"column:scope;primaryKey;size:128"`
	Key       string     `gorm:"column:entry_key;primaryKey;size:128"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements gorm's tabler.
func (StorageEntry) TableName() string {
	return "storage_entries"
}

// Expired reports whether the entry should be treated as absent at now.
func (e StorageEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}
