package sqlstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageItem is one persisted key. The table is created by the goose
// migrations under db/migrations.
type StorageItem struct {
	ItemKey   string    `gorm:"column:item_key;primaryKey;size:128"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (StorageItem) TableName() string {
	return "storage_items"
}

// Backend keeps storage keys as rows. Each Set is a single-row upsert, so
// a failed write never leaves a half-written value.
type Backend struct {
	db *gorm.DB
}

func NewBackend(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

func (b *Backend) Get(key string) (string, bool, error) {
	var item StorageItem
	err := b.db.Where("item_key = ?", key).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value, true, nil
}

func (b *Backend) Set(key, value string) error {
	item := StorageItem{
		ItemKey:   key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(key string) error {
	if err := b.db.Where("item_key = ?", key).Delete(&StorageItem{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Ping() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
