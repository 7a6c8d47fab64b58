package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"klinestore.magictradebot.com/models"
)

// CacheSet stores a key with last-write-wins semantics. Expire is an epoch
// seconds deadline, zero for never. Delete and re-insert run inside one
// transaction so a concurrent reader never sees the key missing mid-write.
func (s *Store) CacheSet(key, value string, expire int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("k = ?", key).Delete(&models.CacheEntry{}).Error; err != nil {
			return fmt.Errorf("cache delete %q: %w", key, err)
		}
		entry := models.CacheEntry{Key: key, Value: value, Expire: expire}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("cache insert %q: %w", key, err)
		}
		return nil
	})
}

// CacheGet returns the live value for a key. Expiry is lazy: expired rows
// are filtered out here but stay in the table until CacheSweep runs.
func (s *Store) CacheGet(key string) (string, bool, error) {
	var entry models.CacheEntry
	err := s.db.
		Where("k = ? AND (expire = 0 OR expire > ?)", key, time.Now().Unix()).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// CacheSweep deletes rows whose expiry deadline has passed and returns how
// many were removed. Reads stay correct without it; it only reclaims space.
func (s *Store) CacheSweep() (int64, error) {
	res := s.db.
		Where("expire > 0 AND expire <= ?", time.Now().Unix()).
		Delete(&models.CacheEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("cache sweep: %w", res.Error)
	}
	return res.RowsAffected, nil
}
