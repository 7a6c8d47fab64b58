package db

import (
	"fmt"

	"gorm.io/gorm"

	"klinestore.magictradebot.com/models"
)

// stockInfoBatchSize bounds one INSERT statement inside the replace
// transaction.
const stockInfoBatchSize = 100

// StockInfoReplace swaps out a market's whole instrument set: instruments
// missing from the new list are gone afterwards. Delete and bulk insert
// run in one transaction so readers never observe the emptied state.
// Empty input is a no-op and keeps the existing rows. The input slice is
// left untouched; the market is stamped onto a copy.
func (s *Store) StockInfoReplace(market models.Market, infos []models.StockInfo) error {
	if len(infos) == 0 {
		return nil
	}
	rows := make([]models.StockInfo, len(infos))
	copy(rows, infos)
	for i := range rows {
		rows[i].Market = market
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("market = ?", market).Delete(&models.StockInfo{}).Error; err != nil {
			return fmt.Errorf("clear stock info for %s: %w", market, err)
		}
		if err := tx.CreateInBatches(rows, stockInfoBatchSize).Error; err != nil {
			return fmt.Errorf("insert %d stock infos for %s: %w", len(rows), market, err)
		}
		return nil
	})
}

// StockInfoQuery returns a market's instruments, or the single instrument
// matching code when code is non-empty. No match is an empty slice.
func (s *Store) StockInfoQuery(market models.Market, code string) ([]models.StockInfo, error) {
	tx := s.db.Where("market = ?", market)
	if code != "" {
		tx = tx.Where("code = ?", code)
	}
	var infos []models.StockInfo
	if err := tx.Find(&infos).Error; err != nil {
		return nil, fmt.Errorf("query stock info for %s: %w", market, err)
	}
	return infos, nil
}
