package historydb

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitializeDatabase opens (creating if needed) the sqlite stamp history
// database at dbPath and migrates the schema.
func InitializeDatabase(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %v", err)
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	if err := DB.AutoMigrate(&StampRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	return nil
}

// SaveStamp records a newly created timestamp. The attestation fields stay
// empty until MarkConfirmed is called.
func SaveStamp(record *StampRecord) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.Create(record).Error
}

// MarkConfirmed fills in the attestation details for the record matching
// hash and txid once the transaction is mined.
func MarkConfirmed(hash string, txid string, blockHeight uint32, blockTime uint32) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	result := DB.Model(&StampRecord{}).
		Where("hash = ? AND txid = ?", hash, txid).
		Updates(map[string]interface{}{
			"block_height": blockHeight,
			"block_time":   blockTime,
			"confirmed":    true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no stamp record found for hash %s", hash)
	}
	return nil
}

// ListStamps returns the most recent records first, up to limit. A limit
// of zero or less returns everything.
func ListStamps(limit int) ([]StampRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	var records []StampRecord
	query := DB.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByHash returns every stamp record for the given hash, oldest first.
func FindByHash(hash string) ([]StampRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	var records []StampRecord
	if err := DB.Where("hash = ?", hash).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
