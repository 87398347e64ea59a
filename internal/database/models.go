package historydb

import "time"

// StampRecord is one row of local stamp history: a hash we timestamped,
// where its proof file lives, and the attestation once confirmed.
type StampRecord struct {
	ID          uint   `gorm:"primaryKey"`
	Hash        string `gorm:"index;size:64"`
	Algorithm   string `gorm:"size:16"`
	FilePath    string
	ProofPath   string
	Network     string `gorm:"size:16"`
	Txid        string `gorm:"size:64"`
	BlockHeight uint32
	BlockTime   uint32
	Confirmed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
