package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"oddslens/src/database"
	"oddslens/src/model"
)

// TransactionRecordRepository is the audit log of claim and close
// submissions.
type TransactionRecordRepository struct {
	db *gorm.DB
}

// NewTransactionRecordRepository creates a new repository instance backed by
// the application database. Safe to use with persistence disabled.
func NewTransactionRecordRepository() *TransactionRecordRepository {
	return &TransactionRecordRepository{
		db: database.DB,
	}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *TransactionRecordRepository) WithDB(db *gorm.DB) *TransactionRecordRepository {
	r.db = db
	return r
}

// Create persists a new audit entry.
func (r *TransactionRecordRepository) Create(
	ctx context.Context,
	record *model.TransactionRecord,
) error {

	if r == nil || r.db == nil {
		return nil
	}

	logger.WithFields(map[string]interface{}{
		"wallet":   record.WalletPubkey,
		"position": record.PositionPubkey,
		"action":   record.Action,
		"status":   record.Status,
	}).Info("Recording transaction")

	return r.db.WithContext(ctx).Create(record).Error
}

// UpdateStatus moves an audit entry to a new status, recording the signature
// and attempt count along the way.
func (r *TransactionRecordRepository) UpdateStatus(
	ctx context.Context,
	id uint,
	status string,
	signature string,
	attempts int,
	message string,
) error {

	if r == nil || r.db == nil {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&model.TransactionRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    status,
			"signature": signature,
			"attempts":  attempts,
			"message":   message,
		}).Error
}

// FindByWallet returns the wallet's audit entries, newest first.
func (r *TransactionRecordRepository) FindByWallet(
	ctx context.Context,
	wallet string,
	limit int,
) ([]model.TransactionRecord, error) {

	if r == nil || r.db == nil {
		return []model.TransactionRecord{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	var records []model.TransactionRecord
	err := r.db.WithContext(ctx).
		Where("wallet_pubkey = ?", wallet).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
