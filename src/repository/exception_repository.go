package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"oddslens/src/database"
	"oddslens/src/model"
)

// ExceptionRepository handles persistence of system exceptions.
type ExceptionRepository struct {
	db *gorm.DB
}

// NewExceptionRepository creates a new repository instance backed by the
// application database. The repository is safe to use with persistence
// disabled: every method is a no-op when the database is not connected.
func NewExceptionRepository() *ExceptionRepository {
	return &ExceptionRepository{
		db: database.DB,
	}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *ExceptionRepository) WithDB(db *gorm.DB) *ExceptionRepository {
	r.db = db
	return r
}

// Create persists a new exception in the database.
func (r *ExceptionRepository) Create(
	ctx context.Context,
	exc *model.Exception,
) error {

	if r == nil || r.db == nil {
		return nil
	}

	logger.WithFields(map[string]interface{}{
		"origin":    exc.Origin,
		"operation": exc.Operation,
		"level":     exc.Level,
	}).Error("Persisting system exception")

	return r.db.WithContext(ctx).Create(exc).Error
}

// FindLatest returns the most recent exceptions, newest first.
func (r *ExceptionRepository) FindLatest(ctx context.Context, limit int) ([]model.Exception, error) {
	if r == nil || r.db == nil {
		return []model.Exception{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	var exceptions []model.Exception
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&exceptions).Error
	return exceptions, err
}
