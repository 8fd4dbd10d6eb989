package repository

import (
	"gorm.io/gorm"
	"labels-service/internal/models"
)

// AuditRepository persists the run-history trail: one row per completed
// assembly run and one per catalog push batch. The repository is optional;
// a nil *AuditRepository disables auditing and every method is a no-op, so
// callers never need to branch on configuration.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) RecordAssemblyRun(record *models.AssemblyRunRecord) error {
	if r == nil {
		return nil
	}
	return r.db.Create(record).Error
}

func (r *AuditRepository) RecordCatalogPush(record *models.CatalogPushRecord) error {
	if r == nil {
		return nil
	}
	return r.db.Create(record).Error
}

// ListAssemblyRuns returns the most recent assembly runs, newest first.
func (r *AuditRepository) ListAssemblyRuns(limit int) ([]models.AssemblyRunRecord, error) {
	if r == nil {
		return []models.AssemblyRunRecord{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var records []models.AssemblyRunRecord
	err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
