package models

import (
	"time"

	"github.com/google/uuid"
)

// AssemblyRunRecord is the persisted audit row for one completed assembly
// run. Audit persistence is optional; see repository.AuditRepository.
type AssemblyRunRecord struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RunID          uuid.UUID `json:"runId" gorm:"type:uuid;not null;index"`
	FileName       string    `json:"fileName" gorm:"type:varchar(255);not null"`
	ProcessedCount int       `json:"processedCount" gorm:"not null"`
	TotalPages     int       `json:"totalPages" gorm:"not null"`
	MissingCount   int       `json:"missingCount" gorm:"not null"`
	ErrorCount     int       `json:"errorCount" gorm:"not null"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CatalogPushRecord is the persisted audit row for one submit batch against
// the remote catalog.
type CatalogPushRecord struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID    int64     `json:"productId" gorm:"not null;index"`
	UpdatedCount int       `json:"updatedCount" gorm:"not null"`
	FailedCount  int       `json:"failedCount" gorm:"not null"`
	SkippedCount int       `json:"skippedCount" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
}
