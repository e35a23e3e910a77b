package dbmodels

import (
	"time"

	"hiring-compliance-backend/models"
)

// AtsIntegration is one connected ATS account per (organization, vendor).
// Rows are soft-disconnected, never hard-deleted, to preserve the audit trail.
type AtsIntegration struct {
	BaseModel
	OrganizationID string `gorm:"type:varchar(36);index;uniqueIndex:idx_org_vendor"`
	VendorSlug     string `gorm:"type:varchar(100);uniqueIndex:idx_org_vendor"`
	VendorName     string `gorm:"type:varchar(255)"`
	AccountToken   string `gorm:"type:varchar(512)"` // durable connector credential
	Status         models.IntegrationStatus `gorm:"type:varchar(20);index"`
	LastSyncAt     *time.Time
	SyncError      string  `gorm:"type:text"`
	Settings       JSONMap `gorm:"type:jsonb"`
}
