package dbmodels

import (
	"time"

	"github.com/pkg/errors"
	"hiring-compliance-backend/models"
)

// AuditEvent is an append-only log row. Rows are write-once and are never
// updated or deleted in normal operation.
type AuditEvent struct {
	BaseModel
	OrganizationID string  `gorm:"type:varchar(36);index"`
	IntegrationID  *string `gorm:"type:varchar(36);index"`
	CandidateID    *string `gorm:"type:varchar(36)"`
	ApplicationID  *string `gorm:"type:varchar(36)"`
	UserID         *string `gorm:"type:varchar(36)"` // acting org user, nil for system events
	EventType      models.AuditEventType `gorm:"type:varchar(100);index"`
	Source         models.AuditSource    `gorm:"type:varchar(50);index"`
	Description    string                `gorm:"type:text"`
	Severity       models.AuditSeverity  `gorm:"type:varchar(20)"`
	Metadata       JSONMap               `gorm:"type:jsonb"`
	OccurredAt     time.Time             `gorm:"index"`
}

func (e AuditEvent) Validate() error {
	if e.OrganizationID == "" {
		return errors.New("audit event without organization")
	}
	if e.EventType == "" {
		return errors.New("audit event without type")
	}
	return nil
}
