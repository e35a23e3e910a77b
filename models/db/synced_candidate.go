package dbmodels

import (
	"time"

	"github.com/lib/pq"
	"hiring-compliance-backend/models"
)

// SyncedCandidate mirrors one candidate record pulled from a connected ATS.
// Contact fields are nullable, the source data is inconsistent between vendors.
type SyncedCandidate struct {
	BaseModel
	OrganizationID string `gorm:"type:varchar(36);index;uniqueIndex:idx_org_ext_candidate"`
	IntegrationID  string `gorm:"type:varchar(36);index"`
	Integration    *AtsIntegration `gorm:"foreignKey:IntegrationID"`
	ExternalID     string `gorm:"type:varchar(255);uniqueIndex:idx_org_ext_candidate"`
	Email          *string `gorm:"type:varchar(255)"`
	FirstName      *string `gorm:"type:varchar(255)"`
	LastName       *string `gorm:"type:varchar(255)"`
	Phone          *string `gorm:"type:varchar(100)"`
	Location       *string `gorm:"type:varchar(512)"`
	Tags           pq.StringArray `gorm:"type:text[]"`

	IsRegulated            bool           `gorm:"index"`
	RegulatedJurisdictions pq.StringArray `gorm:"type:text[]"`

	ComplianceFlags ComplianceFlags `gorm:"type:jsonb"`

	ConsentStatus      models.ConsentStatus `gorm:"type:varchar(20);index"`
	ConsentGrantedAt   *time.Time
	ConsentRequestedAt *time.Time
	DisclosureSentAt   *time.Time

	RawData  JSONMap `gorm:"type:jsonb"` // opaque vendor payload, kept for forensics
	SyncedAt time.Time
}

func (c SyncedCandidate) GetFullName() string {
	name := ""
	if c.FirstName != nil {
		name = *c.FirstName
	}
	if c.LastName != nil {
		if name != "" {
			name += " "
		}
		name += *c.LastName
	}
	return name
}
