package dbmodels

import "time"

type TrainingStatus string

const (
	TrainingStatusAssigned  TrainingStatus = "assigned"
	TrainingStatusCompleted TrainingStatus = "completed"
)

// TrainingAssignment links an org user to a required compliance training module.
type TrainingAssignment struct {
	BaseOrgModel
	UserID        string `gorm:"type:varchar(36);index"`
	User          *OrgUser `gorm:"foreignKey:UserID"`
	ModuleSlug    string `gorm:"type:varchar(100)"`
	ModuleName    string `gorm:"type:varchar(255)"`
	Status        TrainingStatus `gorm:"type:varchar(20);index"`
	CompletedAt   *time.Time
	CertificateID *string `gorm:"type:varchar(36)"` // ComplianceDocument reference
}

// MagicToken grants single-use, time-limited access to one training assignment
// without a session.
type MagicToken struct {
	BaseOrgModel
	Token        string `gorm:"type:varchar(64);uniqueIndex"`
	AssignmentID string `gorm:"type:varchar(36);index"`
	ExpiresAt    time.Time
	UsedAt       *time.Time
}

func (t MagicToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
