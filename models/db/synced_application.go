package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"hiring-compliance-backend/models"
)

// SyncedApplication mirrors one job application pulled from a connected ATS.
// A row always references an already-synced candidate; applications for
// candidates not yet persisted are skipped during sync, not stored as orphans.
type SyncedApplication struct {
	BaseModel
	OrganizationID string `gorm:"type:varchar(36);index;uniqueIndex:idx_org_ext_application"`
	IntegrationID  string `gorm:"type:varchar(36);index"`
	CandidateID    string `gorm:"type:varchar(36);index"`
	Candidate      *SyncedCandidate `gorm:"foreignKey:CandidateID"`
	ExternalID     string `gorm:"type:varchar(255);uniqueIndex:idx_org_ext_application"`

	JobName    *string        `gorm:"type:varchar(512)"`
	JobOffices pq.StringArray `gorm:"type:text[]"`

	CurrentStageID   *string `gorm:"type:varchar(255)"`
	CurrentStageName *string `gorm:"type:varchar(512)"`

	IsAIScreened   bool    `gorm:"index"`
	AIScreenedStage *string `gorm:"type:varchar(512)"` // stage name that triggered the flag

	ComplianceFlags ComplianceFlags `gorm:"type:jsonb"`

	AppliedAt  *time.Time
	RejectedAt *time.Time

	RawData  JSONMap `gorm:"type:jsonb"`
	SyncedAt time.Time
}

// ComplianceFlag is a derived annotation describing one regulatory gap.
// Flags are advisory, they never block a sync.
type ComplianceFlag struct {
	Type       models.FlagType     `json:"type"`
	Severity   models.FlagSeverity `json:"severity"`
	Message    string              `json:"message"`
	DetectedAt time.Time           `json:"detected_at"`
}

type ComplianceFlags []ComplianceFlag

func (j ComplianceFlags) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *ComplianceFlags) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		return errors.New("unexpected jsonb column type")
	}
	return json.Unmarshal(data, j)
}

// HasFlag reports whether a flag of the given type is present.
func (j ComplianceFlags) HasFlag(flagType models.FlagType) bool {
	for _, f := range j {
		if f.Type == flagType {
			return true
		}
	}
	return false
}
