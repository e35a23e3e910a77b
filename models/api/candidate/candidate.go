package candidateapimodels

import (
	"time"

	"github.com/pkg/errors"
	"hiring-compliance-backend/models"
	apimodels "hiring-compliance-backend/models/api"
)

type Filter struct {
	apimodels.Pagination
	Regulated     *bool  `json:"regulated"`
	ConsentStatus string `json:"consent_status"`
	Jurisdiction  string `json:"jurisdiction"`
	Search        string `json:"search"`
	IntegrationID string `json:"integration_id"`
}

func (f Filter) Validate() error {
	if f.ConsentStatus != "" && !models.ConsentStatus(f.ConsentStatus).IsValid() {
		return errors.Errorf("unknown consent status (%v)", f.ConsentStatus)
	}
	return nil
}

type View struct {
	ID                     string               `json:"id"`
	IntegrationID          string               `json:"integration_id"`
	ExternalID             string               `json:"external_id"`
	FullName               string               `json:"full_name"`
	Email                  *string              `json:"email"`
	Phone                  *string              `json:"phone"`
	Location               *string              `json:"location"`
	Tags                   []string             `json:"tags"`
	IsRegulated            bool                 `json:"is_regulated"`
	RegulatedJurisdictions []string             `json:"regulated_jurisdictions"`
	ConsentStatus          models.ConsentStatus `json:"consent_status"`
	ConsentGrantedAt       *time.Time           `json:"consent_granted_at"`
	DisclosureSentAt       *time.Time           `json:"disclosure_sent_at"`
	ComplianceFlags        []FlagView           `json:"compliance_flags"`
	SyncedAt               time.Time            `json:"synced_at"`
}

type FlagView struct {
	Type       models.FlagType     `json:"type"`
	Severity   models.FlagSeverity `json:"severity"`
	Message    string              `json:"message"`
	DetectedAt time.Time           `json:"detected_at"`
}

type DetailView struct {
	View
	Applications []ApplicationView `json:"applications"`
}

type ApplicationView struct {
	ID              string     `json:"id"`
	ExternalID      string     `json:"external_id"`
	JobName         *string    `json:"job_name"`
	StageName       *string    `json:"stage_name"`
	IsAIScreened    bool       `json:"is_ai_screened"`
	AIScreenedStage *string    `json:"ai_screened_stage"`
	AppliedAt       *time.Time `json:"applied_at"`
	RejectedAt      *time.Time `json:"rejected_at"`
	ComplianceFlags []FlagView `json:"compliance_flags"`
}

// Summary is computed over the full filtered set, not the current page.
type Summary struct {
	Total               int64            `json:"total"`
	Regulated           int64            `json:"regulated"`
	ByConsentStatus     map[string]int64 `json:"by_consent_status"`
	ByJurisdiction      map[string]int64 `json:"by_jurisdiction"`
	TotalApplications   int64            `json:"total_applications"`
	FlaggedApplications int64            `json:"flagged_applications"`
}

type ListResponse struct {
	Candidates []View  `json:"candidates"`
	RowCount   int64   `json:"row_count"`
	Summary    Summary `json:"summary"`
}

type ConsentUpdateRequest struct {
	ConsentStatus    string     `json:"consent_status"`
	DisclosureSentAt *time.Time `json:"disclosure_sent_at"`
}

func (r ConsentUpdateRequest) Validate() error {
	if r.ConsentStatus == "" && r.DisclosureSentAt == nil {
		return errors.New("nothing to update")
	}
	if r.ConsentStatus != "" && !models.ConsentStatus(r.ConsentStatus).IsValid() {
		return errors.Errorf("unknown consent status (%v)", r.ConsentStatus)
	}
	return nil
}
