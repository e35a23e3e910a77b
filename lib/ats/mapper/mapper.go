package atsmapper

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"hiring-compliance-backend/models"
	atsapimodels "hiring-compliance-backend/models/api/ats"
	dbmodels "hiring-compliance-backend/models/db"
)

// MapCandidate converts one vendor candidate payload to its stored shape.
// Fields absent in the source stay nil; mapping never fails.
// Derived compliance fields are left for the flag engine.
func MapCandidate(orgID, integrationID string, src atsapimodels.Candidate, now time.Time) dbmodels.SyncedCandidate {
	rec := dbmodels.SyncedCandidate{
		OrganizationID: orgID,
		IntegrationID:  integrationID,
		ExternalID:     src.ID,
		Email:          src.PrimaryEmail(),
		FirstName:      src.FirstName,
		LastName:       src.LastName,
		Phone:          src.PrimaryPhone(),
		Location:       src.PrimaryLocation(),
		Tags:           pq.StringArray(src.Tags),
		ConsentStatus:  models.ConsentStatusUnknown,
		RawData:        src.Raw,
		SyncedAt:       now,
	}
	return rec
}

// JobInfo is resolved job metadata passed alongside an application.
type JobInfo struct {
	Name    *string
	Offices []string
}

// StageInfo is resolved pipeline-stage metadata.
type StageInfo struct {
	ID   *string
	Name *string
}

// MapApplication converts one vendor application payload to its stored
// shape. Job and stage info may be nil when lookups failed, the record is
// still mapped. The compliance-flag list starts empty, the flag engine owns it.
func MapApplication(orgID, integrationID, candidateID string, src atsapimodels.Application, job *JobInfo, stage *StageInfo, now time.Time) dbmodels.SyncedApplication {
	rec := dbmodels.SyncedApplication{
		OrganizationID:  orgID,
		IntegrationID:   integrationID,
		CandidateID:     candidateID,
		ExternalID:      src.ID,
		AppliedAt:       src.AppliedAt,
		RejectedAt:      src.RejectedAt,
		ComplianceFlags: dbmodels.ComplianceFlags{},
		RawData:         src.Raw,
		SyncedAt:        now,
	}
	if job != nil {
		rec.JobName = job.Name
		rec.JobOffices = pq.StringArray(job.Offices)
	}
	if stage != nil {
		rec.CurrentStageID = stage.ID
		rec.CurrentStageName = stage.Name
		if stage.Name != nil && IsAIScreeningStage(*stage.Name) {
			rec.IsAIScreened = true
			rec.AIScreenedStage = stage.Name
		}
	}
	return rec
}

// Stage names that indicate automated screening. "ai" is matched as a
// whole word so that names like "Trainer Interview" stay unflagged; the
// longer terms are matched as substrings.
var aiStageKeywords = []string{
	"automated",
	"algorithm",
	"assessment",
	"video interview",
	"one-way interview",
	"hirevue",
	"chatbot",
	"screening bot",
}

// IsAIScreeningStage classifies a pipeline-stage name as AI-driven
// screening. An empty name is never AI screening.
func IsAIScreeningStage(stageName string) bool {
	name := strings.ToLower(strings.TrimSpace(stageName))
	if name == "" {
		return false
	}
	for _, keyword := range aiStageKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	for _, token := range strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/' || r == '(' || r == ')'
	}) {
		if token == "ai" || token == "a.i." {
			return true
		}
	}
	return false
}
