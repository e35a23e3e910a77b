package auditapimodels

import (
	"time"

	"hiring-compliance-backend/models"
	apimodels "hiring-compliance-backend/models/api"
)

type Filter struct {
	apimodels.Pagination
	EventType     string `json:"event_type"`
	Source        string `json:"source"`
	Severity      string `json:"severity"`
	IntegrationID string `json:"integration_id"`
	CandidateID   string `json:"candidate_id"`
}

type View struct {
	ID            string                `json:"id"`
	IntegrationID *string               `json:"integration_id,omitempty"`
	CandidateID   *string               `json:"candidate_id,omitempty"`
	ApplicationID *string               `json:"application_id,omitempty"`
	UserID        *string               `json:"user_id,omitempty"`
	EventType     models.AuditEventType `json:"event_type"`
	Source        models.AuditSource    `json:"source"`
	Description   string                `json:"description"`
	Severity      models.AuditSeverity  `json:"severity"`
	Metadata      map[string]any        `json:"metadata,omitempty"`
	OccurredAt    time.Time             `json:"occurred_at"`
}
