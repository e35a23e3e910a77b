package audit

import (
	"time"

	log "github.com/sirupsen/logrus"
	"hiring-compliance-backend/db"
	auditstore "hiring-compliance-backend/lib/audit/store"
	"hiring-compliance-backend/models"
	auditapimodels "hiring-compliance-backend/models/api/audit"
	dbmodels "hiring-compliance-backend/models/db"
)

// Provider appends immutable audit events and serves the audit log API.
// Appends are best-effort: a failed write is logged and swallowed, it never
// rolls back the state change it describes.
type Provider interface {
	Emit(event dbmodels.AuditEvent)
	List(orgID string, filter auditapimodels.Filter) ([]auditapimodels.View, int64, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: auditstore.NewInstance(db.DB),
	}
}

type impl struct {
	store auditstore.Provider
}

func (i impl) Emit(event dbmodels.AuditEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if event.Severity == "" {
		event.Severity = models.AuditSeverityInfo
	}
	_, err := i.store.Create(event)
	if err != nil {
		log.
			WithField("organization_id", event.OrganizationID).
			WithField("event_type", event.EventType).
			WithError(err).
			Error("audit event write failed")
	}
}

func (i impl) List(orgID string, filter auditapimodels.Filter) ([]auditapimodels.View, int64, error) {
	list, rowCount, err := i.store.List(orgID, filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]auditapimodels.View, 0, len(list))
	for _, rec := range list {
		views = append(views, auditapimodels.View{
			ID:            rec.ID,
			IntegrationID: rec.IntegrationID,
			CandidateID:   rec.CandidateID,
			ApplicationID: rec.ApplicationID,
			UserID:        rec.UserID,
			EventType:     rec.EventType,
			Source:        rec.Source,
			Description:   rec.Description,
			Severity:      rec.Severity,
			Metadata:      rec.Metadata,
			OccurredAt:    rec.OccurredAt,
		})
	}
	return views, rowCount, nil
}
