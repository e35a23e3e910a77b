package candidate

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	applicationstore "hiring-compliance-backend/lib/application/store"
	"hiring-compliance-backend/lib/audit"
	candidatestore "hiring-compliance-backend/lib/candidate/store"
	"hiring-compliance-backend/lib/compliance"
	"hiring-compliance-backend/lib/docgen"
	xlsexport "hiring-compliance-backend/lib/export/xls"
	"hiring-compliance-backend/lib/smtp"
	"hiring-compliance-backend/db"
	"hiring-compliance-backend/models"
	candidateapimodels "hiring-compliance-backend/models/api/candidate"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	List(orgID string, filter candidateapimodels.Filter) (candidateapimodels.ListResponse, error)
	Summary(orgID string) (candidateapimodels.Summary, error)
	GetByID(orgID, id string) (candidateapimodels.DetailView, error)
	UpdateConsent(orgID, id, userID string, request candidateapimodels.ConsentUpdateRequest) error
	Export(ctx context.Context, orgID, userID string, filter candidateapimodels.Filter) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		candidateStore:   candidatestore.NewInstance(db.DB),
		applicationStore: applicationstore.NewInstance(db.DB),
		audit:            audit.Instance,
	}
}

type impl struct {
	candidateStore   candidatestore.Provider
	applicationStore applicationstore.Provider
	audit            audit.Provider
}

func (i impl) List(orgID string, filter candidateapimodels.Filter) (candidateapimodels.ListResponse, error) {
	list, rowCount, err := i.candidateStore.List(orgID, filter)
	if err != nil {
		return candidateapimodels.ListResponse{}, err
	}
	summary, err := i.candidateStore.Summary(orgID, filter)
	if err != nil {
		return candidateapimodels.ListResponse{}, err
	}
	views := make([]candidateapimodels.View, 0, len(list))
	for _, rec := range list {
		views = append(views, toView(rec))
	}
	return candidateapimodels.ListResponse{
		Candidates: views,
		RowCount:   rowCount,
		Summary:    summary,
	}, nil
}

// Summary is the dashboard aggregate: candidate consent/jurisdiction
// breakdowns plus organization-wide application counters.
func (i impl) Summary(orgID string) (candidateapimodels.Summary, error) {
	summary, err := i.candidateStore.Summary(orgID, candidateapimodels.Filter{})
	if err != nil {
		return summary, err
	}
	summary.TotalApplications, err = i.applicationStore.Count(orgID)
	if err != nil {
		return summary, err
	}
	summary.FlaggedApplications, err = i.applicationStore.CountFlagged(orgID)
	if err != nil {
		return summary, err
	}
	return summary, nil
}

func (i impl) GetByID(orgID, id string) (candidateapimodels.DetailView, error) {
	rec, err := i.candidateStore.GetByID(orgID, id)
	if err != nil {
		return candidateapimodels.DetailView{}, err
	}
	if rec == nil {
		return candidateapimodels.DetailView{}, errors.New("candidate not found")
	}
	applications, err := i.applicationStore.ListByCandidate(orgID, id)
	if err != nil {
		return candidateapimodels.DetailView{}, err
	}
	appViews := make([]candidateapimodels.ApplicationView, 0, len(applications))
	for _, app := range applications {
		appViews = append(appViews, candidateapimodels.ApplicationView{
			ID:              app.ID,
			ExternalID:      app.ExternalID,
			JobName:         app.JobName,
			StageName:       app.CurrentStageName,
			IsAIScreened:    app.IsAIScreened,
			AIScreenedStage: app.AIScreenedStage,
			AppliedAt:       app.AppliedAt,
			RejectedAt:      app.RejectedAt,
			ComplianceFlags: toFlagViews(app.ComplianceFlags),
		})
	}
	return candidateapimodels.DetailView{
		View:         toView(*rec),
		Applications: appViews,
	}, nil
}

// UpdateConsent stores the manually curated consent state and recomputes
// the flags of the candidate and of every application referencing it.
func (i impl) UpdateConsent(orgID, id, userID string, request candidateapimodels.ConsentUpdateRequest) error {
	logger := log.
		WithField("organization_id", orgID).
		WithField("candidate_id", id)

	rec, err := i.candidateStore.GetByID(orgID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New("candidate not found")
	}

	now := time.Now()
	previousStatus := rec.ConsentStatus
	if request.ConsentStatus != "" {
		rec.ConsentStatus = models.ConsentStatus(request.ConsentStatus)
		switch rec.ConsentStatus {
		case models.ConsentStatusGranted:
			rec.ConsentGrantedAt = &now
		case models.ConsentStatusPending:
			rec.ConsentRequestedAt = &now
			i.sendConsentRequest(logger, rec)
		}
	}
	if request.DisclosureSentAt != nil {
		rec.DisclosureSentAt = request.DisclosureSentAt
	}
	rec.ComplianceFlags = compliance.GenerateCandidateFlags(*rec, now)

	updMap := map[string]interface{}{
		"consent_status":       rec.ConsentStatus,
		"consent_granted_at":   rec.ConsentGrantedAt,
		"consent_requested_at": rec.ConsentRequestedAt,
		"disclosure_sent_at":   rec.DisclosureSentAt,
		"compliance_flags":     rec.ComplianceFlags,
	}
	if err = i.candidateStore.Update(orgID, id, updMap); err != nil {
		return err
	}

	// consent changes invalidate previously derived application flags
	applications, err := i.applicationStore.ListByCandidate(orgID, id)
	if err != nil {
		return err
	}
	for _, app := range applications {
		app.ComplianceFlags = compliance.GenerateApplicationFlags(app, *rec, now)
		if _, err = i.applicationStore.Upsert(app); err != nil {
			logger.
				WithField("application_id", app.ID).
				WithError(err).
				Error("application flag refresh failed")
		}
	}

	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: orgID,
		CandidateID:    &id,
		UserID:         &userID,
		EventType:      models.AuditEventConsentUpdated,
		Source:         models.AuditSourceManualUpdate,
		Severity:       models.AuditSeverityInfo,
		Description:    fmt.Sprintf("consent status changed from %v to %v", previousStatus, rec.ConsentStatus),
		Metadata: dbmodels.JSONMap{
			"previous_status": string(previousStatus),
			"new_status":      string(rec.ConsentStatus),
		},
		OccurredAt: now,
	})
	return nil
}

// sendConsentRequest is best-effort, consent state is updated either way.
func (i impl) sendConsentRequest(logger *log.Entry, rec *dbmodels.SyncedCandidate) {
	if smtp.Instance == nil || rec.Email == nil || *rec.Email == "" {
		return
	}
	subject := "Consent request: use of automated tools in your hiring process"
	message := fmt.Sprintf("Hello %s,\n\n"+
		"automated employment decision tools may be used while evaluating your application. "+
		"Please reply to this email to grant or decline your consent to this processing.\n",
		rec.GetFullName())
	if err := smtp.Instance.SendEMail(*rec.Email, subject, message); err != nil {
		logger.WithError(err).Warn("consent request email failed")
	}
}

func (i impl) Export(ctx context.Context, orgID, userID string, filter candidateapimodels.Filter) (*bytes.Buffer, error) {
	list, err := i.candidateStore.ListForExport(orgID, filter)
	if err != nil {
		return nil, err
	}
	buf, err := xlsexport.Instance.ExportCandidateList(list)
	if err != nil {
		return nil, err
	}
	// a copy is archived alongside the download, failure is not fatal
	if _, err = docgen.Instance.StoreExport(ctx, orgID, userID, buf.Bytes()); err != nil {
		log.
			WithField("organization_id", orgID).
			WithError(err).
			Error("export archival failed")
	}
	return buf, nil
}

func toView(rec dbmodels.SyncedCandidate) candidateapimodels.View {
	return candidateapimodels.View{
		ID:                     rec.ID,
		IntegrationID:          rec.IntegrationID,
		ExternalID:             rec.ExternalID,
		FullName:               rec.GetFullName(),
		Email:                  rec.Email,
		Phone:                  rec.Phone,
		Location:               rec.Location,
		Tags:                   []string(rec.Tags),
		IsRegulated:            rec.IsRegulated,
		RegulatedJurisdictions: []string(rec.RegulatedJurisdictions),
		ConsentStatus:          rec.ConsentStatus,
		ConsentGrantedAt:       rec.ConsentGrantedAt,
		DisclosureSentAt:       rec.DisclosureSentAt,
		ComplianceFlags:        toFlagViews(rec.ComplianceFlags),
		SyncedAt:               rec.SyncedAt,
	}
}

func toFlagViews(flags dbmodels.ComplianceFlags) []candidateapimodels.FlagView {
	views := make([]candidateapimodels.FlagView, 0, len(flags))
	for _, flag := range flags {
		views = append(views, candidateapimodels.FlagView{
			Type:       flag.Type,
			Severity:   flag.Severity,
			Message:    flag.Message,
			DetectedAt: flag.DetectedAt,
		})
	}
	return views
}
