package candidate

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	applicationstore "hiring-compliance-backend/lib/application/store"
	"hiring-compliance-backend/lib/audit"
	candidatestore "hiring-compliance-backend/lib/candidate/store"
	"hiring-compliance-backend/lib/smtp"
	"hiring-compliance-backend/models"
	candidateapimodels "hiring-compliance-backend/models/api/candidate"
	dbmodels "hiring-compliance-backend/models/db"
)

type fakeCandidateStore struct {
	candidatestore.Provider
	rec        *dbmodels.SyncedCandidate
	lastUpdate map[string]interface{}
}

func (f *fakeCandidateStore) GetByID(orgID, id string) (*dbmodels.SyncedCandidate, error) {
	if f.rec == nil || f.rec.OrganizationID != orgID || f.rec.ID != id {
		return nil, nil
	}
	cp := *f.rec
	return &cp, nil
}

func (f *fakeCandidateStore) Update(orgID, id string, updMap map[string]interface{}) error {
	f.lastUpdate = updMap
	return nil
}

func (f *fakeCandidateStore) Summary(orgID string, filter candidateapimodels.Filter) (candidateapimodels.Summary, error) {
	return candidateapimodels.Summary{
		Total:           2,
		Regulated:       1,
		ByConsentStatus: map[string]int64{"unknown": 2},
		ByJurisdiction:  map[string]int64{"NYC_LL144": 1},
	}, nil
}

type fakeApplicationStore struct {
	applicationstore.Provider
	apps     []dbmodels.SyncedApplication
	upserted []dbmodels.SyncedApplication
}

func (f *fakeApplicationStore) ListByCandidate(orgID, candidateID string) ([]dbmodels.SyncedApplication, error) {
	result := []dbmodels.SyncedApplication{}
	for _, app := range f.apps {
		if app.OrganizationID == orgID && app.CandidateID == candidateID {
			result = append(result, app)
		}
	}
	return result, nil
}

func (f *fakeApplicationStore) Upsert(rec dbmodels.SyncedApplication) (string, error) {
	f.upserted = append(f.upserted, rec)
	return rec.ID, nil
}

func (f *fakeApplicationStore) Count(orgID string) (int64, error) {
	return 3, nil
}

func (f *fakeApplicationStore) CountFlagged(orgID string) (int64, error) {
	return 1, nil
}

type fakeAuditProvider struct {
	audit.Provider
	events []dbmodels.AuditEvent
}

func (f *fakeAuditProvider) Emit(event dbmodels.AuditEvent) {
	f.events = append(f.events, event)
}

type fakeSmtp struct {
	sent []string
	err  error
}

func (f *fakeSmtp) SendEMail(to, subject, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func strPtr(v string) *string {
	return &v
}

func getInstance() (impl, *fakeCandidateStore, *fakeApplicationStore, *fakeAuditProvider) {
	sentAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	candidateID := "cand-1"
	candidateStore := &fakeCandidateStore{
		rec: &dbmodels.SyncedCandidate{
			BaseModel:              dbmodels.BaseModel{ID: candidateID},
			OrganizationID:         "org-1",
			ExternalID:             "ext-1",
			Email:                  strPtr("amira@example.com"),
			FirstName:              strPtr("Amira"),
			LastName:               strPtr("Hassan"),
			Location:               strPtr("New York City, NY"),
			IsRegulated:            true,
			RegulatedJurisdictions: []string{"NYC_LL144"},
			ConsentStatus:          models.ConsentStatusUnknown,
			DisclosureSentAt:       &sentAt,
		},
	}
	applicationStore := &fakeApplicationStore{
		apps: []dbmodels.SyncedApplication{
			{
				BaseModel:       dbmodels.BaseModel{ID: "app-1"},
				OrganizationID:  "org-1",
				ExternalID:      "ext-app-1",
				CandidateID:     candidateID,
				IsAIScreened:    true,
				AIScreenedStage: strPtr("AI Video Assessment"),
				ComplianceFlags: dbmodels.ComplianceFlags{
					{Type: models.FlagTypeAIScreenNoConsent, Severity: models.FlagSeverityError},
				},
			},
		},
	}
	auditRec := &fakeAuditProvider{}
	handler := impl{
		candidateStore:   candidateStore,
		applicationStore: applicationStore,
		audit:            auditRec,
	}
	return handler, candidateStore, applicationStore, auditRec
}

func TestSummary(t *testing.T) {
	handler, _, _, _ := getInstance()

	summary, err := handler.Summary("org-1")
	require.NoError(t, err)

	t.Run(`candidate breakdown check`, func(t *testing.T) {
		require.Equal(t, int64(2), summary.Total)
		require.Equal(t, int64(1), summary.Regulated)
		require.Equal(t, int64(1), summary.ByJurisdiction["NYC_LL144"])
	})
	t.Run(`application counters check`, func(t *testing.T) {
		require.Equal(t, int64(3), summary.TotalApplications)
		require.Equal(t, int64(1), summary.FlaggedApplications)
	})
}

func TestUpdateConsentGranted(t *testing.T) {
	handler, candidateStore, applicationStore, auditRec := getInstance()

	err := handler.UpdateConsent("org-1", "cand-1", "user-1", candidateapimodels.ConsentUpdateRequest{
		ConsentStatus: "granted",
	})
	require.NoError(t, err)

	t.Run(`consent state update check`, func(t *testing.T) {
		require.NotNil(t, candidateStore.lastUpdate)
		require.Equal(t, models.ConsentStatusGranted, candidateStore.lastUpdate["consent_status"])
		require.NotNil(t, candidateStore.lastUpdate["consent_granted_at"])
	})
	t.Run(`candidate flags cleared check`, func(t *testing.T) {
		flags, ok := candidateStore.lastUpdate["compliance_flags"].(dbmodels.ComplianceFlags)
		require.True(t, ok)
		require.Empty(t, flags)
	})
	t.Run(`application flags rederived check`, func(t *testing.T) {
		require.Len(t, applicationStore.upserted, 1)
		for _, flag := range applicationStore.upserted[0].ComplianceFlags {
			require.NotEqual(t, models.FlagTypeAIScreenNoConsent, flag.Type)
		}
	})
	t.Run(`audit event check`, func(t *testing.T) {
		require.Len(t, auditRec.events, 1)
		event := auditRec.events[0]
		require.Equal(t, models.AuditEventConsentUpdated, event.EventType)
		require.Equal(t, "unknown", event.Metadata["previous_status"])
		require.Equal(t, "granted", event.Metadata["new_status"])
		require.NotNil(t, event.UserID)
		require.Equal(t, "user-1", *event.UserID)
	})
}

func TestUpdateConsentPending(t *testing.T) {
	handler, candidateStore, _, _ := getInstance()
	mailer := &fakeSmtp{}
	prev := smtp.Instance
	smtp.Instance = mailer
	defer func() { smtp.Instance = prev }()

	err := handler.UpdateConsent("org-1", "cand-1", "user-1", candidateapimodels.ConsentUpdateRequest{
		ConsentStatus: "pending",
	})
	require.NoError(t, err)

	t.Run(`consent requested check`, func(t *testing.T) {
		require.Equal(t, models.ConsentStatusPending, candidateStore.lastUpdate["consent_status"])
		require.NotNil(t, candidateStore.lastUpdate["consent_requested_at"])
	})
	t.Run(`consent request email check`, func(t *testing.T) {
		require.Equal(t, []string{"amira@example.com"}, mailer.sent)
	})
}

func TestUpdateConsentEmailFailureTolerated(t *testing.T) {
	handler, candidateStore, _, _ := getInstance()
	mailer := &fakeSmtp{err: errors.New("smtp unreachable")}
	prev := smtp.Instance
	smtp.Instance = mailer
	defer func() { smtp.Instance = prev }()

	err := handler.UpdateConsent("org-1", "cand-1", "user-1", candidateapimodels.ConsentUpdateRequest{
		ConsentStatus: "pending",
	})

	t.Run(`email failure is not fatal check`, func(t *testing.T) {
		require.NoError(t, err)
		require.Equal(t, models.ConsentStatusPending, candidateStore.lastUpdate["consent_status"])
	})
}

func TestUpdateConsentUnknownCandidate(t *testing.T) {
	handler, _, _, _ := getInstance()

	t.Run(`unknown candidate check`, func(t *testing.T) {
		err := handler.UpdateConsent("org-1", "missing", "user-1", candidateapimodels.ConsentUpdateRequest{ConsentStatus: "granted"})
		require.Error(t, err)
	})
	t.Run(`foreign organization check`, func(t *testing.T) {
		err := handler.UpdateConsent("org-2", "cand-1", "user-1", candidateapimodels.ConsentUpdateRequest{ConsentStatus: "granted"})
		require.Error(t, err)
	})
}
