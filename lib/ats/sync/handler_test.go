package atssync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	atsmapper "hiring-compliance-backend/lib/ats/mapper"
	"hiring-compliance-backend/models"
	atsapimodels "hiring-compliance-backend/models/api/ats"
	auditapimodels "hiring-compliance-backend/models/api/audit"
	candidateapimodels "hiring-compliance-backend/models/api/candidate"
	dbmodels "hiring-compliance-backend/models/db"
)

var testNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

// ---- fakes ----

type fakeClient struct {
	candidatePages   []atsapimodels.CandidateListResponse
	applicationPages []atsapimodels.ApplicationListResponse
	jobs             map[string]*atsapimodels.Job
	stages           map[string][]atsapimodels.InterviewStage
	candidateErr     error
	jobCalls         int

	candidateCursorSeen  []string
	candidateModifiedMin []*time.Time
}

func (f *fakeClient) CreateLinkToken(ctx context.Context, req atsapimodels.CreateLinkTokenRequest) (*atsapimodels.CreateLinkTokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) ExchangePublicToken(ctx context.Context, publicToken string) (*atsapimodels.ExchangeTokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) ListCandidates(ctx context.Context, accountToken string, params atsapimodels.ListParams) (atsapimodels.CandidateListResponse, error) {
	f.candidateCursorSeen = append(f.candidateCursorSeen, params.Cursor)
	f.candidateModifiedMin = append(f.candidateModifiedMin, params.ModifiedAfter)
	if f.candidateErr != nil {
		return atsapimodels.CandidateListResponse{}, f.candidateErr
	}
	page := 0
	if params.Cursor != "" {
		fmt.Sscanf(params.Cursor, "page-%d", &page)
	}
	if page >= len(f.candidatePages) {
		return atsapimodels.CandidateListResponse{}, nil
	}
	return f.candidatePages[page], nil
}

func (f *fakeClient) ListApplications(ctx context.Context, accountToken string, params atsapimodels.ListParams) (atsapimodels.ApplicationListResponse, error) {
	page := 0
	if params.Cursor != "" {
		fmt.Sscanf(params.Cursor, "page-%d", &page)
	}
	if page >= len(f.applicationPages) {
		return atsapimodels.ApplicationListResponse{}, nil
	}
	return f.applicationPages[page], nil
}

func (f *fakeClient) GetJob(ctx context.Context, accountToken, jobID string) (*atsapimodels.Job, error) {
	f.jobCalls++
	job, found := f.jobs[jobID]
	if !found {
		return nil, errors.New("job not found")
	}
	return job, nil
}

func (f *fakeClient) ListStages(ctx context.Context, accountToken, jobID string) (atsapimodels.StageListResponse, error) {
	return atsapimodels.StageListResponse{Results: f.stages[jobID]}, nil
}

func (f *fakeClient) DeleteAccount(ctx context.Context, accountToken string) error {
	return nil
}

type fakeIntegrationStore struct {
	rec        *dbmodels.AtsIntegration
	lastUpdate map[string]interface{}
}

func (f *fakeIntegrationStore) Upsert(rec dbmodels.AtsIntegration) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeIntegrationStore) Update(orgID, id string, updMap map[string]interface{}) error {
	f.lastUpdate = updMap
	return nil
}
func (f *fakeIntegrationStore) GetByID(orgID, id string) (*dbmodels.AtsIntegration, error) {
	if f.rec == nil || f.rec.ID != id || f.rec.OrganizationID != orgID {
		return nil, nil
	}
	return f.rec, nil
}
func (f *fakeIntegrationStore) GetByVendor(orgID, vendorSlug string) (*dbmodels.AtsIntegration, error) {
	return nil, nil
}
func (f *fakeIntegrationStore) List(orgID string) ([]dbmodels.AtsIntegration, error) {
	return nil, nil
}
func (f *fakeIntegrationStore) ListSyncable() ([]dbmodels.AtsIntegration, error) {
	return nil, nil
}
func (f *fakeIntegrationStore) Disconnect(orgID, id string) error {
	return nil
}

type fakeCandidateStore struct {
	rows      map[string]*dbmodels.SyncedCandidate // keyed by external id
	failOnExt string
	nextID    int
}

func newFakeCandidateStore() *fakeCandidateStore {
	return &fakeCandidateStore{rows: map[string]*dbmodels.SyncedCandidate{}}
}

func (f *fakeCandidateStore) Upsert(rec dbmodels.SyncedCandidate) (string, error) {
	if rec.ExternalID == f.failOnExt {
		return "", errors.New("storage failure")
	}
	if existing, found := f.rows[rec.ExternalID]; found {
		rec.ID = existing.ID
	} else {
		f.nextID++
		rec.ID = fmt.Sprintf("cand-int-%d", f.nextID)
	}
	f.rows[rec.ExternalID] = &rec
	return rec.ID, nil
}

func (f *fakeCandidateStore) Update(orgID, id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeCandidateStore) GetByID(orgID, id string) (*dbmodels.SyncedCandidate, error) {
	for _, rec := range f.rows {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeCandidateStore) GetByExternalID(orgID, externalID string) (*dbmodels.SyncedCandidate, error) {
	return f.rows[externalID], nil
}

func (f *fakeCandidateStore) ExternalIDMap(orgID string) (map[string]string, error) {
	result := map[string]string{}
	for ext, rec := range f.rows {
		result[ext] = rec.ID
	}
	return result, nil
}

func (f *fakeCandidateStore) List(orgID string, filter candidateapimodels.Filter) ([]dbmodels.SyncedCandidate, int64, error) {
	return nil, 0, nil
}

func (f *fakeCandidateStore) Summary(orgID string, filter candidateapimodels.Filter) (candidateapimodels.Summary, error) {
	return candidateapimodels.Summary{}, nil
}

func (f *fakeCandidateStore) ListForExport(orgID string, filter candidateapimodels.Filter) ([]dbmodels.SyncedCandidate, error) {
	return nil, nil
}

func (f *fakeCandidateStore) Count(orgID string) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeApplicationStore struct {
	rows   map[string]*dbmodels.SyncedApplication
	nextID int
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{rows: map[string]*dbmodels.SyncedApplication{}}
}

func (f *fakeApplicationStore) Upsert(rec dbmodels.SyncedApplication) (string, error) {
	if existing, found := f.rows[rec.ExternalID]; found {
		rec.ID = existing.ID
	} else {
		f.nextID++
		rec.ID = fmt.Sprintf("app-int-%d", f.nextID)
	}
	f.rows[rec.ExternalID] = &rec
	return rec.ID, nil
}

func (f *fakeApplicationStore) GetByExternalID(orgID, externalID string) (*dbmodels.SyncedApplication, error) {
	return f.rows[externalID], nil
}

func (f *fakeApplicationStore) ListByCandidate(orgID, candidateID string) ([]dbmodels.SyncedApplication, error) {
	return nil, nil
}

func (f *fakeApplicationStore) Count(orgID string) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeApplicationStore) CountFlagged(orgID string) (int64, error) {
	return 0, nil
}

type fakeAudit struct {
	events []dbmodels.AuditEvent
}

func (f *fakeAudit) Emit(event dbmodels.AuditEvent) {
	f.events = append(f.events, event)
}

func (f *fakeAudit) List(orgID string, filter auditapimodels.Filter) ([]auditapimodels.View, int64, error) {
	return nil, 0, nil
}

// ---- harness ----

type harness struct {
	sync         *impl
	client       *fakeClient
	integrations *fakeIntegrationStore
	candidates   *fakeCandidateStore
	applications *fakeApplicationStore
	audit        *fakeAudit
}

func newHarness(client *fakeClient) *harness {
	h := &harness{
		client: client,
		integrations: &fakeIntegrationStore{
			rec: &dbmodels.AtsIntegration{
				BaseModel:      dbmodels.BaseModel{ID: "int-1"},
				OrganizationID: "org-1",
				VendorSlug:     "greenhouse",
				VendorName:     "Greenhouse",
				AccountToken:   "token",
				Status:         models.IntegrationStatusActive,
			},
		},
		candidates:   newFakeCandidateStore(),
		applications: newFakeApplicationStore(),
		audit:        &fakeAudit{},
	}
	h.sync = &impl{
		client:           client,
		integrationStore: h.integrations,
		candidateStore:   h.candidates,
		applicationStore: h.applications,
		audit:            h.audit,
		pageSize:         10,
		now:              func() time.Time { return testNow },
	}
	return h
}

func scenarioClient() *fakeClient {
	return &fakeClient{
		candidatePages: []atsapimodels.CandidateListResponse{
			{
				Results: []atsapimodels.Candidate{
					{
						ID:        "ext-nyc",
						FirstName: strPtr("Ana"),
						LastName:  strPtr("Silva"),
						Locations: []string{"New York City, NY"},
					},
					{
						ID:        "ext-tx",
						FirstName: strPtr("Ben"),
						LastName:  strPtr("Olsen"),
						Locations: []string{"Austin, TX"},
					},
				},
			},
		},
		applicationPages: []atsapimodels.ApplicationListResponse{
			{
				Results: []atsapimodels.Application{
					{
						ID:           "ext-app-1",
						CandidateID:  strPtr("ext-nyc"),
						JobID:        strPtr("job-1"),
						CurrentStage: strPtr("stage-ai"),
					},
				},
			},
		},
		jobs: map[string]*atsapimodels.Job{
			"job-1": {
				ID:      "job-1",
				Name:    strPtr("Backend Engineer"),
				Offices: []atsapimodels.Office{{ID: "o1", Name: strPtr("NYC HQ")}},
			},
		},
		stages: map[string][]atsapimodels.InterviewStage{
			"job-1": {
				{ID: "stage-ai", Name: strPtr("AI Video Assessment")},
				{ID: "stage-offer", Name: strPtr("Offer")},
			},
		},
	}
}

// ---- tests ----

func TestRunSyncScenario(t *testing.T) {
	t.Run(`end to end check`, func(t *testing.T) {
		h := newHarness(scenarioClient())
		stats, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.Equal(t, 2, stats.CandidatesSynced)
		require.Equal(t, 1, stats.ApplicationsSynced)
		require.Equal(t, 0, stats.Errors)

		nyc := h.candidates.rows["ext-nyc"]
		require.NotNil(t, nyc)
		require.True(t, nyc.IsRegulated)
		require.Equal(t, []string{string(models.RegulationNYCLL14)}, []string(nyc.RegulatedJurisdictions))
		require.True(t, nyc.ComplianceFlags.HasFlag(models.FlagTypeMissingConsent))

		tx := h.candidates.rows["ext-tx"]
		require.NotNil(t, tx)
		require.False(t, tx.IsRegulated)
		require.Empty(t, tx.RegulatedJurisdictions)
		require.Len(t, tx.ComplianceFlags, 0)

		app := h.applications.rows["ext-app-1"]
		require.NotNil(t, app)
		require.True(t, app.IsAIScreened)
		require.Equal(t, "AI Video Assessment", *app.AIScreenedStage)
		require.Equal(t, nyc.ID, app.CandidateID)
		require.True(t, app.ComplianceFlags.HasFlag(models.FlagTypeAIScreenNoConsent))

		// 2 candidate events + 1 application event + 1 summary
		require.Len(t, h.audit.events, 4)
		require.Equal(t, models.AuditEventSyncCompleted, h.audit.events[3].EventType)

		// integration sync state updated, no error summary
		require.Equal(t, "", h.integrations.lastUpdate["sync_error"])
		require.NotNil(t, h.integrations.lastUpdate["last_sync_at"])
	})

	t.Run(`incremental sync passes lower bound check`, func(t *testing.T) {
		client := scenarioClient()
		h := newHarness(client)
		lastSync := testNow.Add(-time.Hour)
		h.integrations.rec.LastSyncAt = &lastSync

		_, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.NotEmpty(t, client.candidateModifiedMin)
		require.Equal(t, &lastSync, client.candidateModifiedMin[0])

		client2 := scenarioClient()
		h2 := newHarness(client2)
		h2.integrations.rec.LastSyncAt = &lastSync
		_, err = h2.sync.RunSync(context.Background(), "org-1", "int-1", true, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.Nil(t, client2.candidateModifiedMin[0]) // full sync ignores the bound
	})
}

func TestRunSyncIdempotence(t *testing.T) {
	t.Run(`second run does not duplicate check`, func(t *testing.T) {
		h := newHarness(scenarioClient())
		first, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)

		// replace the client with a fresh copy of the same remote data
		h.sync.client = scenarioClient()
		second, err := h.sync.RunSync(context.Background(), "org-1", "int-1", true, models.AuditSourceManualSync)
		require.Nil(t, err)

		require.Equal(t, first.CandidatesSynced, second.CandidatesSynced)
		require.Equal(t, first.ApplicationsSynced, second.ApplicationsSynced)
		require.Len(t, h.candidates.rows, 2)
		require.Len(t, h.applications.rows, 1)

		// flags are replaced, not appended across runs
		app := h.applications.rows["ext-app-1"]
		flagCount := 0
		for _, f := range app.ComplianceFlags {
			if f.Type == models.FlagTypeAIScreenNoConsent {
				flagCount++
			}
		}
		require.Equal(t, 1, flagCount)
	})
}

func TestRunSyncPartialFailure(t *testing.T) {
	t.Run(`bad record does not block page check`, func(t *testing.T) {
		client := scenarioClient()
		client.candidatePages[0].Results = append(client.candidatePages[0].Results, atsapimodels.Candidate{
			ID:        "ext-bad",
			Locations: []string{"Chicago, IL"},
		})
		h := newHarness(client)
		h.candidates.failOnExt = "ext-bad"

		stats, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.Equal(t, 2, stats.CandidatesSynced)
		require.Equal(t, 1, stats.Errors)
		require.Nil(t, h.candidates.rows["ext-bad"])
		require.NotNil(t, h.candidates.rows["ext-nyc"])
		require.NotNil(t, h.candidates.rows["ext-tx"])
		require.Contains(t, h.integrations.lastUpdate["sync_error"], "1 error")
	})

	t.Run(`candidate page failure does not block applications check`, func(t *testing.T) {
		client := scenarioClient()
		client.candidateErr = errors.New("vendor unavailable")
		h := newHarness(client)
		// application resolution relies on a previously synced candidate
		h.candidates.rows["ext-nyc"] = &dbmodels.SyncedCandidate{
			BaseModel:      dbmodels.BaseModel{ID: "cand-old"},
			OrganizationID: "org-1",
			ExternalID:     "ext-nyc",
			ConsentStatus:  models.ConsentStatusUnknown,
		}

		stats, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.Equal(t, 0, stats.CandidatesSynced)
		require.Equal(t, 1, stats.ApplicationsSynced)
		require.Equal(t, 1, stats.Errors)
	})
}

func TestRunSyncUnresolvedCandidate(t *testing.T) {
	t.Run(`application without synced candidate is skipped check`, func(t *testing.T) {
		client := scenarioClient()
		client.applicationPages[0].Results = append(client.applicationPages[0].Results, atsapimodels.Application{
			ID:          "ext-app-orphan",
			CandidateID: strPtr("ext-never-seen"),
		})
		h := newHarness(client)

		stats, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.Equal(t, 1, stats.ApplicationsSynced)
		require.Equal(t, 0, stats.Errors) // a skip is not an error
		require.Nil(t, h.applications.rows["ext-app-orphan"])
	})
}

func TestRunSyncJobCache(t *testing.T) {
	t.Run(`job metadata fetched once per job check`, func(t *testing.T) {
		client := scenarioClient()
		client.applicationPages[0].Results = append(client.applicationPages[0].Results, atsapimodels.Application{
			ID:           "ext-app-2",
			CandidateID:  strPtr("ext-tx"),
			JobID:        strPtr("job-1"),
			CurrentStage: strPtr("stage-offer"),
		})
		h := newHarness(client)

		stats, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.Equal(t, 2, stats.ApplicationsSynced)
		require.Equal(t, 1, client.jobCalls)
	})
}

func TestRunSyncAuthFailures(t *testing.T) {
	t.Run(`unknown integration check`, func(t *testing.T) {
		h := newHarness(scenarioClient())
		_, err := h.sync.RunSync(context.Background(), "org-1", "int-unknown", false, models.AuditSourceManualSync)
		require.NotNil(t, err)
	})

	t.Run(`foreign organization check`, func(t *testing.T) {
		h := newHarness(scenarioClient())
		_, err := h.sync.RunSync(context.Background(), "org-2", "int-1", false, models.AuditSourceManualSync)
		require.NotNil(t, err)
		require.Len(t, h.audit.events, 0) // no partial execution
	})

	t.Run(`disconnected integration check`, func(t *testing.T) {
		h := newHarness(scenarioClient())
		h.integrations.rec.Status = models.IntegrationStatusDisconnected
		_, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.NotNil(t, err)
	})

	t.Run(`revoked credential check`, func(t *testing.T) {
		h := newHarness(scenarioClient())
		h.integrations.rec.AccountToken = ""
		_, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.NotNil(t, err)
		require.Len(t, h.audit.events, 0)
	})

	t.Run(`paused integration check`, func(t *testing.T) {
		h := newHarness(scenarioClient())
		h.integrations.rec.Status = models.IntegrationStatusPaused
		_, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.NotNil(t, err)
		require.Len(t, h.audit.events, 0)
	})
}

func TestRunSyncCancellation(t *testing.T) {
	t.Run(`cancelled context stops pagination check`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		h := newHarness(scenarioClient())
		stats, err := h.sync.RunSync(ctx, "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.Equal(t, 0, stats.CandidatesSynced)
		require.Equal(t, 0, stats.ApplicationsSynced)
	})
}

func TestRunSyncPagination(t *testing.T) {
	t.Run(`cursor follow check`, func(t *testing.T) {
		client := scenarioClient()
		client.candidatePages = []atsapimodels.CandidateListResponse{
			{
				Results: []atsapimodels.Candidate{{ID: "ext-1"}, {ID: "ext-2"}},
				Next:    strPtr("page-1"),
			},
			{
				Results: []atsapimodels.Candidate{{ID: "ext-3"}},
			},
		}
		client.applicationPages = nil
		h := newHarness(client)

		stats, err := h.sync.RunSync(context.Background(), "org-1", "int-1", false, models.AuditSourceManualSync)
		require.Nil(t, err)
		require.Equal(t, 3, stats.CandidatesSynced)
		require.Equal(t, []string{"", "page-1"}, client.candidateCursorSeen)
	})
}

// orchestrator flag wiring matches the mapper predicate
func TestStageClassificationWiring(t *testing.T) {
	require.True(t, atsmapper.IsAIScreeningStage("AI Video Assessment"))
}
