package atssync

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	applicationstore "hiring-compliance-backend/lib/application/store"
	atsclient "hiring-compliance-backend/lib/ats/client"
	atsmapper "hiring-compliance-backend/lib/ats/mapper"
	"hiring-compliance-backend/lib/audit"
	candidatestore "hiring-compliance-backend/lib/candidate/store"
	"hiring-compliance-backend/lib/compliance"
	integrationstore "hiring-compliance-backend/lib/integration/store"
	"hiring-compliance-backend/lib/utils/helpers"
	"hiring-compliance-backend/lib/utils/lock"
	"hiring-compliance-backend/config"
	"hiring-compliance-backend/db"
	"hiring-compliance-backend/models"
	atsapimodels "hiring-compliance-backend/models/api/ats"
	syncapimodels "hiring-compliance-backend/models/api/sync"
	dbmodels "hiring-compliance-backend/models/db"
)

// Provider runs one pull-map-flag-store pass for a single integration.
type Provider interface {
	RunSync(ctx context.Context, orgID, integrationID string, fullSync bool, source models.AuditSource) (syncapimodels.SyncStats, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		client:           atsclient.Instance,
		integrationStore: integrationstore.NewInstance(db.DB),
		candidateStore:   candidatestore.NewInstance(db.DB),
		applicationStore: applicationstore.NewInstance(db.DB),
		audit:            audit.Instance,
		pageSize:         config.Conf.Ats.PageSize,
		now:              time.Now,
	}
}

type impl struct {
	client           atsclient.Provider
	integrationStore integrationstore.Provider
	candidateStore   candidatestore.Provider
	applicationStore applicationstore.Provider
	audit            audit.Provider
	pageSize         int
	now              func() time.Time
}

const jobCacheTTL = 15 * time.Minute

func (i *impl) getLogger(orgID, integrationID string) *log.Entry {
	return log.
		WithField("organization_id", orgID).
		WithField("integration_id", integrationID)
}

// RunSync executes one synchronous sync pass. Only authorization and
// configuration failures are returned as errors; fetch, mapping and
// storage failures end up in the stats instead. Runs for the same
// integration are serialized, a concurrent run is rejected.
func (i *impl) RunSync(ctx context.Context, orgID, integrationID string, fullSync bool, source models.AuditSource) (stats syncapimodels.SyncStats, err error) {
	acquired, err := lock.WithDelay(ctx, "ats-sync-"+integrationID, time.Second, func() error {
		stats, err = i.runSync(ctx, orgID, integrationID, fullSync, source)
		return err
	})
	if err != nil {
		return stats, err
	}
	if !acquired {
		return stats, errors.New("sync is already running for this integration")
	}
	return stats, nil
}

func (i *impl) runSync(ctx context.Context, orgID, integrationID string, fullSync bool, source models.AuditSource) (stats syncapimodels.SyncStats, err error) {
	logger := i.getLogger(orgID, integrationID)

	integration, err := i.integrationStore.GetByID(orgID, integrationID)
	if err != nil {
		return stats, err
	}
	if integration == nil {
		return stats, errors.New("integration not found")
	}
	if !integration.Status.IsSyncable() {
		return stats, errors.Errorf("integration is not syncable (status %v)", integration.Status)
	}
	if integration.AccountToken == "" {
		return stats, errors.New("integration has no account credential")
	}

	var modifiedAfter *time.Time
	if !fullSync {
		modifiedAfter = integration.LastSyncAt
	}

	i.syncCandidates(ctx, *integration, modifiedAfter, source, &stats)
	// candidate sync runs to completion first so the application loop can
	// resolve candidate references within the same run
	i.syncApplications(ctx, *integration, modifiedAfter, source, &stats)

	now := i.now()
	updMap := map[string]interface{}{
		"last_sync_at": &now,
		"sync_error":   "",
	}
	if stats.Errors > 0 {
		updMap["sync_error"] = fmt.Sprintf("sync finished with %v error(s)", stats.Errors)
	}
	if updErr := i.integrationStore.Update(orgID, integrationID, updMap); updErr != nil {
		logger.WithError(updErr).Error("integration sync-state update failed")
		stats.Errors++
	}

	severity := models.AuditSeverityInfo
	if stats.Errors > 0 {
		severity = models.AuditSeverityWarning
	}
	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: orgID,
		IntegrationID:  &integration.ID,
		EventType:      models.AuditEventSyncCompleted,
		Source:         source,
		Severity:       severity,
		Description: fmt.Sprintf("sync with %v finished: %v candidates, %v applications, %v flags, %v errors",
			integration.VendorName, stats.CandidatesSynced, stats.ApplicationsSynced, stats.ComplianceFlags, stats.Errors),
		Metadata: dbmodels.JSONMap{
			"candidates_synced":   stats.CandidatesSynced,
			"applications_synced": stats.ApplicationsSynced,
			"compliance_flags":    stats.ComplianceFlags,
			"errors":              stats.Errors,
			"full_sync":           fullSync,
		},
		OccurredAt: now,
	})
	return stats, nil
}

func (i *impl) syncCandidates(ctx context.Context, integration dbmodels.AtsIntegration, modifiedAfter *time.Time, source models.AuditSource, stats *syncapimodels.SyncStats) {
	logger := i.getLogger(integration.OrganizationID, integration.ID).
		WithField("entity", "candidates")
	cursor := ""
	for {
		if helpers.IsContextDone(ctx) {
			logger.Info("sync interrupted")
			return
		}
		resp, err := i.client.ListCandidates(ctx, integration.AccountToken, atsapimodels.ListParams{
			Cursor:        cursor,
			PageSize:      i.pageSize,
			ModifiedAfter: modifiedAfter,
		})
		if err != nil {
			// a page-level failure aborts candidate pagination only
			logger.WithError(err).Error("candidate page fetch failed")
			stats.Errors++
			return
		}
		for _, src := range resp.Results {
			if err := i.processCandidate(integration, src, source, stats); err != nil {
				logger.
					WithField("external_id", src.ID).
					WithError(err).
					Error("candidate processing failed")
				stats.Errors++
			}
		}
		if resp.Next == nil || *resp.Next == "" {
			return
		}
		cursor = *resp.Next
	}
}

func (i *impl) processCandidate(integration dbmodels.AtsIntegration, src atsapimodels.Candidate, source models.AuditSource, stats *syncapimodels.SyncStats) error {
	now := i.now()
	rec := atsmapper.MapCandidate(integration.OrganizationID, integration.ID, src, now)

	location := ""
	if rec.Location != nil {
		location = *rec.Location
	}
	rec.RegulatedJurisdictions = pq.StringArray(compliance.DeriveJurisdictions(location))
	rec.IsRegulated = len(rec.RegulatedJurisdictions) > 0

	// manually curated consent fields survive a re-sync, so flags are
	// derived against the already-stored consent state
	existing, err := i.candidateStore.GetByExternalID(integration.OrganizationID, rec.ExternalID)
	if err != nil {
		return err
	}
	if existing != nil {
		rec.ConsentStatus = existing.ConsentStatus
		rec.ConsentGrantedAt = existing.ConsentGrantedAt
		rec.ConsentRequestedAt = existing.ConsentRequestedAt
		rec.DisclosureSentAt = existing.DisclosureSentAt
	}
	rec.ComplianceFlags = compliance.GenerateCandidateFlags(rec, now)

	id, err := i.candidateStore.Upsert(rec)
	if err != nil {
		return err
	}
	stats.CandidatesSynced++
	stats.ComplianceFlags += len(rec.ComplianceFlags)

	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: integration.OrganizationID,
		IntegrationID:  &integration.ID,
		CandidateID:    &id,
		EventType:      models.AuditEventCandidateSynced,
		Source:         source,
		Severity:       models.AuditSeverityInfo,
		Description:    fmt.Sprintf("candidate %v synced from %v", src.ID, integration.VendorName),
		Metadata: dbmodels.JSONMap{
			"external_id":  src.ID,
			"is_regulated": rec.IsRegulated,
			"flag_count":   len(rec.ComplianceFlags),
		},
		OccurredAt: now,
	})
	return nil
}

func (i *impl) syncApplications(ctx context.Context, integration dbmodels.AtsIntegration, modifiedAfter *time.Time, source models.AuditSource, stats *syncapimodels.SyncStats) {
	logger := i.getLogger(integration.OrganizationID, integration.ID).
		WithField("entity", "applications")

	candidateMap, err := i.candidateStore.ExternalIDMap(integration.OrganizationID)
	if err != nil {
		logger.WithError(err).Error("candidate map build failed")
		stats.Errors++
		return
	}
	jobCache := gocache.New(jobCacheTTL, jobCacheTTL)

	cursor := ""
	for {
		if helpers.IsContextDone(ctx) {
			logger.Info("sync interrupted")
			return
		}
		resp, err := i.client.ListApplications(ctx, integration.AccountToken, atsapimodels.ListParams{
			Cursor:        cursor,
			PageSize:      i.pageSize,
			ModifiedAfter: modifiedAfter,
		})
		if err != nil {
			logger.WithError(err).Error("application page fetch failed")
			stats.Errors++
			return
		}
		for _, src := range resp.Results {
			if src.CandidateID == nil {
				continue
			}
			candidateID, found := candidateMap[*src.CandidateID]
			if !found {
				// candidate not persisted yet, picked up on the next sync
				logger.
					WithField("external_id", src.ID).
					Debug("application skipped, candidate not synced")
				continue
			}
			if err := i.processApplication(ctx, integration, src, candidateID, jobCache, source, stats); err != nil {
				logger.
					WithField("external_id", src.ID).
					WithError(err).
					Error("application processing failed")
				stats.Errors++
			}
		}
		if resp.Next == nil || *resp.Next == "" {
			return
		}
		cursor = *resp.Next
	}
}

func (i *impl) processApplication(ctx context.Context, integration dbmodels.AtsIntegration, src atsapimodels.Application, candidateID string, jobCache *gocache.Cache, source models.AuditSource, stats *syncapimodels.SyncStats) error {
	now := i.now()
	logger := i.getLogger(integration.OrganizationID, integration.ID).
		WithField("external_id", src.ID)

	jobInfo := i.resolveJob(ctx, integration.AccountToken, src.JobID, jobCache, logger)
	stageInfo := i.resolveStage(ctx, integration.AccountToken, src.JobID, src.CurrentStage, logger)

	rec := atsmapper.MapApplication(integration.OrganizationID, integration.ID, candidateID, src, jobInfo, stageInfo, now)

	candidate, err := i.candidateStore.GetByID(integration.OrganizationID, candidateID)
	if err != nil {
		return err
	}
	if candidate == nil {
		return errors.New("candidate row disappeared during sync")
	}
	rec.ComplianceFlags = compliance.GenerateApplicationFlags(rec, *candidate, now)

	id, err := i.applicationStore.Upsert(rec)
	if err != nil {
		return err
	}
	stats.ApplicationsSynced++
	stats.ComplianceFlags += len(rec.ComplianceFlags)

	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: integration.OrganizationID,
		IntegrationID:  &integration.ID,
		CandidateID:    &candidateID,
		ApplicationID:  &id,
		EventType:      models.AuditEventApplicationSynced,
		Source:         source,
		Severity:       models.AuditSeverityInfo,
		Description:    fmt.Sprintf("application %v synced from %v", src.ID, integration.VendorName),
		Metadata: dbmodels.JSONMap{
			"external_id":    src.ID,
			"is_ai_screened": rec.IsAIScreened,
			"flag_count":     len(rec.ComplianceFlags),
		},
		OccurredAt: now,
	})
	return nil
}

// resolveJob looks job metadata up through a per-run TTL cache. Lookup
// failures are tolerated, the application is stored with null job info.
func (i *impl) resolveJob(ctx context.Context, accountToken string, jobID *string, jobCache *gocache.Cache, logger *log.Entry) *atsmapper.JobInfo {
	if jobID == nil || *jobID == "" {
		return nil
	}
	if cached, found := jobCache.Get(*jobID); found {
		return cached.(*atsmapper.JobInfo)
	}
	job, err := i.client.GetJob(ctx, accountToken, *jobID)
	if err != nil {
		logger.WithField("job_id", *jobID).WithError(err).Warn("job lookup failed")
		return nil
	}
	info := &atsmapper.JobInfo{
		Name:    job.Name,
		Offices: job.OfficeNames(),
	}
	jobCache.Set(*jobID, info, gocache.DefaultExpiration)
	return info
}

// resolveStage fetches the job's stage list and picks the current stage.
// Errors are treated as "unknown stage".
func (i *impl) resolveStage(ctx context.Context, accountToken string, jobID, stageID *string, logger *log.Entry) *atsmapper.StageInfo {
	if stageID == nil || *stageID == "" || jobID == nil || *jobID == "" {
		return nil
	}
	resp, err := i.client.ListStages(ctx, accountToken, *jobID)
	if err != nil {
		logger.WithField("stage_id", *stageID).WithError(err).Warn("stage lookup failed")
		return nil
	}
	for _, stage := range resp.Results {
		if stage.ID == *stageID {
			return &atsmapper.StageInfo{
				ID:   &stage.ID,
				Name: stage.Name,
			}
		}
	}
	return &atsmapper.StageInfo{ID: stageID}
}
