package syncworker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	atssync "hiring-compliance-backend/lib/ats/sync"
	integrationstore "hiring-compliance-backend/lib/integration/store"
	baseworker "hiring-compliance-backend/lib/utils/base-worker"
	"hiring-compliance-backend/lib/utils/helpers"
	"hiring-compliance-backend/config"
	"hiring-compliance-backend/db"
	"hiring-compliance-backend/models"
)

// StartWorker runs the periodic incremental sync over every syncable
// integration and schedules the nightly full re-sync.
func StartWorker(ctx context.Context) {
	period := time.Duration(config.Conf.Sync.PeriodInMin) * time.Minute
	i := &impl{
		BaseImpl:         *baseworker.NewInstance("AtsSyncWorker", 30*time.Second, period),
		integrationStore: integrationstore.NewInstance(db.DB),
		sync:             atssync.Instance,
	}
	go i.Run(ctx, func(ctx context.Context) {
		i.handle(ctx, false)
	})
	i.startFullSyncCron(ctx)
}

type impl struct {
	baseworker.BaseImpl
	integrationStore integrationstore.Provider
	sync             atssync.Provider
	cron             *cron.Cron
}

func (i *impl) startFullSyncCron(ctx context.Context) {
	i.cron = cron.New()
	_, err := i.cron.AddFunc(config.Conf.Sync.FullSyncCron, func() {
		i.handle(ctx, true)
	})
	if err != nil {
		i.GetLogger().
			WithField("cron_spec", config.Conf.Sync.FullSyncCron).
			WithError(err).
			Error("full sync schedule registration failed")
		return
	}
	i.cron.Start()
	go func() {
		<-ctx.Done()
		i.cron.Stop()
	}()
}

func (i *impl) handle(ctx context.Context, fullSync bool) {
	logger := i.GetLogger().WithField("full_sync", fullSync)
	list, err := i.integrationStore.ListSyncable()
	if err != nil {
		logger.WithError(err).Error("syncable integration list failed")
		return
	}
	for _, integration := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		i.runOne(ctx, integration.OrganizationID, integration.ID, fullSync)
	}
}

func (i *impl) runOne(ctx context.Context, orgID, integrationID string, fullSync bool) {
	logger := i.GetLogger().
		WithField("organization_id", orgID).
		WithField("integration_id", integrationID)
	stats, err := i.sync.RunSync(ctx, orgID, integrationID, fullSync, models.AuditSourceAtsSync)
	if err != nil {
		logger.WithError(err).Error("scheduled sync failed")
		return
	}
	entry := logger.
		WithField("candidates_synced", stats.CandidatesSynced).
		WithField("applications_synced", stats.ApplicationsSynced).
		WithField("errors", stats.Errors)
	if stats.Errors > 0 {
		entry.Warn("scheduled sync finished with errors")
		return
	}
	entry.Info("scheduled sync finished")
}
