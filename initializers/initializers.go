package initializers

import (
	"context"
	"hiring-compliance-backend/config"
	"hiring-compliance-backend/fiberlog"
	atsclient "hiring-compliance-backend/lib/ats/client"
	atssync "hiring-compliance-backend/lib/ats/sync"
	syncworker "hiring-compliance-backend/lib/ats/sync/worker"
	audithandler "hiring-compliance-backend/lib/audit"
	authhandler "hiring-compliance-backend/lib/auth"
	candidatehandler "hiring-compliance-backend/lib/candidate"
	docgenhandler "hiring-compliance-backend/lib/docgen"
	xlsexport "hiring-compliance-backend/lib/export/xls"
	integrationhandler "hiring-compliance-backend/lib/integration"
	orghandler "hiring-compliance-backend/lib/org"
	"hiring-compliance-backend/lib/rbac"
	traininghandler "hiring-compliance-backend/lib/training"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	rbac.NewHandler()
	audithandler.NewHandler()
	atsclient.NewProvider(config.Conf.Ats.Host, config.Conf.Ats.APIKey)
	xlsexport.NewHandler()
	docgenhandler.NewHandler()
	atssync.NewHandler()
	authhandler.NewHandler()
	orghandler.NewHandler()
	candidatehandler.NewHandler()
	integrationhandler.NewHandler()
	traininghandler.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	if config.Conf.Sync.WorkerEnabled != nil && !*config.Conf.Sync.WorkerEnabled {
		return
	}
	// periodic incremental sync plus the nightly full resync cron
	syncworker.StartWorker(ctx)
}
