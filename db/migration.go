package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "hiring-compliance-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.Organization{}); err != nil {
		return errors.Wrap(err, "migration of Organization failed")
	}
	if err := DB.AutoMigrate(&dbmodels.OrgUser{}); err != nil {
		return errors.Wrap(err, "migration of OrgUser failed")
	}
	if err := DB.AutoMigrate(&dbmodels.AtsIntegration{}); err != nil {
		return errors.Wrap(err, "migration of AtsIntegration failed")
	}
	if err := DB.AutoMigrate(&dbmodels.SyncedCandidate{}); err != nil {
		return errors.Wrap(err, "migration of SyncedCandidate failed")
	}
	if err := DB.AutoMigrate(&dbmodels.SyncedApplication{}); err != nil {
		return errors.Wrap(err, "migration of SyncedApplication failed")
	}
	if err := DB.AutoMigrate(&dbmodels.AuditEvent{}); err != nil {
		return errors.Wrap(err, "migration of AuditEvent failed")
	}
	if err := DB.AutoMigrate(&dbmodels.ComplianceDocument{}); err != nil {
		return errors.Wrap(err, "migration of ComplianceDocument failed")
	}
	if err := DB.AutoMigrate(&dbmodels.TrainingAssignment{}); err != nil {
		return errors.Wrap(err, "migration of TrainingAssignment failed")
	}
	if err := DB.AutoMigrate(&dbmodels.MagicToken{}); err != nil {
		return errors.Wrap(err, "migration of MagicToken failed")
	}
	log.Info("migrations finished")
	return nil
}
