package applicationstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Upsert(rec dbmodels.SyncedApplication) (id string, err error)
	GetByExternalID(orgID, externalID string) (rec *dbmodels.SyncedApplication, err error)
	ListByCandidate(orgID, candidateID string) ([]dbmodels.SyncedApplication, error)
	Count(orgID string) (int64, error)
	CountFlagged(orgID string) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Upsert writes one synced application keyed on (organization, external id).
// The compliance-flag list is replaced wholesale on every sync.
func (i impl) Upsert(rec dbmodels.SyncedApplication) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organization_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"integration_id", "candidate_id", "job_name", "job_offices",
				"current_stage_id", "current_stage_name", "is_ai_screened",
				"ai_screened_stage", "compliance_flags", "applied_at",
				"rejected_at", "raw_data", "synced_at", "updated_at",
			}),
		}).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	if rec.ID == "" {
		existing, err := i.GetByExternalID(rec.OrganizationID, rec.ExternalID)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return "", errors.New("application row lost after upsert")
		}
		return existing.ID, nil
	}
	return rec.ID, nil
}

func (i impl) GetByExternalID(orgID, externalID string) (rec *dbmodels.SyncedApplication, err error) {
	err = i.db.Model(dbmodels.SyncedApplication{}).
		Where("organization_id = ?", orgID).
		Where("external_id = ?", externalID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) ListByCandidate(orgID, candidateID string) (list []dbmodels.SyncedApplication, err error) {
	list = []dbmodels.SyncedApplication{}
	err = i.db.
		Model(dbmodels.SyncedApplication{}).
		Where("organization_id = ?", orgID).
		Where("candidate_id = ?", candidateID).
		Order("synced_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Count(orgID string) (count int64, err error) {
	err = i.db.Model(dbmodels.SyncedApplication{}).
		Where("organization_id = ?", orgID).
		Count(&count).
		Error
	return count, err
}

func (i impl) CountFlagged(orgID string) (count int64, err error) {
	err = i.db.Model(dbmodels.SyncedApplication{}).
		Where("organization_id = ?", orgID).
		Where("jsonb_array_length(compliance_flags) > 0").
		Count(&count).
		Error
	return count, err
}
