package auditstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	auditapimodels "hiring-compliance-backend/models/api/audit"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.AuditEvent) (id string, err error)
	List(orgID string, filter auditapimodels.Filter) (list []dbmodels.AuditEvent, rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.AuditEvent) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(orgID string, filter auditapimodels.Filter) (list []dbmodels.AuditEvent, rowCount int64, err error) {
	list = []dbmodels.AuditEvent{}
	tx := i.db.
		Model(dbmodels.AuditEvent{}).
		Where("organization_id = ?", orgID)
	addFilter(tx, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	err = tx.
		Order("occurred_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return list, rowCount, nil
}

func addFilter(tx *gorm.DB, filter auditapimodels.Filter) {
	if filter.EventType != "" {
		tx.Where("event_type = ?", filter.EventType)
	}
	if filter.Source != "" {
		tx.Where("source = ?", filter.Source)
	}
	if filter.Severity != "" {
		tx.Where("severity = ?", filter.Severity)
	}
	if filter.IntegrationID != "" {
		tx.Where("integration_id = ?", filter.IntegrationID)
	}
	if filter.CandidateID != "" {
		tx.Where("candidate_id = ?", filter.CandidateID)
	}
}
