package documentstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ComplianceDocument) (id string, err error)
	GetByID(orgID, id string) (rec *dbmodels.ComplianceDocument, err error)
	List(orgID string, kind dbmodels.DocumentKind) ([]dbmodels.ComplianceDocument, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ComplianceDocument) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(orgID, id string) (rec *dbmodels.ComplianceDocument, err error) {
	err = i.db.Model(dbmodels.ComplianceDocument{}).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
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

func (i impl) List(orgID string, kind dbmodels.DocumentKind) (list []dbmodels.ComplianceDocument, err error) {
	list = []dbmodels.ComplianceDocument{}
	tx := i.db.
		Model(dbmodels.ComplianceDocument{}).
		Where("organization_id = ?", orgID)
	if kind != "" {
		tx.Where("kind = ?", kind)
	}
	err = tx.Order("generated_at desc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
