package orgusersstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.OrgUser) (id string, err error)
	Update(orgID, id string, updMap map[string]interface{}) error
	GetByID(id string) (rec *dbmodels.OrgUser, err error)
	GetByEmail(email string) (rec *dbmodels.OrgUser, err error)
	ExistByEmail(email string) (bool, error)
	List(orgID string) ([]dbmodels.OrgUser, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.OrgUser) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(orgID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.OrgUser{}).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (i impl) GetByID(id string) (rec *dbmodels.OrgUser, err error) {
	err = i.db.Model(dbmodels.OrgUser{}).
		Where("id = ?", id).
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

func (i impl) GetByEmail(email string) (rec *dbmodels.OrgUser, err error) {
	err = i.db.Model(dbmodels.OrgUser{}).
		Where("email = ?", email).
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

func (i impl) ExistByEmail(email string) (found bool, err error) {
	var exists bool
	err = i.db.Model(&dbmodels.OrgUser{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&exists).
		Error
	return exists, err
}

func (i impl) List(orgID string) (list []dbmodels.OrgUser, err error) {
	list = []dbmodels.OrgUser{}
	err = i.db.
		Model(dbmodels.OrgUser{}).
		Where("organization_id = ?", orgID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
