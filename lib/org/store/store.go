package orgstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Organization) (id string, err error)
	GetByID(id string) (rec *dbmodels.Organization, err error)
	Update(id string, updMap map[string]interface{}) error
	GetActiveIds() ([]string, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Organization) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (rec *dbmodels.Organization, err error) {
	err = i.db.Model(dbmodels.Organization{}).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Organization{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("organization not found")
	}
	return nil
}

func (i impl) GetActiveIds() (ids []string, err error) {
	ids = []string{}
	err = i.db.Model(dbmodels.Organization{}).
		Where("is_active = true").
		Pluck("id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
