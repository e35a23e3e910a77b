package trainingstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	CreateAssignment(rec dbmodels.TrainingAssignment) (id string, err error)
	GetAssignment(orgID, id string) (rec *dbmodels.TrainingAssignment, err error)
	ListAssignments(orgID string) ([]dbmodels.TrainingAssignment, error)
	CompleteAssignment(orgID, id, certificateID string) error

	CreateToken(rec dbmodels.MagicToken) (id string, err error)
	GetToken(token string) (rec *dbmodels.MagicToken, err error)
	ConsumeToken(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateAssignment(rec dbmodels.TrainingAssignment) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetAssignment(orgID, id string) (rec *dbmodels.TrainingAssignment, err error) {
	err = i.db.Model(dbmodels.TrainingAssignment{}).
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

func (i impl) ListAssignments(orgID string) (list []dbmodels.TrainingAssignment, err error) {
	list = []dbmodels.TrainingAssignment{}
	err = i.db.
		Model(dbmodels.TrainingAssignment{}).
		Where("organization_id = ?", orgID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CompleteAssignment(orgID, id, certificateID string) error {
	now := time.Now()
	tx := i.db.
		Model(&dbmodels.TrainingAssignment{}).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Updates(map[string]interface{}{
			"status":         dbmodels.TrainingStatusCompleted,
			"completed_at":   &now,
			"certificate_id": certificateID,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("assignment not found")
	}
	return nil
}

func (i impl) CreateToken(rec dbmodels.MagicToken) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetToken(token string) (rec *dbmodels.MagicToken, err error) {
	err = i.db.Model(dbmodels.MagicToken{}).
		Where("token = ?", token).
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

// ConsumeToken marks a token used exactly once. A second consume fails on
// the used_at guard.
func (i impl) ConsumeToken(id string) error {
	tx := i.db.
		Model(&dbmodels.MagicToken{}).
		Where("id = ?", id).
		Where("used_at is null").
		Update("used_at", time.Now())
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("token already used")
	}
	return nil
}
