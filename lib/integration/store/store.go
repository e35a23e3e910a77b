package integrationstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"hiring-compliance-backend/models"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Upsert(rec dbmodels.AtsIntegration) (id string, err error)
	Update(orgID, id string, updMap map[string]interface{}) error
	GetByID(orgID, id string) (rec *dbmodels.AtsIntegration, err error)
	GetByVendor(orgID, vendorSlug string) (rec *dbmodels.AtsIntegration, err error)
	List(orgID string) ([]dbmodels.AtsIntegration, error)
	ListSyncable() ([]dbmodels.AtsIntegration, error)
	Disconnect(orgID, id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Upsert enforces at most one integration per (organization, vendor slug).
// A reconnect overwrites the credential and reactivates the existing row.
func (i impl) Upsert(rec dbmodels.AtsIntegration) (id string, err error) {
	err = i.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organization_id"}, {Name: "vendor_slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"vendor_name", "account_token", "status", "sync_error", "updated_at",
			}),
		}).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	if rec.ID == "" {
		existing, err := i.GetByVendor(rec.OrganizationID, rec.VendorSlug)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return "", errors.New("integration row lost after upsert")
		}
		return existing.ID, nil
	}
	return rec.ID, nil
}

func (i impl) Update(orgID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.AtsIntegration{}).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("integration not found")
	}
	return nil
}

func (i impl) GetByID(orgID, id string) (rec *dbmodels.AtsIntegration, err error) {
	err = i.db.Model(dbmodels.AtsIntegration{}).
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

func (i impl) GetByVendor(orgID, vendorSlug string) (rec *dbmodels.AtsIntegration, err error) {
	err = i.db.Model(dbmodels.AtsIntegration{}).
		Where("organization_id = ?", orgID).
		Where("vendor_slug = ?", vendorSlug).
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

func (i impl) List(orgID string) (list []dbmodels.AtsIntegration, err error) {
	list = []dbmodels.AtsIntegration{}
	err = i.db.
		Model(dbmodels.AtsIntegration{}).
		Where("organization_id = ?", orgID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListSyncable returns every integration eligible for a background sync run,
// across organizations. Eligibility is owned by IntegrationStatus.IsSyncable.
func (i impl) ListSyncable() (list []dbmodels.AtsIntegration, err error) {
	rows := []dbmodels.AtsIntegration{}
	err = i.db.
		Model(dbmodels.AtsIntegration{}).
		Where("status <> ?", models.IntegrationStatusDisconnected).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	list = []dbmodels.AtsIntegration{}
	for _, rec := range rows {
		if rec.Status.IsSyncable() {
			list = append(list, rec)
		}
	}
	return list, nil
}

// Disconnect is a soft delete: the row is kept for the audit trail but
// the stored credential is revoked with the status change.
func (i impl) Disconnect(orgID, id string) error {
	return i.Update(orgID, id, map[string]interface{}{
		"status":        models.IntegrationStatusDisconnected,
		"account_token": "",
		"updated_at":    time.Now(),
	})
}
