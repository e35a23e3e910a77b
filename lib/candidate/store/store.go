package candidatestore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	candidateapimodels "hiring-compliance-backend/models/api/candidate"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Upsert(rec dbmodels.SyncedCandidate) (id string, err error)
	Update(orgID, id string, updMap map[string]interface{}) error
	GetByID(orgID, id string) (rec *dbmodels.SyncedCandidate, err error)
	GetByExternalID(orgID, externalID string) (rec *dbmodels.SyncedCandidate, err error)
	ExternalIDMap(orgID string) (map[string]string, error)
	List(orgID string, filter candidateapimodels.Filter) (list []dbmodels.SyncedCandidate, rowCount int64, err error)
	Summary(orgID string, filter candidateapimodels.Filter) (candidateapimodels.Summary, error)
	ListForExport(orgID string, filter candidateapimodels.Filter) ([]dbmodels.SyncedCandidate, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Upsert writes one synced candidate keyed on (organization, external id).
// A re-sync overwrites the previous row, it never duplicates. Manually
// curated consent fields survive the overwrite.
func (i impl) Upsert(rec dbmodels.SyncedCandidate) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organization_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"integration_id", "email", "first_name", "last_name", "phone",
				"location", "tags", "is_regulated", "regulated_jurisdictions",
				"compliance_flags", "raw_data", "synced_at", "updated_at",
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
			return "", errors.New("candidate row lost after upsert")
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
		Model(&dbmodels.SyncedCandidate{}).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("candidate not found")
	}
	return nil
}

func (i impl) GetByID(orgID, id string) (rec *dbmodels.SyncedCandidate, err error) {
	err = i.db.Model(dbmodels.SyncedCandidate{}).
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

func (i impl) GetByExternalID(orgID, externalID string) (rec *dbmodels.SyncedCandidate, err error) {
	err = i.db.Model(dbmodels.SyncedCandidate{}).
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

// ExternalIDMap builds the external-candidate-id -> internal-id map used to
// resolve application references. It covers only candidates already
// persisted for the organization.
func (i impl) ExternalIDMap(orgID string) (map[string]string, error) {
	type row struct {
		ID         string
		ExternalID string
	}
	rows := []row{}
	err := i.db.Model(dbmodels.SyncedCandidate{}).
		Select("id", "external_id").
		Where("organization_id = ?", orgID).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(rows))
	for _, r := range rows {
		result[r.ExternalID] = r.ID
	}
	return result, nil
}

func (i impl) List(orgID string, filter candidateapimodels.Filter) (list []dbmodels.SyncedCandidate, rowCount int64, err error) {
	list = []dbmodels.SyncedCandidate{}
	tx := i.db.
		Model(dbmodels.SyncedCandidate{}).
		Where("organization_id = ?", orgID)
	addFilter(tx, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	err = tx.
		Order("synced_at desc").
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

// Summary aggregates over the full filtered set, not the current page.
func (i impl) Summary(orgID string, filter candidateapimodels.Filter) (candidateapimodels.Summary, error) {
	summary := candidateapimodels.Summary{
		ByConsentStatus: map[string]int64{},
		ByJurisdiction:  map[string]int64{},
	}
	base := func() *gorm.DB {
		tx := i.db.
			Model(dbmodels.SyncedCandidate{}).
			Where("organization_id = ?", orgID)
		addFilter(tx, filter)
		return tx
	}
	if err := base().Count(&summary.Total).Error; err != nil {
		return summary, err
	}
	if err := base().Where("is_regulated = true").Count(&summary.Regulated).Error; err != nil {
		return summary, err
	}
	type statusCount struct {
		ConsentStatus string
		Count         int64
	}
	statusCounts := []statusCount{}
	err := base().
		Select("consent_status, count(*) as count").
		Group("consent_status").
		Find(&statusCounts).
		Error
	if err != nil {
		return summary, err
	}
	for _, sc := range statusCounts {
		summary.ByConsentStatus[sc.ConsentStatus] = sc.Count
	}
	type jurisdictionCount struct {
		Jurisdiction string
		Count        int64
	}
	jurisdictionCounts := []jurisdictionCount{}
	err = base().
		Select("unnest(regulated_jurisdictions) as jurisdiction, count(*) as count").
		Group("jurisdiction").
		Find(&jurisdictionCounts).
		Error
	if err != nil {
		return summary, err
	}
	for _, jc := range jurisdictionCounts {
		summary.ByJurisdiction[jc.Jurisdiction] = jc.Count
	}
	return summary, nil
}

func (i impl) ListForExport(orgID string, filter candidateapimodels.Filter) (list []dbmodels.SyncedCandidate, err error) {
	list = []dbmodels.SyncedCandidate{}
	tx := i.db.
		Model(dbmodels.SyncedCandidate{}).
		Where("organization_id = ?", orgID)
	addFilter(tx, filter)
	err = tx.Order("synced_at desc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func addFilter(tx *gorm.DB, filter candidateapimodels.Filter) {
	if filter.Regulated != nil {
		tx.Where("is_regulated = ?", *filter.Regulated)
	}
	if filter.ConsentStatus != "" {
		tx.Where("consent_status = ?", filter.ConsentStatus)
	}
	if filter.Jurisdiction != "" {
		tx.Where("? = ANY(regulated_jurisdictions)", filter.Jurisdiction)
	}
	if filter.IntegrationID != "" {
		tx.Where("integration_id = ?", filter.IntegrationID)
	}
	if filter.Search != "" {
		searchValue := "%" + strings.ToLower(filter.Search) + "%"
		tx.Where("LOWER(CONCAT(first_name,' ',last_name)) like ? or LOWER(email) like ? or phone like ?",
			searchValue, searchValue, searchValue)
	}
}
