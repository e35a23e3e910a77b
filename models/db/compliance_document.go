package dbmodels

import "time"

type DocumentKind string

const (
	DocumentKindDisclosureNotice    DocumentKind = "disclosure_notice"
	DocumentKindTrainingCertificate DocumentKind = "training_certificate"
	DocumentKindCandidateExport     DocumentKind = "candidate_export"
)

// ComplianceDocument is metadata for a generated file stored in object storage.
type ComplianceDocument struct {
	BaseOrgModel
	Kind        DocumentKind `gorm:"type:varchar(50);index"`
	Title       string       `gorm:"type:varchar(512)"`
	CandidateID *string      `gorm:"type:varchar(36);index"`
	UserID      *string      `gorm:"type:varchar(36)"`
	StorageKey  string       `gorm:"type:varchar(512)"`
	ContentType string       `gorm:"type:varchar(100)"`
	SizeBytes   int64
	GeneratedAt time.Time
}
