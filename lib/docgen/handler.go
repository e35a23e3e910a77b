package docgen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hiring-compliance-backend/lib/audit"
	candidatestore "hiring-compliance-backend/lib/candidate/store"
	"hiring-compliance-backend/lib/compliance"
	documentstore "hiring-compliance-backend/lib/document/store"
	pdfexport "hiring-compliance-backend/lib/export/pdf"
	filestorage "hiring-compliance-backend/lib/file-storage"
	"hiring-compliance-backend/lib/smtp"
	orgstore "hiring-compliance-backend/lib/org/store"
	"hiring-compliance-backend/db"
	"hiring-compliance-backend/models"
	dbmodels "hiring-compliance-backend/models/db"
)

// Provider renders compliance documents, persists them to object storage
// and keeps their metadata rows.
type Provider interface {
	SendDisclosure(ctx context.Context, orgID, candidateID, userID string, sendEmail bool) (docID string, err error)
	IssueCertificate(ctx context.Context, orgID string, assignment dbmodels.TrainingAssignment) (docID string, err error)
	StoreExport(ctx context.Context, orgID, userID string, data []byte) (docID string, err error)
	GetDocument(ctx context.Context, orgID, id string) (*dbmodels.ComplianceDocument, []byte, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		orgStore:       orgstore.NewInstance(db.DB),
		candidateStore: candidatestore.NewInstance(db.DB),
		documentStore:  documentstore.NewInstance(db.DB),
		storage:        filestorage.Instance,
		audit:          audit.Instance,
	}
}

type impl struct {
	orgStore       orgstore.Provider
	candidateStore candidatestore.Provider
	documentStore  documentstore.Provider
	storage        filestorage.Provider
	audit          audit.Provider
}

func (i impl) SendDisclosure(ctx context.Context, orgID, candidateID, userID string, sendEmail bool) (string, error) {
	logger := log.
		WithField("organization_id", orgID).
		WithField("candidate_id", candidateID)

	org, err := i.orgStore.GetByID(orgID)
	if err != nil {
		return "", err
	}
	if org == nil {
		return "", errors.New("organization not found")
	}
	candidate, err := i.candidateStore.GetByID(orgID, candidateID)
	if err != nil {
		return "", err
	}
	if candidate == nil {
		return "", errors.New("candidate not found")
	}

	now := time.Now()
	labels := make([]string, 0, len(candidate.RegulatedJurisdictions))
	for _, code := range candidate.RegulatedJurisdictions {
		labels = append(labels, compliance.JurisdictionLabel(models.RegulationCode(code)))
	}
	pdfFile, err := pdfexport.GenerateDisclosureNotice(pdfexport.DisclosureData{
		OrganizationName: org.Name,
		CandidateName:    candidate.GetFullName(),
		Jurisdictions:    labels,
		GeneratedAt:      now,
	})
	if err != nil {
		return "", errors.Wrap(err, "disclosure notice generation failed")
	}

	docID, err := i.storeDocument(ctx, dbmodels.ComplianceDocument{
		BaseOrgModel: dbmodels.BaseOrgModel{OrganizationID: orgID},
		Kind:         dbmodels.DocumentKindDisclosureNotice,
		Title:        fmt.Sprintf("AI disclosure notice for %v", candidate.GetFullName()),
		CandidateID:  &candidateID,
		UserID:       &userID,
		ContentType:  "application/pdf",
		GeneratedAt:  now,
	}, pdfFile)
	if err != nil {
		return "", err
	}

	if sendEmail {
		if candidate.Email == nil || *candidate.Email == "" {
			return docID, errors.New("candidate has no email address")
		}
		subject := fmt.Sprintf("%v: AI hiring tool disclosure", org.Name)
		message := fmt.Sprintf("Dear %v,\n\n%v may use automated employment decision tools to evaluate your candidacy. "+
			"A formal disclosure notice has been prepared for you. Please contact %v for a copy or with any questions.",
			candidate.GetFullName(), org.Name, org.ContactEmail)
		if err = smtp.Instance.SendEMail(*candidate.Email, subject, message); err != nil {
			return docID, errors.Wrap(err, "disclosure email send failed")
		}
	}

	updMap := map[string]interface{}{
		"disclosure_sent_at": &now,
	}
	if err = i.candidateStore.Update(orgID, candidateID, updMap); err != nil {
		logger.WithError(err).Error("disclosure timestamp update failed")
	}

	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: orgID,
		CandidateID:    &candidateID,
		UserID:         &userID,
		EventType:      models.AuditEventDisclosureSent,
		Source:         models.AuditSourceManualUpdate,
		Severity:       models.AuditSeverityInfo,
		Description:    fmt.Sprintf("disclosure notice sent to %v", candidate.GetFullName()),
		Metadata: dbmodels.JSONMap{
			"document_id": docID,
			"emailed":     sendEmail,
		},
		OccurredAt: now,
	})
	return docID, nil
}

func (i impl) IssueCertificate(ctx context.Context, orgID string, assignment dbmodels.TrainingAssignment) (string, error) {
	org, err := i.orgStore.GetByID(orgID)
	if err != nil {
		return "", err
	}
	if org == nil {
		return "", errors.New("organization not found")
	}
	userName := ""
	if assignment.User != nil {
		userName = assignment.User.GetFullName()
	}

	now := time.Now()
	completedAt := now
	if assignment.CompletedAt != nil {
		completedAt = *assignment.CompletedAt
	}
	pdfFile, err := pdfexport.GenerateTrainingCertificate(pdfexport.CertificateData{
		OrganizationName: org.Name,
		UserName:         userName,
		ModuleName:       assignment.ModuleName,
		CompletedAt:      completedAt,
	})
	if err != nil {
		return "", errors.Wrap(err, "certificate generation failed")
	}

	docID, err := i.storeDocument(ctx, dbmodels.ComplianceDocument{
		BaseOrgModel: dbmodels.BaseOrgModel{OrganizationID: orgID},
		Kind:         dbmodels.DocumentKindTrainingCertificate,
		Title:        fmt.Sprintf("%v completion certificate", assignment.ModuleName),
		UserID:       &assignment.UserID,
		ContentType:  "application/pdf",
		GeneratedAt:  now,
	}, pdfFile)
	if err != nil {
		return "", err
	}

	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: orgID,
		UserID:         &assignment.UserID,
		EventType:      models.AuditEventCertificateIssued,
		Source:         models.AuditSourceSystem,
		Severity:       models.AuditSeverityInfo,
		Description:    fmt.Sprintf("training certificate issued for %v", assignment.ModuleName),
		Metadata: dbmodels.JSONMap{
			"document_id": docID,
			"module_slug": assignment.ModuleSlug,
		},
		OccurredAt: now,
	})
	return docID, nil
}

func (i impl) StoreExport(ctx context.Context, orgID, userID string, data []byte) (string, error) {
	now := time.Now()
	docID, err := i.storeDocument(ctx, dbmodels.ComplianceDocument{
		BaseOrgModel: dbmodels.BaseOrgModel{OrganizationID: orgID},
		Kind:         dbmodels.DocumentKindCandidateExport,
		Title:        fmt.Sprintf("Candidate compliance export %v", now.Format("2006-01-02")),
		UserID:       &userID,
		ContentType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		GeneratedAt:  now,
	}, data)
	if err != nil {
		return "", err
	}
	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: orgID,
		UserID:         &userID,
		EventType:      models.AuditEventDocumentGenerated,
		Source:         models.AuditSourceManualUpdate,
		Severity:       models.AuditSeverityInfo,
		Description:    "candidate compliance export generated",
		Metadata: dbmodels.JSONMap{
			"document_id": docID,
		},
		OccurredAt: now,
	})
	return docID, nil
}

func (i impl) GetDocument(ctx context.Context, orgID, id string) (*dbmodels.ComplianceDocument, []byte, error) {
	doc, err := i.documentStore.GetByID(orgID, id)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, errors.New("document not found")
	}
	data, err := i.storage.Download(ctx, orgID, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

func (i impl) storeDocument(ctx context.Context, rec dbmodels.ComplianceDocument, data []byte) (string, error) {
	ext := "pdf"
	if rec.Kind == dbmodels.DocumentKindCandidateExport {
		ext = "xlsx"
	}
	rec.StorageKey = fmt.Sprintf("%v/%v.%v", rec.Kind, uuid.NewString(), ext)
	rec.SizeBytes = int64(len(data))
	if err := i.storage.Upload(ctx, rec.OrganizationID, rec.StorageKey, data, rec.ContentType); err != nil {
		return "", err
	}
	return i.documentStore.Create(rec)
}
