package models

type AuditEventType string

const (
	AuditEventCandidateSynced         AuditEventType = "candidate_synced"
	AuditEventApplicationSynced       AuditEventType = "application_synced"
	AuditEventSyncCompleted           AuditEventType = "sync_completed"
	AuditEventConsentUpdated          AuditEventType = "consent_updated"
	AuditEventDisclosureSent          AuditEventType = "disclosure_sent"
	AuditEventIntegrationConnected    AuditEventType = "integration_connected"
	AuditEventIntegrationDisconnected AuditEventType = "integration_disconnected"
	AuditEventDocumentGenerated       AuditEventType = "document_generated"
	AuditEventCertificateIssued       AuditEventType = "certificate_issued"
)

type AuditSource string

const (
	AuditSourceAtsSync      AuditSource = "ats_sync"
	AuditSourceManualSync   AuditSource = "manual_sync"
	AuditSourceManualUpdate AuditSource = "manual_update"
	AuditSourceSystem       AuditSource = "system"
)

type AuditSeverity string

const (
	AuditSeverityInfo    AuditSeverity = "info"
	AuditSeverityWarning AuditSeverity = "warning"
	AuditSeverityError   AuditSeverity = "error"
)
