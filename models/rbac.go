package models

type RbacFunc func(orgID, userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule        Module = "USERS"
	IntegrationsModule Module = "INTEGRATIONS"
	CandidatesModule   Module = "CANDIDATES"
	AuditModule        Module = "AUDIT"
	DocumentsModule    Module = "DOCUMENTS"
	TrainingModule     Module = "TRAINING"
	ProfileModule      Module = "PROFILE"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	ManagePermission Permission = "MANAGE"
	SyncPermission   Permission = "SYNC"
	ExportPermission Permission = "EXPORT"
	TeamPermission   Permission = "TEAM"
)
