package rbac

import (
	"hiring-compliance-backend/models"
)

var (
	AdminRoleSet = []models.UserRole{models.OrgOwnerRole, models.OrgAdminRole}
	AllRoles     = []models.UserRole{models.OrgOwnerRole, models.OrgAdminRole, models.OrgMemberRole}
)

func (i *impl) initRules() {
	i.addUsersRbac()
	i.addIntegrationsRbac()
	i.addCandidatesRbac()
	i.addAuditRbac()
	i.addDocumentsRbac()
	i.addTrainingRbac()
	i.addProfileRbac()
}

func (i *impl) addUsersRbac() {
	//VIEW
	i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/list [get]", nil)
	i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/{id} [get]", nil)
	//MANAGE
	i.RegisterRule(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users [post]", nil)
	i.RegisterRule(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [put]", nil)
	i.RegisterRule(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [delete]", nil)
}

func (i *impl) addIntegrationsRbac() {
	//VIEW
	i.RegisterRule(models.IntegrationsModule, models.ViewPermission, AllRoles, "/api/v1/integrations [get]", nil)
	//MANAGE
	i.RegisterRule(models.IntegrationsModule, models.ManagePermission, AdminRoleSet, "/api/v1/integrations [post]", nil)
	i.RegisterRule(models.IntegrationsModule, models.ManagePermission, AdminRoleSet, "/api/v1/integrations/exchange [post]", nil)
	i.RegisterRule(models.IntegrationsModule, models.ManagePermission, AdminRoleSet, "/api/v1/integrations/{id} [delete]", nil)
	//SYNC
	i.RegisterRule(models.IntegrationsModule, models.SyncPermission, AdminRoleSet, "/api/v1/integrations/{id}/sync [post]", nil)
}

func (i *impl) addCandidatesRbac() {
	//VIEW
	i.RegisterRule(models.CandidatesModule, models.ViewPermission, AllRoles, "/api/v1/candidates/list [post]", nil)
	i.RegisterRule(models.CandidatesModule, models.ViewPermission, AllRoles, "/api/v1/candidates/summary [get]", nil)
	i.RegisterRule(models.CandidatesModule, models.ViewPermission, AllRoles, "/api/v1/candidates/{id} [get]", nil)
	//EDIT
	i.RegisterRule(models.CandidatesModule, models.EditPermission, AdminRoleSet, "/api/v1/candidates/{id}/consent [patch]", nil)
	i.RegisterRule(models.CandidatesModule, models.EditPermission, AdminRoleSet, "/api/v1/candidates/{id}/disclosure [post]", nil)
	//EXPORT
	i.RegisterRule(models.CandidatesModule, models.ExportPermission, AdminRoleSet, "/api/v1/candidates/export [post]", nil)
}

func (i *impl) addAuditRbac() {
	i.RegisterRule(models.AuditModule, models.ViewPermission, AllRoles, "/api/v1/audit/list [post]", nil)
}

func (i *impl) addDocumentsRbac() {
	i.RegisterRule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documents/{id} [get]", nil)
}

func (i *impl) addTrainingRbac() {
	//VIEW
	i.RegisterRule(models.TrainingModule, models.ViewPermission, AllRoles, "/api/v1/training/assignments [get]", nil)
	//MANAGE
	i.RegisterRule(models.TrainingModule, models.ManagePermission, AdminRoleSet, "/api/v1/training/assignments [post]", nil)
	i.RegisterRule(models.TrainingModule, models.ManagePermission, AdminRoleSet, "/api/v1/training/assignments/{id}/token [post]", nil)
}

func (i *impl) addProfileRbac() {
	i.RegisterRule(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/profile [get]", nil)
}
