package models

type UserRole string

const (
	OrgOwnerRole  UserRole = "ORG_OWNER_ROLE"
	OrgAdminRole  UserRole = "ORG_ADMIN_ROLE"
	OrgMemberRole UserRole = "ORG_MEMBER_ROLE"
)

var roleHumanName = map[UserRole]string{
	OrgOwnerRole:  "Owner",
	OrgAdminRole:  "Administrator",
	OrgMemberRole: "Member",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsOrgAdmin() bool {
	return r == OrgOwnerRole || r == OrgAdminRole
}

const SystemUser = "System"
