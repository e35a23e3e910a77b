package orgapimodels

import (
	"net/mail"

	"github.com/pkg/errors"
	"hiring-compliance-backend/models"
)

type OrgUserData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (r OrgUserData) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("malformed email address")
	}
	if len(r.Password) < 8 {
		return errors.New("password is shorter than 8 characters")
	}
	switch models.UserRole(r.Role) {
	case models.OrgAdminRole, models.OrgMemberRole:
		return nil
	case models.OrgOwnerRole:
		return errors.New("owner role can not be assigned")
	}
	return errors.Errorf("unknown role (%v)", r.Role)
}

type OrgUserView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	RoleName  string `json:"role_name"`
	IsActive  bool   `json:"is_active"`
}
