package org

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	orgusersstore "hiring-compliance-backend/lib/org/users/store"
	authutils "hiring-compliance-backend/lib/utils/auth-utils"
	"hiring-compliance-backend/db"
	"hiring-compliance-backend/models"
	orgapimodels "hiring-compliance-backend/models/api/org"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	CreateUser(orgID string, request orgapimodels.OrgUserData) (id string, err error)
	UpdateUser(orgID, userID string, request orgapimodels.OrgUserData) error
	DeactivateUser(orgID, userID string) error
	GetUser(orgID, userID string) (orgapimodels.OrgUserView, error)
	ListUsers(orgID string) ([]orgapimodels.OrgUserView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		userStore: orgusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	userStore orgusersstore.Provider
}

func (i impl) CreateUser(orgID string, request orgapimodels.OrgUserData) (string, error) {
	logger := log.
		WithField("organization_id", orgID).
		WithField("email", request.Email)

	exist, err := i.userStore.ExistByEmail(request.Email)
	if err != nil {
		logger.WithError(err).Error("existing user lookup failed")
		return "", err
	}
	if exist {
		return "", errors.New("a user with this email already exists")
	}
	passwordHash, err := authutils.HashPassword(request.Password)
	if err != nil {
		logger.WithError(err).Error("password hashing failed")
		return "", err
	}
	id, err := i.userStore.Create(dbmodels.OrgUser{
		OrganizationID: orgID,
		Password:       passwordHash,
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		Email:          request.Email,
		IsActive:       true,
		Role:           models.UserRole(request.Role),
	})
	if err != nil {
		logger.WithError(err).Error("org user creation failed")
		return "", err
	}
	return id, nil
}

func (i impl) UpdateUser(orgID, userID string, request orgapimodels.OrgUserData) error {
	user, err := i.getOrgUser(orgID, userID)
	if err != nil {
		return err
	}
	if user.Role == models.OrgOwnerRole && models.UserRole(request.Role) != models.OrgOwnerRole {
		return errors.New("owner role can not be changed")
	}
	updMap := map[string]interface{}{
		"first_name": request.FirstName,
		"last_name":  request.LastName,
		"email":      request.Email,
		"role":       request.Role,
	}
	if request.Password != "" {
		passwordHash, err := authutils.HashPassword(request.Password)
		if err != nil {
			return err
		}
		updMap["password"] = passwordHash
	}
	return i.userStore.Update(orgID, userID, updMap)
}

func (i impl) DeactivateUser(orgID, userID string) error {
	user, err := i.getOrgUser(orgID, userID)
	if err != nil {
		return err
	}
	if user.Role == models.OrgOwnerRole {
		return errors.New("owner can not be deactivated")
	}
	return i.userStore.Update(orgID, userID, map[string]interface{}{"is_active": false})
}

func (i impl) GetUser(orgID, userID string) (orgapimodels.OrgUserView, error) {
	user, err := i.getOrgUser(orgID, userID)
	if err != nil {
		return orgapimodels.OrgUserView{}, err
	}
	return toView(*user), nil
}

func (i impl) ListUsers(orgID string) ([]orgapimodels.OrgUserView, error) {
	list, err := i.userStore.List(orgID)
	if err != nil {
		return nil, err
	}
	views := make([]orgapimodels.OrgUserView, 0, len(list))
	for _, user := range list {
		views = append(views, toView(user))
	}
	return views, nil
}

func (i impl) getOrgUser(orgID, userID string) (*dbmodels.OrgUser, error) {
	user, err := i.userStore.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.OrganizationID != orgID {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func toView(user dbmodels.OrgUser) orgapimodels.OrgUserView {
	return orgapimodels.OrgUserView{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		RoleName:  user.Role.ToHuman(),
		IsActive:  user.IsActive,
	}
}
