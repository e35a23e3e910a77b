package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	orgstore "hiring-compliance-backend/lib/org/store"
	orgusersstore "hiring-compliance-backend/lib/org/users/store"
	authutils "hiring-compliance-backend/lib/utils/auth-utils"
	"hiring-compliance-backend/db"
	"hiring-compliance-backend/models"
	authapimodels "hiring-compliance-backend/models/api/auth"
	orgapimodels "hiring-compliance-backend/models/api/org"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Register(request authapimodels.RegisterRequest) (authapimodels.JWTResponse, error)
	Login(email, password string) (authapimodels.JWTResponse, error)
	RefreshToken(refreshToken string) (authapimodels.JWTResponse, error)
	Me(ctx *fiber.Ctx) (orgapimodels.OrgUserView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		orgStore:  orgstore.NewInstance(db.DB),
		userStore: orgusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	orgStore  orgstore.Provider
	userStore orgusersstore.Provider
}

// Register creates the organization together with its owner account.
func (i impl) Register(request authapimodels.RegisterRequest) (authapimodels.JWTResponse, error) {
	logger := log.WithField("email", request.Email)

	exist, err := i.userStore.ExistByEmail(request.Email)
	if err != nil {
		logger.WithError(err).Error("existing user lookup failed")
		return authapimodels.JWTResponse{}, err
	}
	if exist {
		return authapimodels.JWTResponse{}, errors.New("a user with this email already exists")
	}

	passwordHash, err := authutils.HashPassword(request.Password)
	if err != nil {
		logger.WithError(err).Error("password hashing failed")
		return authapimodels.JWTResponse{}, err
	}

	var owner dbmodels.OrgUser
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		orgID, err := orgstore.NewInstance(tx).Create(dbmodels.Organization{
			Name:         request.OrganizationName,
			ContactEmail: request.Email,
			IsActive:     true,
		})
		if err != nil {
			return err
		}
		owner = dbmodels.OrgUser{
			OrganizationID: orgID,
			Password:       passwordHash,
			FirstName:      request.FirstName,
			LastName:       request.LastName,
			Email:          request.Email,
			IsActive:       true,
			Role:           models.OrgOwnerRole,
		}
		ownerID, err := orgusersstore.NewInstance(tx).Create(owner)
		if err != nil {
			return err
		}
		owner.ID = ownerID
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("organization registration failed")
		return authapimodels.JWTResponse{}, err
	}
	return i.issueTokens(owner)
}

func (i impl) Login(email, password string) (authapimodels.JWTResponse, error) {
	logger := log.WithField("email", email)
	user, err := i.userStore.GetByEmail(email)
	if err != nil {
		logger.WithError(err).Error("user lookup failed")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil {
		logger.Debug("no user with this email")
		return authapimodels.JWTResponse{}, errors.New("wrong email or password")
	}
	if !user.IsActive {
		return authapimodels.JWTResponse{}, errors.New("account is deactivated")
	}
	if !authutils.CheckPassword(user.Password, password) {
		logger.Debug("password check failed")
		return authapimodels.JWTResponse{}, errors.New("wrong email or password")
	}

	if err = i.userStore.Update(user.OrganizationID, user.ID, map[string]interface{}{"last_login": time.Now()}); err != nil {
		logger.WithError(err).Error("last login update failed")
	}
	return i.issueTokens(*user)
}

func (i impl) RefreshToken(refreshToken string) (authapimodels.JWTResponse, error) {
	claims, err := authutils.ParseToken(refreshToken)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "invalid refresh token")
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return authapimodels.JWTResponse{}, errors.New("invalid refresh token")
	}
	user, err := i.userStore.GetByID(userID)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !user.IsActive {
		return authapimodels.JWTResponse{}, errors.New("account is not available")
	}
	return i.issueTokens(*user)
}

func (i impl) Me(ctx *fiber.Ctx) (orgapimodels.OrgUserView, error) {
	claims := authutils.GetClaims(ctx)
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return orgapimodels.OrgUserView{}, errors.New("no user in token")
	}
	user, err := i.userStore.GetByID(userID)
	if err != nil {
		return orgapimodels.OrgUserView{}, err
	}
	if user == nil {
		return orgapimodels.OrgUserView{}, errors.New("user not found")
	}
	return orgapimodels.OrgUserView{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		RoleName:  user.Role.ToHuman(),
		IsActive:  user.IsActive,
	}, nil
}

func (i impl) issueTokens(user dbmodels.OrgUser) (authapimodels.JWTResponse, error) {
	token, err := authutils.GetToken(user.ID, user.GetFullName(), user.OrganizationID, user.Role)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	refresh, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refresh,
	}, nil
}
