package training

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hiring-compliance-backend/lib/docgen"
	orgusersstore "hiring-compliance-backend/lib/org/users/store"
	trainingstore "hiring-compliance-backend/lib/training/store"
	"hiring-compliance-backend/db"
	trainingapimodels "hiring-compliance-backend/models/api/training"
	dbmodels "hiring-compliance-backend/models/db"
)

const tokenTTL = 72 * time.Hour

type Provider interface {
	Assign(orgID string, request trainingapimodels.AssignRequest) (id string, err error)
	ListAssignments(orgID string) ([]trainingapimodels.AssignmentView, error)
	IssueToken(orgID, assignmentID string) (trainingapimodels.TokenResponse, error)
	Complete(ctx context.Context, token string) (trainingapimodels.CompleteResponse, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     trainingstore.NewInstance(db.DB),
		userStore: orgusersstore.NewInstance(db.DB),
		docgen:    docgen.Instance,
	}
}

type impl struct {
	store     trainingstore.Provider
	userStore orgusersstore.Provider
	docgen    docgen.Provider
}

func (i impl) Assign(orgID string, request trainingapimodels.AssignRequest) (string, error) {
	user, err := i.userStore.GetByID(request.UserID)
	if err != nil {
		return "", err
	}
	if user == nil || user.OrganizationID != orgID {
		return "", errors.New("user not found")
	}
	moduleName := request.ModuleName
	if moduleName == "" {
		moduleName = request.ModuleSlug
	}
	return i.store.CreateAssignment(dbmodels.TrainingAssignment{
		BaseOrgModel: dbmodels.BaseOrgModel{OrganizationID: orgID},
		UserID:       request.UserID,
		ModuleSlug:   request.ModuleSlug,
		ModuleName:   moduleName,
		Status:       dbmodels.TrainingStatusAssigned,
	})
}

func (i impl) ListAssignments(orgID string) ([]trainingapimodels.AssignmentView, error) {
	list, err := i.store.ListAssignments(orgID)
	if err != nil {
		return nil, err
	}
	views := make([]trainingapimodels.AssignmentView, 0, len(list))
	for _, rec := range list {
		view := trainingapimodels.AssignmentView{
			ID:            rec.ID,
			UserID:        rec.UserID,
			ModuleSlug:    rec.ModuleSlug,
			ModuleName:    rec.ModuleName,
			Status:        string(rec.Status),
			CompletedAt:   rec.CompletedAt,
			CertificateID: rec.CertificateID,
		}
		if rec.User != nil {
			view.UserName = rec.User.GetFullName()
		}
		views = append(views, view)
	}
	return views, nil
}

// IssueToken grants single-use access to one assignment without a session,
// so the training link can be opened from an email.
func (i impl) IssueToken(orgID, assignmentID string) (trainingapimodels.TokenResponse, error) {
	assignment, err := i.store.GetAssignment(orgID, assignmentID)
	if err != nil {
		return trainingapimodels.TokenResponse{}, err
	}
	if assignment == nil {
		return trainingapimodels.TokenResponse{}, errors.New("assignment not found")
	}
	if assignment.Status == dbmodels.TrainingStatusCompleted {
		return trainingapimodels.TokenResponse{}, errors.New("assignment is already completed")
	}

	token, err := generateToken()
	if err != nil {
		return trainingapimodels.TokenResponse{}, err
	}
	expiresAt := time.Now().Add(tokenTTL)
	_, err = i.store.CreateToken(dbmodels.MagicToken{
		BaseOrgModel: dbmodels.BaseOrgModel{OrganizationID: orgID},
		Token:        token,
		AssignmentID: assignmentID,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return trainingapimodels.TokenResponse{}, err
	}
	return trainingapimodels.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Complete redeems a magic token, marks the assignment done and issues the
// completion certificate.
func (i impl) Complete(ctx context.Context, token string) (trainingapimodels.CompleteResponse, error) {
	rec, err := i.store.GetToken(token)
	if err != nil {
		return trainingapimodels.CompleteResponse{}, err
	}
	if rec == nil || !rec.IsUsable(time.Now()) {
		return trainingapimodels.CompleteResponse{}, errors.New("token is invalid or expired")
	}
	if err = i.store.ConsumeToken(rec.ID); err != nil {
		return trainingapimodels.CompleteResponse{}, err
	}

	assignment, err := i.store.GetAssignment(rec.OrganizationID, rec.AssignmentID)
	if err != nil {
		return trainingapimodels.CompleteResponse{}, err
	}
	if assignment == nil {
		return trainingapimodels.CompleteResponse{}, errors.New("assignment not found")
	}
	if assignment.Status == dbmodels.TrainingStatusCompleted {
		return trainingapimodels.CompleteResponse{}, errors.New("assignment is already completed")
	}

	now := time.Now()
	assignment.CompletedAt = &now
	if user, err := i.userStore.GetByID(assignment.UserID); err == nil && user != nil {
		assignment.User = user
	}
	certificateID, err := i.docgen.IssueCertificate(ctx, rec.OrganizationID, *assignment)
	if err != nil {
		log.
			WithField("assignment_id", assignment.ID).
			WithError(err).
			Error("certificate issuance failed")
		return trainingapimodels.CompleteResponse{}, err
	}
	if err = i.store.CompleteAssignment(rec.OrganizationID, assignment.ID, certificateID); err != nil {
		return trainingapimodels.CompleteResponse{}, err
	}
	return trainingapimodels.CompleteResponse{
		AssignmentID:  assignment.ID,
		CertificateID: certificateID,
	}, nil
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
