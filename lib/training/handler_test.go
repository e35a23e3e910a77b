package training

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"hiring-compliance-backend/models"
	trainingapimodels "hiring-compliance-backend/models/api/training"
	dbmodels "hiring-compliance-backend/models/db"
)

type fakeTrainingStore struct {
	assignments map[string]*dbmodels.TrainingAssignment
	tokens      map[string]*dbmodels.MagicToken
	nextID      int
}

func newFakeTrainingStore() *fakeTrainingStore {
	return &fakeTrainingStore{
		assignments: map[string]*dbmodels.TrainingAssignment{},
		tokens:      map[string]*dbmodels.MagicToken{},
	}
}

func (f *fakeTrainingStore) CreateAssignment(rec dbmodels.TrainingAssignment) (string, error) {
	f.nextID++
	rec.ID = fmt.Sprintf("assignment-%d", f.nextID)
	f.assignments[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeTrainingStore) GetAssignment(orgID, id string) (*dbmodels.TrainingAssignment, error) {
	rec, found := f.assignments[id]
	if !found || rec.OrganizationID != orgID {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeTrainingStore) ListAssignments(orgID string) ([]dbmodels.TrainingAssignment, error) {
	list := []dbmodels.TrainingAssignment{}
	for _, rec := range f.assignments {
		if rec.OrganizationID == orgID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeTrainingStore) CompleteAssignment(orgID, id, certificateID string) error {
	rec, found := f.assignments[id]
	if !found || rec.OrganizationID != orgID {
		return errors.New("assignment not found")
	}
	now := time.Now()
	rec.Status = dbmodels.TrainingStatusCompleted
	rec.CompletedAt = &now
	rec.CertificateID = &certificateID
	return nil
}

func (f *fakeTrainingStore) CreateToken(rec dbmodels.MagicToken) (string, error) {
	f.nextID++
	rec.ID = fmt.Sprintf("token-%d", f.nextID)
	f.tokens[rec.Token] = &rec
	return rec.ID, nil
}

func (f *fakeTrainingStore) GetToken(token string) (*dbmodels.MagicToken, error) {
	rec, found := f.tokens[token]
	if !found {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeTrainingStore) ConsumeToken(id string) error {
	for _, rec := range f.tokens {
		if rec.ID == id {
			if rec.UsedAt != nil {
				return errors.New("token already used")
			}
			now := time.Now()
			rec.UsedAt = &now
			return nil
		}
	}
	return errors.New("token already used")
}

type fakeUserStore struct {
	users map[string]*dbmodels.OrgUser
}

func (f *fakeUserStore) Create(rec dbmodels.OrgUser) (string, error) { return "", nil }
func (f *fakeUserStore) Update(orgID, id string, updMap map[string]interface{}) error {
	return nil
}
func (f *fakeUserStore) GetByID(id string) (*dbmodels.OrgUser, error) {
	return f.users[id], nil
}
func (f *fakeUserStore) GetByEmail(email string) (*dbmodels.OrgUser, error) { return nil, nil }
func (f *fakeUserStore) ExistByEmail(email string) (bool, error)            { return false, nil }
func (f *fakeUserStore) List(orgID string) ([]dbmodels.OrgUser, error)      { return nil, nil }

type fakeDocgen struct {
	issued int
}

func (f *fakeDocgen) SendDisclosure(ctx context.Context, orgID, candidateID, userID string, sendEmail bool) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeDocgen) IssueCertificate(ctx context.Context, orgID string, assignment dbmodels.TrainingAssignment) (string, error) {
	f.issued++
	return "cert-1", nil
}

func (f *fakeDocgen) StoreExport(ctx context.Context, orgID, userID string, data []byte) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeDocgen) GetDocument(ctx context.Context, orgID, id string) (*dbmodels.ComplianceDocument, []byte, error) {
	return nil, nil, errors.New("not implemented")
}

func getInstance() (impl, *fakeTrainingStore, *fakeDocgen) {
	store := newFakeTrainingStore()
	docs := &fakeDocgen{}
	users := &fakeUserStore{users: map[string]*dbmodels.OrgUser{
		"user-1": {
			BaseModel:      dbmodels.BaseModel{ID: "user-1"},
			OrganizationID: "org-1",
			FirstName:      "Dana",
			LastName:       "Kim",
			Role:           models.OrgMemberRole,
		},
	}}
	return impl{store: store, userStore: users, docgen: docs}, store, docs
}

func TestAssign(t *testing.T) {
	t.Run(`assignment created check`, func(t *testing.T) {
		i, store, _ := getInstance()
		id, err := i.Assign("org-1", trainingapimodels.AssignRequest{
			UserID:     "user-1",
			ModuleSlug: "ai-hiring-basics",
			ModuleName: "AI Hiring Basics",
		})
		require.Nil(t, err)
		require.Equal(t, dbmodels.TrainingStatusAssigned, store.assignments[id].Status)
	})

	t.Run(`unknown user check`, func(t *testing.T) {
		i, _, _ := getInstance()
		_, err := i.Assign("org-1", trainingapimodels.AssignRequest{
			UserID:     "user-unknown",
			ModuleSlug: "ai-hiring-basics",
		})
		require.NotNil(t, err)
	})

	t.Run(`foreign organization check`, func(t *testing.T) {
		i, _, _ := getInstance()
		_, err := i.Assign("org-2", trainingapimodels.AssignRequest{
			UserID:     "user-1",
			ModuleSlug: "ai-hiring-basics",
		})
		require.NotNil(t, err)
	})
}

func TestMagicToken(t *testing.T) {
	t.Run(`single use check`, func(t *testing.T) {
		i, _, docs := getInstance()
		assignmentID, err := i.Assign("org-1", trainingapimodels.AssignRequest{
			UserID:     "user-1",
			ModuleSlug: "ai-hiring-basics",
			ModuleName: "AI Hiring Basics",
		})
		require.Nil(t, err)

		tokenResp, err := i.IssueToken("org-1", assignmentID)
		require.Nil(t, err)
		require.Len(t, tokenResp.Token, 64)

		resp, err := i.Complete(context.Background(), tokenResp.Token)
		require.Nil(t, err)
		require.Equal(t, assignmentID, resp.AssignmentID)
		require.Equal(t, "cert-1", resp.CertificateID)
		require.Equal(t, 1, docs.issued)

		_, err = i.Complete(context.Background(), tokenResp.Token)
		require.NotNil(t, err)
		require.Equal(t, 1, docs.issued)
	})

	t.Run(`expired token check`, func(t *testing.T) {
		i, store, _ := getInstance()
		assignmentID, err := i.Assign("org-1", trainingapimodels.AssignRequest{
			UserID:     "user-1",
			ModuleSlug: "ai-hiring-basics",
		})
		require.Nil(t, err)

		tokenResp, err := i.IssueToken("org-1", assignmentID)
		require.Nil(t, err)
		store.tokens[tokenResp.Token].ExpiresAt = time.Now().Add(-time.Minute)

		_, err = i.Complete(context.Background(), tokenResp.Token)
		require.NotNil(t, err)
	})

	t.Run(`completed assignment issues no token check`, func(t *testing.T) {
		i, store, _ := getInstance()
		assignmentID, err := i.Assign("org-1", trainingapimodels.AssignRequest{
			UserID:     "user-1",
			ModuleSlug: "ai-hiring-basics",
		})
		require.Nil(t, err)
		require.Nil(t, store.CompleteAssignment("org-1", assignmentID, "cert-0"))

		_, err = i.IssueToken("org-1", assignmentID)
		require.NotNil(t, err)
	})
}

func TestUnknownToken(t *testing.T) {
	i, _, _ := getInstance()
	_, err := i.Complete(context.Background(), "no-such-token")
	require.NotNil(t, err)
}
