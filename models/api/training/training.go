package trainingapimodels

import (
	"time"

	"github.com/pkg/errors"
)

type AssignRequest struct {
	UserID     string `json:"user_id"`
	ModuleSlug string `json:"module_slug"`
	ModuleName string `json:"module_name"`
}

func (r AssignRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("user is not specified")
	}
	if r.ModuleSlug == "" {
		return errors.New("training module is not specified")
	}
	return nil
}

type AssignmentView struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	UserName      string     `json:"user_name,omitempty"`
	ModuleSlug    string     `json:"module_slug"`
	ModuleName    string     `json:"module_name"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CertificateID *string    `json:"certificate_id,omitempty"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CompleteResponse struct {
	AssignmentID  string `json:"assignment_id"`
	CertificateID string `json:"certificate_id"`
}
