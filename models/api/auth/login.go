package authapimodels

import (
	"net/mail"

	"github.com/pkg/errors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("malformed email address")
	}
	if r.Password == "" {
		return errors.New("password is not specified")
	}
	return nil
}

type RegisterRequest struct {
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
}

func (r RegisterRequest) Validate() error {
	if r.OrganizationName == "" {
		return errors.New("organization name is not specified")
	}
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("malformed email address")
	}
	if len(r.Password) < 8 {
		return errors.New("password is shorter than 8 characters")
	}
	return nil
}
