package integrationapimodels

import (
	"time"

	"github.com/pkg/errors"
	"hiring-compliance-backend/models"
)

type ConnectRequest struct {
	VendorSlug string `json:"vendor_slug"`
}

func (r ConnectRequest) Validate() error {
	if r.VendorSlug == "" {
		return errors.New("ats vendor is not specified")
	}
	return nil
}

type ConnectResponse struct {
	LinkToken string `json:"link_token"`
}

type ExchangeRequest struct {
	PublicToken string `json:"public_token"`
}

func (r ExchangeRequest) Validate() error {
	if r.PublicToken == "" {
		return errors.New("public token is not specified")
	}
	return nil
}

type View struct {
	ID          string                   `json:"id"`
	VendorSlug  string                   `json:"vendor_slug"`
	VendorName  string                   `json:"vendor_name"`
	Status      models.IntegrationStatus `json:"status"`
	StatusName  string                   `json:"status_name"`
	LastSyncAt  *time.Time               `json:"last_sync_at"`
	SyncError   string                   `json:"sync_error,omitempty"`
	ConnectedAt time.Time                `json:"connected_at"`
}
