package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	atsclient "hiring-compliance-backend/lib/ats/client"
	"hiring-compliance-backend/lib/audit"
	integrationstore "hiring-compliance-backend/lib/integration/store"
	orgstore "hiring-compliance-backend/lib/org/store"
	"hiring-compliance-backend/db"
	"hiring-compliance-backend/models"
	atsapimodels "hiring-compliance-backend/models/api/ats"
	integrationapimodels "hiring-compliance-backend/models/api/integration"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	Connect(ctx context.Context, orgID, userID, vendorSlug string) (integrationapimodels.ConnectResponse, error)
	Exchange(ctx context.Context, orgID, userID, publicToken string) (integrationapimodels.View, error)
	Disconnect(ctx context.Context, orgID, userID, id string) error
	List(orgID string) ([]integrationapimodels.View, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		client:           atsclient.Instance,
		integrationStore: integrationstore.NewInstance(db.DB),
		orgStore:         orgstore.NewInstance(db.DB),
		audit:            audit.Instance,
	}
}

type impl struct {
	client           atsclient.Provider
	integrationStore integrationstore.Provider
	orgStore         orgstore.Provider
	audit            audit.Provider
}

// Connect issues a link token for the embedded connect widget.
func (i impl) Connect(ctx context.Context, orgID, userID, vendorSlug string) (integrationapimodels.ConnectResponse, error) {
	org, err := i.orgStore.GetByID(orgID)
	if err != nil {
		return integrationapimodels.ConnectResponse{}, err
	}
	if org == nil {
		return integrationapimodels.ConnectResponse{}, errors.New("organization not found")
	}
	resp, err := i.client.CreateLinkToken(ctx, atsapimodels.CreateLinkTokenRequest{
		EndUserOriginID: orgID,
		VendorSlug:      vendorSlug,
		EndUserEmail:    org.ContactEmail,
		EndUserOrgName:  org.Name,
	})
	if err != nil {
		return integrationapimodels.ConnectResponse{}, errors.Wrap(err, "link token request failed")
	}
	return integrationapimodels.ConnectResponse{LinkToken: resp.LinkToken}, nil
}

// Exchange swaps the widget's public token for a durable account token and
// activates the integration. Reconnecting an existing vendor reuses its row.
func (i impl) Exchange(ctx context.Context, orgID, userID, publicToken string) (integrationapimodels.View, error) {
	resp, err := i.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return integrationapimodels.View{}, errors.Wrap(err, "public token exchange failed")
	}
	id, err := i.integrationStore.Upsert(dbmodels.AtsIntegration{
		OrganizationID: orgID,
		VendorSlug:     resp.VendorSlug,
		VendorName:     resp.VendorName,
		AccountToken:   resp.AccountToken,
		Status:         models.IntegrationStatusActive,
	})
	if err != nil {
		return integrationapimodels.View{}, err
	}

	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: orgID,
		IntegrationID:  &id,
		UserID:         &userID,
		EventType:      models.AuditEventIntegrationConnected,
		Source:         models.AuditSourceManualUpdate,
		Severity:       models.AuditSeverityInfo,
		Description:    fmt.Sprintf("%v integration connected", resp.VendorName),
		OccurredAt:     time.Now(),
	})

	rec, err := i.integrationStore.GetByID(orgID, id)
	if err != nil {
		return integrationapimodels.View{}, err
	}
	if rec == nil {
		return integrationapimodels.View{}, errors.New("integration not found after connect")
	}
	return toView(*rec), nil
}

// Disconnect is soft: the row is kept with its synced data, only the
// credential is revoked.
func (i impl) Disconnect(ctx context.Context, orgID, userID, id string) error {
	logger := log.
		WithField("organization_id", orgID).
		WithField("integration_id", id)

	rec, err := i.integrationStore.GetByID(orgID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New("integration not found")
	}
	if rec.Status == models.IntegrationStatusDisconnected {
		return errors.New("integration is already disconnected")
	}

	if rec.AccountToken != "" {
		if err = i.client.DeleteAccount(ctx, rec.AccountToken); err != nil {
			// remote deletion is best effort, the local revocation is what matters
			logger.WithError(err).Warn("remote account deletion failed")
		}
	}
	if err = i.integrationStore.Disconnect(orgID, id); err != nil {
		return err
	}

	i.audit.Emit(dbmodels.AuditEvent{
		OrganizationID: orgID,
		IntegrationID:  &id,
		UserID:         &userID,
		EventType:      models.AuditEventIntegrationDisconnected,
		Source:         models.AuditSourceManualUpdate,
		Severity:       models.AuditSeverityInfo,
		Description:    fmt.Sprintf("%v integration disconnected", rec.VendorName),
		OccurredAt:     time.Now(),
	})
	return nil
}

func (i impl) List(orgID string) ([]integrationapimodels.View, error) {
	list, err := i.integrationStore.List(orgID)
	if err != nil {
		return nil, err
	}
	views := make([]integrationapimodels.View, 0, len(list))
	for _, rec := range list {
		views = append(views, toView(rec))
	}
	return views, nil
}

func toView(rec dbmodels.AtsIntegration) integrationapimodels.View {
	return integrationapimodels.View{
		ID:          rec.ID,
		VendorSlug:  rec.VendorSlug,
		VendorName:  rec.VendorName,
		Status:      rec.Status,
		StatusName:  rec.Status.ToHuman(),
		LastSyncAt:  rec.LastSyncAt,
		SyncError:   rec.SyncError,
		ConnectedAt: rec.CreatedAt,
	}
}
