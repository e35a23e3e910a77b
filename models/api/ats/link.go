package atsapimodels

// Link-token flow: the connector issues a short-lived link token for the
// embedded connect widget, then exchanges the public token returned by the
// widget for a durable account token.

type CreateLinkTokenRequest struct {
	EndUserOriginID string `json:"end_user_origin_id"` // our organization id
	VendorSlug      string `json:"integration"`
	EndUserEmail    string `json:"end_user_email_address"`
	EndUserOrgName  string `json:"end_user_organization_name"`
}

type CreateLinkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type ExchangeTokenResponse struct {
	AccountToken string `json:"account_token"`
	VendorSlug   string `json:"integration_slug"`
	VendorName   string `json:"integration_name"`
}
