package atsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	atsapimodels "hiring-compliance-backend/models/api/ats"
)

// Provider is the unified ATS connector surface consumed by the sync
// pipeline. Each connected account is addressed by its durable account token.
type Provider interface {
	CreateLinkToken(ctx context.Context, req atsapimodels.CreateLinkTokenRequest) (*atsapimodels.CreateLinkTokenResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*atsapimodels.ExchangeTokenResponse, error)
	ListCandidates(ctx context.Context, accountToken string, params atsapimodels.ListParams) (atsapimodels.CandidateListResponse, error)
	ListApplications(ctx context.Context, accountToken string, params atsapimodels.ListParams) (atsapimodels.ApplicationListResponse, error)
	GetJob(ctx context.Context, accountToken, jobID string) (*atsapimodels.Job, error)
	ListStages(ctx context.Context, accountToken, jobID string) (atsapimodels.StageListResponse, error)
	DeleteAccount(ctx context.Context, accountToken string) error
}

var Instance Provider

type impl struct {
	host   string
	apiKey string
}

func NewProvider(host, apiKey string) {
	Instance = &impl{
		host:   host,
		apiKey: apiKey,
	}
}

const (
	linkTokenPath     string = "/link-token"
	exchangeTokenPath string = "/account-token/%v"
	candidatesPath    string = "/candidates"
	applicationsPath  string = "/applications"
	jobPath           string = "/jobs/%v"
	stagesPath        string = "/interview-stages"
	deleteAccountPath string = "/delete-account"
)

func (i impl) CreateLinkToken(ctx context.Context, req atsapimodels.CreateLinkTokenRequest) (*atsapimodels.CreateLinkTokenResponse, error) {
	uri := i.host + linkTokenPath
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "link token request serialization failed")
	}
	logger := log.
		WithField("external_request", uri)
	r, _ := http.NewRequestWithContext(ctx, "POST", uri, bytes.NewBuffer(body))
	r.Header.Add("Content-Type", "application/json")
	resp := atsapimodels.CreateLinkTokenResponse{}
	err = i.sendRequest(logger, r, &resp, "")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (i impl) ExchangePublicToken(ctx context.Context, publicToken string) (*atsapimodels.ExchangeTokenResponse, error) {
	uri := i.host + fmt.Sprintf(exchangeTokenPath, url.PathEscape(publicToken))
	logger := log.
		WithField("external_request", uri)
	r, _ := http.NewRequestWithContext(ctx, "GET", uri, nil)
	r.Header.Add("Content-Type", "application/json")
	resp := atsapimodels.ExchangeTokenResponse{}
	err := i.sendRequest(logger, r, &resp, "")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (i impl) ListCandidates(ctx context.Context, accountToken string, params atsapimodels.ListParams) (atsapimodels.CandidateListResponse, error) {
	uri := i.host + candidatesPath + listQuery(params)
	logger := log.
		WithField("external_request", uri)
	r, _ := http.NewRequestWithContext(ctx, "GET", uri, nil)
	r.Header.Add("Content-Type", "application/json")
	resp := atsapimodels.CandidateListResponse{}
	err := i.sendRequest(logger, r, &resp, accountToken)
	return resp, err
}

func (i impl) ListApplications(ctx context.Context, accountToken string, params atsapimodels.ListParams) (atsapimodels.ApplicationListResponse, error) {
	uri := i.host + applicationsPath + listQuery(params)
	logger := log.
		WithField("external_request", uri)
	r, _ := http.NewRequestWithContext(ctx, "GET", uri, nil)
	r.Header.Add("Content-Type", "application/json")
	resp := atsapimodels.ApplicationListResponse{}
	err := i.sendRequest(logger, r, &resp, accountToken)
	return resp, err
}

func (i impl) GetJob(ctx context.Context, accountToken, jobID string) (*atsapimodels.Job, error) {
	uri := i.host + fmt.Sprintf(jobPath, url.PathEscape(jobID))
	logger := log.
		WithField("external_request", uri)
	r, _ := http.NewRequestWithContext(ctx, "GET", uri, nil)
	r.Header.Add("Content-Type", "application/json")
	resp := atsapimodels.Job{}
	err := i.sendRequest(logger, r, &resp, accountToken)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (i impl) ListStages(ctx context.Context, accountToken, jobID string) (atsapimodels.StageListResponse, error) {
	uri := i.host + stagesPath + "?job_id=" + url.QueryEscape(jobID)
	logger := log.
		WithField("external_request", uri)
	r, _ := http.NewRequestWithContext(ctx, "GET", uri, nil)
	r.Header.Add("Content-Type", "application/json")
	resp := atsapimodels.StageListResponse{}
	err := i.sendRequest(logger, r, &resp, accountToken)
	return resp, err
}

func (i impl) DeleteAccount(ctx context.Context, accountToken string) error {
	uri := i.host + deleteAccountPath
	logger := log.
		WithField("external_request", uri)
	r, _ := http.NewRequestWithContext(ctx, "POST", uri, nil)
	r.Header.Add("Content-Type", "application/json")
	return i.sendRequest(logger, r, nil, accountToken)
}

func listQuery(params atsapimodels.ListParams) string {
	query := url.Values{}
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}
	if params.PageSize > 0 {
		query.Set("page_size", fmt.Sprintf("%d", params.PageSize))
	}
	if params.ModifiedAfter != nil {
		query.Set("modified_after", params.ModifiedAfter.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if len(query) == 0 {
		return ""
	}
	return "?" + query.Encode()
}

type errorData struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (i impl) sendRequest(logger *log.Entry, r *http.Request, resp interface{}, accountToken string) error {
	r.Header.Add("User-Agent", "ComplianceHub/1.0")
	r.Header.Add("Authorization", fmt.Sprintf("Bearer %v", i.apiKey))
	if accountToken != "" {
		r.Header.Add("X-Account-Token", accountToken)
	}
	client := &http.Client{}
	response, err := client.Do(r)
	if err != nil {
		logger.WithError(err).Error("ats connector request failed")
		return errors.Wrap(err, "ats connector request failed")
	}
	defer response.Body.Close()
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if resp != nil {
			responseBody, _ := io.ReadAll(response.Body)
			err = json.Unmarshal(responseBody, resp)
			if err != nil {
				return errors.Wrap(err, "ats connector response deserialization failed")
			}
		}
		return nil
	}

	errorResp := errorData{}
	responseBody, _ := io.ReadAll(response.Body)
	logger = logger.WithField("response_body", string(responseBody))
	if err = json.Unmarshal(responseBody, &errorResp); err != nil {
		logger.WithError(err).Error("ats connector error deserialization failed")
	}
	logger.Errorf("ats connector request rejected (%v)", response.StatusCode)
	if response.StatusCode == 401 || response.StatusCode == 403 {
		return errors.New("ats account requires reauthorization")
	}
	return errors.Errorf("ats connector rejected the request: %v %v", errorResp.Error, errorResp.Detail)
}
