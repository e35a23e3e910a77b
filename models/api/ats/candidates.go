package atsapimodels

import (
	"encoding/json"
	"time"
)

// Vendor payloads come through the unified connector with most fields
// optional. Unknown shapes are rejected or defaulted at the mapping
// boundary, never stored as-is into typed columns.

type ListParams struct {
	Cursor        string
	PageSize      int
	ModifiedAfter *time.Time
}

type CandidateListResponse struct {
	Results []Candidate `json:"results"`
	Next    *string     `json:"next"` // opaque cursor, nil on the last page
}

type Candidate struct {
	ID            string         `json:"id"`
	FirstName     *string        `json:"first_name"`
	LastName      *string        `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	PhoneNumbers  []PhoneNumber  `json:"phone_numbers"`
	Locations     []string       `json:"locations"`
	Tags          []string       `json:"tags"`
	RemoteCreated *time.Time     `json:"remote_created_at"`
	RemoteUpdated *time.Time     `json:"remote_updated_at"`
	Raw           map[string]any `json:"-"`
}

// UnmarshalJSON captures the complete source object into Raw next to the
// typed fields, so the stored record keeps the vendor payload verbatim.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	type candidateAlias Candidate
	var parsed candidateAlias
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &parsed.Raw); err != nil {
		return err
	}
	*c = Candidate(parsed)
	return nil
}

type EmailAddress struct {
	Value *string `json:"value"`
	Type  *string `json:"email_address_type"`
}

type PhoneNumber struct {
	Value *string `json:"value"`
	Type  *string `json:"phone_number_type"`
}

// PrimaryEmail returns the first non-empty address, personal preferred.
func (c Candidate) PrimaryEmail() *string {
	var fallback *string
	for i := range c.EmailAddresses {
		addr := c.EmailAddresses[i]
		if addr.Value == nil || *addr.Value == "" {
			continue
		}
		if addr.Type != nil && *addr.Type == "PERSONAL" {
			return addr.Value
		}
		if fallback == nil {
			fallback = addr.Value
		}
	}
	return fallback
}

func (c Candidate) PrimaryPhone() *string {
	for i := range c.PhoneNumbers {
		if c.PhoneNumbers[i].Value != nil && *c.PhoneNumbers[i].Value != "" {
			return c.PhoneNumbers[i].Value
		}
	}
	return nil
}

func (c Candidate) PrimaryLocation() *string {
	for i := range c.Locations {
		if c.Locations[i] != "" {
			return &c.Locations[i]
		}
	}
	return nil
}
