package atsapimodels

import (
	"encoding/json"
	"time"
)

type ApplicationListResponse struct {
	Results []Application `json:"results"`
	Next    *string       `json:"next"`
}

type Application struct {
	ID           string         `json:"id"`
	CandidateID  *string        `json:"candidate"` // external candidate id
	JobID        *string        `json:"job"`
	CurrentStage *string        `json:"current_stage"` // external stage id
	AppliedAt    *time.Time     `json:"applied_at"`
	RejectedAt   *time.Time     `json:"rejected_at"`
	Source       *string        `json:"source"`
	Raw          map[string]any `json:"-"`
}

// UnmarshalJSON captures the complete source object into Raw next to the
// typed fields, so the stored record keeps the vendor payload verbatim.
func (a *Application) UnmarshalJSON(data []byte) error {
	type applicationAlias Application
	var parsed applicationAlias
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &parsed.Raw); err != nil {
		return err
	}
	*a = Application(parsed)
	return nil
}

type Job struct {
	ID      string   `json:"id"`
	Name    *string  `json:"name"`
	Status  *string  `json:"status"`
	Offices []Office `json:"offices"`
}

type Office struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

func (j Job) OfficeNames() []string {
	names := make([]string, 0, len(j.Offices))
	for _, office := range j.Offices {
		if office.Name != nil && *office.Name != "" {
			names = append(names, *office.Name)
		}
	}
	return names
}

type StageListResponse struct {
	Results []InterviewStage `json:"results"`
}

type InterviewStage struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
	Job  *string `json:"job"`
}
