package atsmapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	atsapimodels "hiring-compliance-backend/models/api/ats"
	"hiring-compliance-backend/models"
)

func strPtr(s string) *string {
	return &s
}

func TestIsAIScreeningStage(t *testing.T) {
	t.Run(`ai stage names check`, func(t *testing.T) {
		flagged := []string{
			"AI Video Assessment",
			"Automated Phone Screen",
			"Algorithm Review",
			"HireVue Interview",
			"One-Way Interview",
			"ai-screen",
			"Skills Assessment",
			"Chatbot Screening",
		}
		for _, name := range flagged {
			require.True(t, IsAIScreeningStage(name), name)
		}
	})

	t.Run(`regular stage names check`, func(t *testing.T) {
		unflagged := []string{
			"",
			"   ",
			"Phone Screen",
			"Onsite Interview",
			"Trainer Interview", // "ai" inside a word must not match
			"Offer",
			"Hiring Manager Review",
		}
		for _, name := range unflagged {
			require.False(t, IsAIScreeningStage(name), name)
		}
	})
}

func TestMapCandidate(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	t.Run(`full payload check`, func(t *testing.T) {
		src := atsapimodels.Candidate{
			ID:        "cand-1",
			FirstName: strPtr("Dana"),
			LastName:  strPtr("Reyes"),
			EmailAddresses: []atsapimodels.EmailAddress{
				{Value: strPtr("work@example.com"), Type: strPtr("WORK")},
				{Value: strPtr("dana@example.com"), Type: strPtr("PERSONAL")},
			},
			PhoneNumbers: []atsapimodels.PhoneNumber{{Value: strPtr("+1 555 0100")}},
			Locations:    []string{"New York City, NY"},
			Tags:         []string{"engineering"},
			Raw:          map[string]any{"id": "cand-1"},
		}
		rec := MapCandidate("org-1", "int-1", src, now)
		require.Equal(t, "org-1", rec.OrganizationID)
		require.Equal(t, "int-1", rec.IntegrationID)
		require.Equal(t, "cand-1", rec.ExternalID)
		require.Equal(t, "dana@example.com", *rec.Email) // personal preferred
		require.Equal(t, "Dana Reyes", rec.GetFullName())
		require.Equal(t, "New York City, NY", *rec.Location)
		require.Equal(t, models.ConsentStatusUnknown, rec.ConsentStatus)
		require.Equal(t, now, rec.SyncedAt)
		require.False(t, rec.IsRegulated) // left for the flag engine
	})

	t.Run(`sparse payload check`, func(t *testing.T) {
		rec := MapCandidate("org-1", "int-1", atsapimodels.Candidate{ID: "cand-2"}, now)
		require.Equal(t, "cand-2", rec.ExternalID)
		require.Nil(t, rec.Email)
		require.Nil(t, rec.FirstName)
		require.Nil(t, rec.Phone)
		require.Nil(t, rec.Location)
		require.Equal(t, "", rec.GetFullName())
	})
}

func TestMapApplication(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	t.Run(`with job and ai stage check`, func(t *testing.T) {
		src := atsapimodels.Application{ID: "app-1", CandidateID: strPtr("cand-1")}
		job := &JobInfo{Name: strPtr("Backend Engineer"), Offices: []string{"NYC HQ"}}
		stage := &StageInfo{ID: strPtr("st-1"), Name: strPtr("AI Video Assessment")}
		rec := MapApplication("org-1", "int-1", "internal-cand", src, job, stage, now)
		require.Equal(t, "app-1", rec.ExternalID)
		require.Equal(t, "internal-cand", rec.CandidateID)
		require.Equal(t, "Backend Engineer", *rec.JobName)
		require.True(t, rec.IsAIScreened)
		require.Equal(t, "AI Video Assessment", *rec.AIScreenedStage)
		require.NotNil(t, rec.ComplianceFlags)
		require.Len(t, rec.ComplianceFlags, 0)
	})

	t.Run(`without job and stage check`, func(t *testing.T) {
		rec := MapApplication("org-1", "int-1", "internal-cand", atsapimodels.Application{ID: "app-2"}, nil, nil, now)
		require.Nil(t, rec.JobName)
		require.Nil(t, rec.CurrentStageName)
		require.False(t, rec.IsAIScreened)
	})
}

// Decoding goes through the real unmarshalling path here, the raw source
// payload must survive into the stored record.
func TestRawPayloadRetention(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	t.Run(`candidate raw payload check`, func(t *testing.T) {
		body := `{"results":[{"id":"cand-1","first_name":"Ana","locations":["New York City, NY"],"custom_fields":{"referral":"yes"}}],"next":null}`
		var resp atsapimodels.CandidateListResponse
		require.NoError(t, json.Unmarshal([]byte(body), &resp))
		require.Len(t, resp.Results, 1)

		rec := MapCandidate("org-1", "int-1", resp.Results[0], now)
		require.Equal(t, "Ana", *rec.FirstName)
		require.NotEmpty(t, rec.RawData)
		require.Equal(t, "cand-1", rec.RawData["id"])
		// unmapped vendor fields are retained too
		require.Contains(t, rec.RawData, "custom_fields")
	})

	t.Run(`application raw payload check`, func(t *testing.T) {
		body := `{"results":[{"id":"app-1","candidate":"cand-1","job":"job-1","source":"LinkedIn"}],"next":null}`
		var resp atsapimodels.ApplicationListResponse
		require.NoError(t, json.Unmarshal([]byte(body), &resp))
		require.Len(t, resp.Results, 1)

		rec := MapApplication("org-1", "int-1", "internal-cand", resp.Results[0], nil, nil, now)
		require.NotEmpty(t, rec.RawData)
		require.Equal(t, "app-1", rec.RawData["id"])
		require.Equal(t, "LinkedIn", rec.RawData["source"])
	})
}
