package compliance

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"hiring-compliance-backend/models"
	dbmodels "hiring-compliance-backend/models/db"
)

var testNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func TestDeriveJurisdictions(t *testing.T) {
	t.Run(`regulated locations check`, func(t *testing.T) {
		cases := map[string][]string{
			"New York City, NY":         {string(models.RegulationNYCLL14)},
			"Brooklyn":                  {string(models.RegulationNYCLL14)},
			"Chicago, IL":               {string(models.RegulationILAIVI)},
			"Denver, CO":                {string(models.RegulationCOSB205)},
			"San Francisco, CA":         {string(models.RegulationCACCR)},
			"Baltimore, MD":             {string(models.RegulationMDHB13)},
			"Jersey City, NJ":           {string(models.RegulationNJAB)},
			"remote (Illinois, USA)":    {string(models.RegulationILAIVI)},
		}
		for location, expected := range cases {
			require.Equal(t, expected, DeriveJurisdictions(location), location)
		}
	})

	t.Run(`unregulated locations check`, func(t *testing.T) {
		for _, location := range []string{"", "   ", "Austin, TX", "Seattle, WA", "London, UK", "Colombo"} {
			require.Empty(t, DeriveJurisdictions(location), location)
		}
	})

	t.Run(`abbreviation needs word boundary check`, func(t *testing.T) {
		// "co" inside a word must not match Colorado
		require.Empty(t, DeriveJurisdictions("Columbus, OH"))
	})

	t.Run(`determinism check`, func(t *testing.T) {
		first := DeriveJurisdictions("New York City and Chicago, IL")
		second := DeriveJurisdictions("New York City and Chicago, IL")
		require.Equal(t, first, second)
		require.Len(t, first, 2)
	})
}

func TestGenerateCandidateFlags(t *testing.T) {
	regulated := dbmodels.SyncedCandidate{
		IsRegulated:            true,
		RegulatedJurisdictions: pq.StringArray{string(models.RegulationNYCLL14)},
		ConsentStatus:          models.ConsentStatusUnknown,
	}

	t.Run(`missing consent and disclosure check`, func(t *testing.T) {
		flags := GenerateCandidateFlags(regulated, testNow)
		require.True(t, flags.HasFlag(models.FlagTypeMissingConsent))
		require.True(t, flags.HasFlag(models.FlagTypeMissingDisclosure))
	})

	t.Run(`granted consent check`, func(t *testing.T) {
		candidate := regulated
		candidate.ConsentStatus = models.ConsentStatusGranted
		candidate.DisclosureSentAt = &testNow
		flags := GenerateCandidateFlags(candidate, testNow)
		require.Len(t, flags, 0)
	})

	t.Run(`unregulated candidate check`, func(t *testing.T) {
		flags := GenerateCandidateFlags(dbmodels.SyncedCandidate{ConsentStatus: models.ConsentStatusUnknown}, testNow)
		require.Len(t, flags, 0)
	})

	t.Run(`determinism check`, func(t *testing.T) {
		first := GenerateCandidateFlags(regulated, testNow)
		second := GenerateCandidateFlags(regulated, testNow)
		require.Equal(t, first, second)
	})
}

func TestGenerateApplicationFlags(t *testing.T) {
	aiScreened := dbmodels.SyncedApplication{
		IsAIScreened:    true,
		AIScreenedStage: strPtr("AI Video Assessment"),
	}

	t.Run(`ai screen without consent check`, func(t *testing.T) {
		candidate := dbmodels.SyncedCandidate{ConsentStatus: models.ConsentStatusUnknown}
		flags := GenerateApplicationFlags(aiScreened, candidate, testNow)
		require.True(t, flags.HasFlag(models.FlagTypeAIScreenNoConsent))
	})

	t.Run(`ai screen with granted consent check`, func(t *testing.T) {
		candidate := dbmodels.SyncedCandidate{ConsentStatus: models.ConsentStatusGranted}
		flags := GenerateApplicationFlags(aiScreened, candidate, testNow)
		require.False(t, flags.HasFlag(models.FlagTypeAIScreenNoConsent))
	})

	t.Run(`consent not required check`, func(t *testing.T) {
		candidate := dbmodels.SyncedCandidate{ConsentStatus: models.ConsentStatusNotRequired}
		flags := GenerateApplicationFlags(aiScreened, candidate, testNow)
		require.False(t, flags.HasFlag(models.FlagTypeAIScreenNoConsent))
	})

	t.Run(`regulated jurisdiction info flag check`, func(t *testing.T) {
		candidate := dbmodels.SyncedCandidate{
			IsRegulated:            true,
			RegulatedJurisdictions: pq.StringArray{string(models.RegulationILAIVI)},
			ConsentStatus:          models.ConsentStatusGranted,
			DisclosureSentAt:       &testNow,
		}
		flags := GenerateApplicationFlags(dbmodels.SyncedApplication{}, candidate, testNow)
		require.True(t, flags.HasFlag(models.FlagTypeRegulatedJurisdiction))
		require.False(t, flags.HasFlag(models.FlagTypeMissingDisclosure))
	})

	t.Run(`ai screen in regulated jurisdiction without disclosure check`, func(t *testing.T) {
		candidate := dbmodels.SyncedCandidate{
			IsRegulated:            true,
			RegulatedJurisdictions: pq.StringArray{string(models.RegulationNYCLL14)},
			ConsentStatus:          models.ConsentStatusGranted,
		}
		flags := GenerateApplicationFlags(aiScreened, candidate, testNow)
		require.True(t, flags.HasFlag(models.FlagTypeMissingDisclosure))
	})
}
