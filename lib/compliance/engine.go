package compliance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"hiring-compliance-backend/lib/utils/helpers"
	"hiring-compliance-backend/models"
	dbmodels "hiring-compliance-backend/models/db"
)

// jurisdictionRule matches a normalized location string against one
// regulated jurisdiction. Terms are matched as substrings of the
// normalized location.
type jurisdictionRule struct {
	Code  models.RegulationCode
	Label string
	Terms []string
}

var jurisdictionRules = []jurisdictionRule{
	{
		Code:  models.RegulationNYCLL14,
		Label: "New York City",
		Terms: []string{"new york city", "nyc", "brooklyn", "manhattan", "queens ny", "bronx", "staten island"},
	},
	{
		Code:  models.RegulationILAIVI,
		Label: "Illinois",
		Terms: []string{"illinois", "chicago", " il"},
	},
	{
		Code:  models.RegulationCOSB205,
		Label: "Colorado",
		Terms: []string{"colorado", "denver", " co"},
	},
	{
		Code:  models.RegulationCACCR,
		Label: "California",
		Terms: []string{"california", "san francisco", "los angeles", "san diego", "san jose", " ca"},
	},
	{
		Code:  models.RegulationMDHB13,
		Label: "Maryland",
		Terms: []string{"maryland", "baltimore", " md"},
	},
	{
		Code:  models.RegulationNJAB,
		Label: "New Jersey",
		Terms: []string{"new jersey", "newark", "jersey city", " nj"},
	},
}

// DeriveJurisdictions returns the regulation codes implicated by a
// free-form location string. The result is sorted, deterministic for a
// fixed input.
func DeriveJurisdictions(location string) []string {
	normalized := helpers.NormalizeLocation(location)
	if normalized == "" {
		return nil
	}
	// pad so state-abbreviation terms can anchor on a word boundary
	padded := " " + normalized + " "
	found := map[string]struct{}{}
	for _, rule := range jurisdictionRules {
		for _, term := range rule.Terms {
			if strings.HasPrefix(term, " ") {
				if strings.Contains(padded, term+" ") {
					found[string(rule.Code)] = struct{}{}
					break
				}
				continue
			}
			if strings.Contains(normalized, term) {
				found[string(rule.Code)] = struct{}{}
				break
			}
		}
	}
	if len(found) == 0 {
		return nil
	}
	codes := make([]string, 0, len(found))
	for code := range found {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// JurisdictionLabel returns a display name for a regulation code.
func JurisdictionLabel(code models.RegulationCode) string {
	for _, rule := range jurisdictionRules {
		if rule.Code == code {
			return rule.Label
		}
	}
	return string(code)
}

// GenerateCandidateFlags derives candidate-level compliance flags. Pure
// function of the candidate snapshot, same input produces the same flags.
func GenerateCandidateFlags(candidate dbmodels.SyncedCandidate, now time.Time) dbmodels.ComplianceFlags {
	flags := dbmodels.ComplianceFlags{}
	if !candidate.IsRegulated {
		return flags
	}
	if candidate.ConsentStatus == models.ConsentStatusUnknown {
		flags = append(flags, dbmodels.ComplianceFlag{
			Type:       models.FlagTypeMissingConsent,
			Severity:   models.FlagSeverityWarning,
			Message:    fmt.Sprintf("candidate is in a regulated jurisdiction (%v) with unknown consent status", strings.Join(candidate.RegulatedJurisdictions, ", ")),
			DetectedAt: now,
		})
	}
	if candidate.DisclosureSentAt == nil {
		flags = append(flags, dbmodels.ComplianceFlag{
			Type:       models.FlagTypeMissingDisclosure,
			Severity:   models.FlagSeverityWarning,
			Message:    "candidate is in a regulated jurisdiction and no AI-use disclosure was recorded",
			DetectedAt: now,
		})
	}
	return flags
}

// GenerateApplicationFlags derives application-level compliance flags from
// the application and its full parent candidate record. Pure function;
// flags replace the stored list on every sync, they are never appended
// across runs.
func GenerateApplicationFlags(application dbmodels.SyncedApplication, candidate dbmodels.SyncedCandidate, now time.Time) dbmodels.ComplianceFlags {
	flags := dbmodels.ComplianceFlags{}
	if application.IsAIScreened && candidate.ConsentStatus != models.ConsentStatusGranted &&
		candidate.ConsentStatus != models.ConsentStatusNotRequired {
		stage := ""
		if application.AIScreenedStage != nil {
			stage = *application.AIScreenedStage
		}
		flags = append(flags, dbmodels.ComplianceFlag{
			Type:       models.FlagTypeAIScreenNoConsent,
			Severity:   models.FlagSeverityError,
			Message:    fmt.Sprintf("AI screening occurred (stage %q) without recorded candidate consent", stage),
			DetectedAt: now,
		})
	}
	if candidate.IsRegulated {
		if application.IsAIScreened && candidate.DisclosureSentAt == nil {
			flags = append(flags, dbmodels.ComplianceFlag{
				Type:       models.FlagTypeMissingDisclosure,
				Severity:   models.FlagSeverityError,
				Message:    "AI screening in a regulated jurisdiction without a recorded disclosure",
				DetectedAt: now,
			})
		}
		flags = append(flags, dbmodels.ComplianceFlag{
			Type:       models.FlagTypeRegulatedJurisdiction,
			Severity:   models.FlagSeverityInfo,
			Message:    fmt.Sprintf("application falls under: %v", strings.Join(candidate.RegulatedJurisdictions, ", ")),
			DetectedAt: now,
		})
	}
	return flags
}
