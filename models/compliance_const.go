package models

type ConsentStatus string

const (
	ConsentStatusUnknown     ConsentStatus = "unknown"
	ConsentStatusPending     ConsentStatus = "pending"
	ConsentStatusGranted     ConsentStatus = "granted"
	ConsentStatusDenied      ConsentStatus = "denied"
	ConsentStatusNotRequired ConsentStatus = "not_required"
)

func (s ConsentStatus) IsValid() bool {
	switch s {
	case ConsentStatusUnknown, ConsentStatusPending, ConsentStatusGranted,
		ConsentStatusDenied, ConsentStatusNotRequired:
		return true
	}
	return false
}

type FlagType string

const (
	FlagTypeMissingConsent        FlagType = "missing_consent"
	FlagTypeMissingDisclosure     FlagType = "missing_disclosure"
	FlagTypeAIScreenNoConsent     FlagType = "ai_screen_without_consent"
	FlagTypeRegulatedJurisdiction FlagType = "regulated_jurisdiction"
)

type FlagSeverity string

const (
	FlagSeverityInfo    FlagSeverity = "info"
	FlagSeverityWarning FlagSeverity = "warning"
	FlagSeverityError   FlagSeverity = "error"
)

// RegulationCode identifies a hiring-AI regulation tracked by the platform.
type RegulationCode string

const (
	RegulationILAIVI  RegulationCode = "IL_AIVIA"   // Illinois AI Video Interview Act
	RegulationNYCLL14 RegulationCode = "NYC_LL144"  // New York City Local Law 144
	RegulationCOSB205 RegulationCode = "CO_SB205"   // Colorado SB 21-169 / SB24-205
	RegulationCACCR   RegulationCode = "CA_CCR"     // California FEHA automated-decision rules
	RegulationMDHB13  RegulationCode = "MD_HB1202"  // Maryland facial recognition consent
	RegulationNJAB    RegulationCode = "NJ_A4909"   // New Jersey AEDT bill
)
