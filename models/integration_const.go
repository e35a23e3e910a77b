package models

type IntegrationStatus string

const (
	IntegrationStatusActive       IntegrationStatus = "active"
	IntegrationStatusPaused       IntegrationStatus = "paused"
	IntegrationStatusDisconnected IntegrationStatus = "disconnected"
	IntegrationStatusError        IntegrationStatus = "error"
)

var integrationStatusHumanName = map[IntegrationStatus]string{
	IntegrationStatusActive:       "Connected",
	IntegrationStatusPaused:       "Paused",
	IntegrationStatusDisconnected: "Disconnected",
	IntegrationStatusError:        "Connection error",
}

func (s IntegrationStatus) ToHuman() string {
	if human, exist := integrationStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsSyncable reports whether a sync run may be started for the integration.
func (s IntegrationStatus) IsSyncable() bool {
	return s == IntegrationStatusActive || s == IntegrationStatusError
}
