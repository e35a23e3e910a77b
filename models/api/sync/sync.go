package syncapimodels

// SyncStats summarizes one sync pass. Per-record and per-page failures end
// up in Errors, they never fail the pass itself.
type SyncStats struct {
	CandidatesSynced   int `json:"candidates_synced"`
	ApplicationsSynced int `json:"applications_synced"`
	Errors             int `json:"errors"`
	ComplianceFlags    int `json:"compliance_flags"`
}
