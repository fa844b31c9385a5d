package service

// TaskCheckConsistency verifies the account tree's path invariants for one
// organization. Enqueued after every cascade rename.
const TaskCheckConsistency = "ledger:check_consistency"

type ConsistencyCheckPayload struct {
	OrganizationID int64 `json:"organization_id"`
}
