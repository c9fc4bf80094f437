package entities

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

const (
	UsageScopeAgent  = "agent"
	UsageScopeWriter = "writer"
)
