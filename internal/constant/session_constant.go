package constant

// Session modes
const (
	SessionModeDeepInterview = "DEEP_INTERVIEW"
	SessionModeMockInterview = "MOCK_INTERVIEW"
	SessionModeJobSimulation = "JOB_SIMULATION"
)

// Session statuses
const (
	SessionStatusReady      = "READY"
	SessionStatusInProgress = "IN_PROGRESS"
	SessionStatusPaused     = "PAUSED"
	SessionStatusCompleted  = "COMPLETED"
)

// Turn roles
const (
	TurnRoleSystem = "system"
	TurnRoleAI     = "ai"
	TurnRoleNPC    = "npc"
	TurnRoleUser   = "user"
)

// Event topics
const (
	TopicSessionCompleted = "SESSION_COMPLETED"
)
