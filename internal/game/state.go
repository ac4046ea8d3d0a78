package game

// SessionStatus represents the lifecycle state of a maze session
type SessionStatus string

const (
	StatusWaiting   SessionStatus = "WAITING"   // created, client not connected yet
	StatusActive    SessionStatus = "ACTIVE"    // client attached, simulation available
	StatusCompleted SessionStatus = "COMPLETED" // run won and recorded
	StatusExpired   SessionStatus = "EXPIRED"   // abandoned or timed out
)
