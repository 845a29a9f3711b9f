package users

import (
	"time"

	"github.com/tikezone/platform/pkg/auth"
)

// User is the public user projection served to clients
type User struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

// Agent represents a scan agent record
type Agent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// agentLivenessWindow is how recently an agent must have checked in to be
// considered online
const agentLivenessWindow = 120 * time.Second

// IsOnline derives the agent's liveness from its last check-in. It is a pure
// function of the stored timestamp and the given time.
func (a *Agent) IsOnline(now time.Time) bool {
	return now.Sub(a.LastActiveAt) <= agentLivenessWindow
}
