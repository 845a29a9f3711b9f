package auth

// Role represents a principal's platform role
type Role string

const (
	RoleUser      Role = "user"      // Plain registered user
	RoleOrganizer Role = "organizer" // Can create and manage events
	RoleAgent     Role = "agent"     // Ticket scan agent
	RoleCustomer  Role = "customer"  // Default role minted on first login
)

// Valid reports whether the role is one of the known platform roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAgent, RoleCustomer:
		return true
	}
	return false
}
