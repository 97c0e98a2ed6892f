package lifecycle

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	// RoleSystem covers the payment provider and the expiry scheduler.
	RoleSystem Role = "system"
)

// Actor is the identity an operation runs on behalf of.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func (a Actor) IsSystem() bool { return a.Role == RoleSystem }

// Owns reports whether the actor is the given user acting as themselves.
func (a Actor) Owns(userID string) bool {
	return a.Role == RoleUser && a.UserID != "" && a.UserID == userID
}

func (a Actor) CanRead(userID string) bool {
	return a.IsAdmin() || a.Owns(userID)
}

var SystemActor = Actor{UserID: "system", Role: RoleSystem}
